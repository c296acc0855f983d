package readstore

import (
	"context"

	"studyseat/internal/infra"
	"studyseat/internal/infra/db"
	"studyseat/internal/usecase/queries"

	"github.com/google/uuid"
)

type SeatReadStore struct {
	db db.DBTX
}

func NewSeatReadStore(dbtx db.DBTX) *SeatReadStore {
	return &SeatReadStore{db: dbtx}
}

func (r *SeatReadStore) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*queries.SeatView, error) {
	const query = `
		SELECT id, room_id, label, pos_x, pos_y, is_open, COALESCE(note, '')
		FROM seats
		WHERE room_id = $1
		ORDER BY label`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list seats", err)
	}
	defer rows.Close()

	var result []*queries.SeatView
	for rows.Next() {
		var v queries.SeatView
		if err := rows.Scan(&v.ID, &v.RoomID, &v.Label, &v.PosX, &v.PosY, &v.IsOpen, &v.Note); err != nil {
			return nil, infra.WrapRepoErr("failed to scan seat row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read seat rows", err)
	}
	return result, nil
}

// ListLiveBookingsByRoom returns every non-cancelled booking on the room's
// seats, ordered per seat by start time. The display query feeds these into
// the classification scan; it deliberately does not filter by window so the
// scan sees exactly what a commit-time check would.
func (r *SeatReadStore) ListLiveBookingsByRoom(ctx context.Context, roomID uuid.UUID) ([]*queries.SeatBookingRow, error) {
	const query = `
		SELECT b.seat_id, b.id, b.user_id, b.start_at, b.end_at, b.status
		FROM bookings b
		JOIN seats s ON b.seat_id = s.id
		WHERE s.room_id = $1 AND b.status <> 'cancelled'
		ORDER BY b.seat_id, b.start_at`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list room bookings", err)
	}
	defer rows.Close()

	var result []*queries.SeatBookingRow
	for rows.Next() {
		var v queries.SeatBookingRow
		if err := rows.Scan(&v.SeatID, &v.ID, &v.UserID, &v.StartAt, &v.EndAt, &v.Status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}
	return result, nil
}
