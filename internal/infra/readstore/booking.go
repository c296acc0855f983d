package readstore

import (
	"context"

	"studyseat/internal/infra"
	"studyseat/internal/infra/db"
	"studyseat/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const query = `
		SELECT b.id, b.seat_id, s.label, rm.name, b.user_id,
		       b.start_at, b.end_at, b.token, b.status, b.created_at
		FROM bookings b
		JOIN seats s ON b.seat_id = s.id
		JOIN rooms rm ON s.room_id = rm.id
		WHERE b.id = $1`

	var v queries.BookingView
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.SeatID, &v.SeatLabel, &v.RoomName, &v.UserID,
		&v.StartAt, &v.EndAt, &v.Token, &v.Status, &v.CreatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return &v, nil
}

func (r *BookingReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.BookingListItem, error) {
	const query = `
		SELECT b.id, b.seat_id, s.label, rm.name,
		       b.start_at, b.end_at, b.status, b.created_at
		FROM bookings b
		JOIN seats s ON b.seat_id = s.id
		JOIN rooms rm ON s.room_id = rm.id
		WHERE b.user_id = $1
		ORDER BY b.start_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var v queries.BookingListItem
		if err := rows.Scan(&v.ID, &v.SeatID, &v.SeatLabel, &v.RoomName,
			&v.StartAt, &v.EndAt, &v.Status, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}
	return result, nil
}
