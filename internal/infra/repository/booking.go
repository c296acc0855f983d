package repository

import (
	"context"
	"time"

	"studyseat/internal/domain/booking"
	"studyseat/internal/infra"
	"studyseat/internal/infra/db"
	"studyseat/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	const query = `
		INSERT INTO bookings (id, user_id, seat_id, start_at, end_at, token, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		b.ID(), b.UserID(), b.SeatID(),
		b.Window().Start(), b.Window().End(),
		b.Token().String(), b.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err, infra.KindFromPgError(err))
	}
	return nil
}

func (r *BookingRepository) SetStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	const query = `UPDATE bookings SET status = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	const query = `
		SELECT id, user_id, seat_id, start_at, end_at, token, status, created_at
		FROM bookings
		WHERE id = $1`

	return r.scanSnapshot(ctx, query, id)
}

func (r *BookingRepository) FindByToken(ctx context.Context, token string) (*shared.BookingSnapshot, error) {
	const query = `
		SELECT id, user_id, seat_id, start_at, end_at, token, status, created_at
		FROM bookings
		WHERE token = $1`

	return r.scanSnapshot(ctx, query, token)
}

func (r *BookingRepository) HasLiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND status <> 'cancelled' AND end_at > $2
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, now).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check live bookings", err)
	}
	return exists, nil
}

func (r *BookingRepository) HasOverlapping(ctx context.Context, seatID uuid.UUID, window booking.TimeWindow) (bool, error) {
	// Half-open intervals intersect iff start_at < candidate end AND
	// end_at > candidate start; boundary-touching windows do not conflict.
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE seat_id = $1 AND status <> 'cancelled'
			  AND start_at < $3 AND end_at > $2
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, seatID, window.Start(), window.End()).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check overlapping bookings", err)
	}
	return exists, nil
}

func (r *BookingRepository) scanSnapshot(ctx context.Context, query string, arg any) (*shared.BookingSnapshot, error) {
	var (
		snap   shared.BookingSnapshot
		status string
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&snap.ID, &snap.UserID, &snap.SeatID,
		&snap.StartAt, &snap.EndAt,
		&snap.Token, &status, &snap.CreatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	st, err := booking.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt booking status", err)
	}
	snap.Status = st
	return &snap, nil
}
