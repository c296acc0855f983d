package shared

import (
	"context"
	"time"

	"studyseat/internal/domain/booking"
	"studyseat/internal/domain/user"
	"studyseat/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Seats() SeatRepository
	Users() UserRepository
	Idempotency() IdempotencyRepository
	DB() db.DBTX
}

// Minimal snapshots for command-side validation reads.

type BookingSnapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SeatID    uuid.UUID
	StartAt   time.Time
	EndAt     time.Time
	Token     string
	Status    booking.Status
	CreatedAt time.Time
}

func (b *BookingSnapshot) Window() booking.TimeWindow {
	return booking.ReconstructTimeWindow(b.StartAt, b.EndAt)
}

type SeatSnapshot struct {
	ID     uuid.UUID
	RoomID uuid.UUID
	Label  string
	IsOpen bool
	Note   string
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Endpoint        string
	RequestHash     string
	Status          string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	SetStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
	FindByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	FindByToken(ctx context.Context, token string) (*BookingSnapshot, error)
	// HasLiveByUser reports whether the user owns any non-cancelled booking
	// whose end is still in the future, across all seats.
	HasLiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error)
	// HasOverlapping reports whether any non-cancelled booking on the seat
	// intersects the half-open window.
	HasOverlapping(ctx context.Context, seatID uuid.UUID, window booking.TimeWindow) (bool, error)
}

type SeatRepository interface {
	// FindForUpdate locks the seat row for the rest of the transaction so
	// concurrent booking attempts on the same seat serialize.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*SeatSnapshot, error)
	SetState(ctx context.Context, id uuid.UUID, isOpen bool, note string) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	// LockByID serializes same-user concurrent booking attempts.
	LockByID(ctx context.Context, id uuid.UUID) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key in the processing state. It reports whether
	// this call inserted the row; false means an earlier claim holds it.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key, userID uuid.UUID, resultBookingID uuid.UUID) error
	// ClaimExpired re-arms an expired processing key; returns affected rows.
	ClaimExpired(ctx context.Context, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error)
}
