package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"studyseat/internal/domain/booking"
	"studyseat/internal/domain/user"
	reqdto "studyseat/internal/handler/dto/request"
	"studyseat/internal/infra"
	"studyseat/internal/pkg/clock"
	"studyseat/internal/pkg/errs"
	"studyseat/internal/usecase/queries"
	"studyseat/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrAdminCannotBook         = errs.New("admin accounts cannot book seats")
	ErrInvalidWindow           = errs.New("invalid booking window")
	ErrActiveBookingExists     = errs.New("user already has an active booking")
	ErrSeatUnavailable         = errs.New("seat unavailable")
	ErrSeatConflict            = errs.New("seat conflict")
	ErrNotOwner                = errs.New("booking not owned by user")
	ErrBookingAlreadyCancelled = errs.New("booking already cancelled")
	ErrDuplicateRequest        = errs.New("duplicate request with different payload")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const idempotencyTTL = 24 * time.Hour

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, userID uuid.UUID, role user.Role, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	idempotency    shared.IdempotencyRepository
	bookingQueries queries.BookingQueries
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	idempotency shared.IdempotencyRepository,
	bookingQueries queries.BookingQueries,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		idempotency:    idempotency,
		bookingQueries: bookingQueries,
		clock:          clock,
	}
}

func (b *bookingCommandsImpl) CreateBooking(
	ctx context.Context,
	req reqdto.CreateBookingRequest,
	userID uuid.UUID,
	role user.Role,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	if role.IsAdmin() {
		return nil, ErrAdminCannotBook
	}

	window, err := req.ToWindow()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidWindow)
	}

	requestHash := calculateRequestHash(req)
	expiresAt := b.clock.Now().Add(idempotencyTTL)

	replayed, err := b.handleIdempotency(ctx, idempotencyKey, userID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateBookingResult{Booking: replayed, IsReplayed: true}, nil
	}

	bookingID, err := b.createNewBooking(ctx, userID, req.SeatID, window, idempotencyKey)
	if err != nil {
		return nil, err
	}

	view, err := b.bookingQueries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &CreateBookingResult{Booking: view, IsReplayed: false}, nil
}

// handleIdempotency claims the key or resolves what a previous claim did.
// A non-nil view means the booking already exists and should be replayed.
func (b *bookingCommandsImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.BookingView, error) {
	inserted, err := b.idempotency.TryInsert(ctx, idempotencyKey, userID, "POST /bookings", requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if inserted {
		// The insert itself proves the claim is ours. Timestamps are not
		// round-tripped through the store, which truncates to microseconds.
		return nil, nil
	}

	existing, err := b.idempotency.Get(ctx, idempotencyKey, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateRequest
		}
		if existing.ResultBookingID == nil {
			return nil, errs.New("completed request missing result booking ID")
		}
		return b.bookingQueries.GetByIDSystem(ctx, *existing.ResultBookingID)

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateRequest
		}
		if existing.ExpiresAt.Before(b.clock.Now()) {
			claimed, claimErr := b.idempotency.ClaimExpired(ctx, idempotencyKey, userID, requestHash, expiresAt)
			if claimErr != nil {
				return nil, errs.Mark(claimErr, ErrIdempotencyCheckFailed)
			}
			if claimed > 0 {
				return nil, nil
			}
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (b *bookingCommandsImpl) createNewBooking(
	ctx context.Context,
	userID, seatID uuid.UUID,
	window booking.TimeWindow,
	idempotencyKey uuid.UUID,
) (uuid.UUID, error) {
	var bookingID uuid.UUID

	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Same-user attempts serialize on the user row so the
		// one-active-booking rule holds under concurrency.
		if err := tx.Users().LockByID(ctx, userID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		now := b.clock.Now()
		hasLive, err := tx.Bookings().HasLiveByUser(ctx, userID, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if hasLive {
			return ErrActiveBookingExists
		}

		seatSnap, err := tx.Seats().FindForUpdate(ctx, seatID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSeatUnavailable
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !seatSnap.IsOpen {
			return ErrSeatUnavailable
		}

		overlaps, err := tx.Bookings().HasOverlapping(ctx, seatID, window)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlaps {
			return ErrSeatConflict
		}

		entity := booking.NewBooking(userID, seatID, window)
		if err := tx.Bookings().Create(ctx, entity); err != nil {
			// The exclusion constraint is the backstop for overlaps the
			// row lock did not serialize.
			if infra.IsKind(err, infra.KindConflict) {
				return ErrSeatConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Idempotency().MarkCompleted(ctx, idempotencyKey, userID, entity.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		bookingID = entity.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return bookingID, nil
}

func (b *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error {
	return b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			// Existence of other users' bookings is not disclosed.
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrNotOwner
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if snap.UserID != userID {
			return ErrNotOwner
		}
		if snap.Status == booking.StatusCancelled {
			// Cancelling twice is a no-op.
			return nil
		}
		if err := tx.Bookings().SetStatus(ctx, bookingID, booking.StatusCancelled); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func calculateRequestHash(req reqdto.CreateBookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
