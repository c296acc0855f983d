package commands

import (
	"context"

	"studyseat/internal/domain/booking"
	"studyseat/internal/infra"
	"studyseat/internal/pkg/clock"
	"studyseat/internal/pkg/errs"
	"studyseat/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errs.New("invalid check-in token")
	ErrOutsideWindow    = errs.New("outside booking window")
	ErrAlreadyCheckedIn = errs.New("booking already checked in")
)

type CheckInResult struct {
	SeatID uuid.UUID
}

type CheckinCommands interface {
	CheckIn(ctx context.Context, token string) (*CheckInResult, error)
}

type checkinCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCheckinCommands(uow shared.UnitOfWork, clock clock.Clock) CheckinCommands {
	return &checkinCommandsImpl{uow: uow, clock: clock}
}

// CheckIn redeems a booking token at the seat. The window check is
// inclusive at both ends so arriving exactly at the end minute still
// succeeds. A cancelled booking does not block redemption; only a
// booking already in use does.
func (c *checkinCommandsImpl) CheckIn(ctx context.Context, token string) (*CheckInResult, error) {
	var result *CheckInResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Bookings().FindByToken(ctx, token)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrInvalidToken
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !snap.Window().ContainsInclusive(c.clock.Now()) {
			return ErrOutsideWindow
		}
		if snap.Status == booking.StatusUsing {
			return ErrAlreadyCheckedIn
		}

		if err := tx.Bookings().SetStatus(ctx, snap.ID, booking.StatusUsing); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &CheckInResult{SeatID: snap.SeatID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
