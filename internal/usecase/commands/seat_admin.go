package commands

import (
	"context"

	"studyseat/internal/infra"
	"studyseat/internal/pkg/errs"
	"studyseat/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrSeatNotFound = errs.New("seat not found")

type SeatAdminCommands interface {
	SetSeatState(ctx context.Context, seatID uuid.UUID, isOpen bool, note string) error
}

type seatAdminCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewSeatAdminCommands(uow shared.UnitOfWork) SeatAdminCommands {
	return &seatAdminCommandsImpl{uow: uow}
}

// SetSeatState overwrites the open flag and note unconditionally.
// Closing a seat does not touch existing bookings; their tokens stay
// redeemable.
func (s *seatAdminCommandsImpl) SetSeatState(ctx context.Context, seatID uuid.UUID, isOpen bool, note string) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Seats().SetState(ctx, seatID, isOpen, note); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSeatNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
