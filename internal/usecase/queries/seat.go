package queries

import (
	"context"
	"time"

	"studyseat/internal/domain/booking"
	"studyseat/internal/domain/seat"
	"studyseat/internal/infra"
	"studyseat/internal/pkg/clock"
	"studyseat/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound = errs.New("room not found")
	ErrSeatQuery    = errs.New("failed to query seats")
)

type SeatQueries interface {
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*SeatView, error)
	// GetSeatStatuses classifies every seat of the room against the
	// requested window.
	GetSeatStatuses(ctx context.Context, roomID uuid.UUID, startAt, endAt time.Time) ([]*SeatStatusView, error)
}

type SeatViewRepo interface {
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*SeatView, error)
	ListLiveBookingsByRoom(ctx context.Context, roomID uuid.UUID) ([]*SeatBookingRow, error)
}

type RoomViewRepo interface {
	List(ctx context.Context) ([]*RoomView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*RoomView, error)
}

type seatQueriesImpl struct {
	seats SeatViewRepo
	rooms RoomViewRepo
	clock clock.Clock
}

func NewSeatQueries(seats SeatViewRepo, rooms RoomViewRepo, clock clock.Clock) SeatQueries {
	return &seatQueriesImpl{seats: seats, rooms: rooms, clock: clock}
}

func (q *seatQueriesImpl) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*SeatView, error) {
	if err := q.ensureRoomExists(ctx, roomID); err != nil {
		return nil, err
	}
	views, err := q.seats.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errs.Mark(err, ErrSeatQuery)
	}
	return views, nil
}

func (q *seatQueriesImpl) GetSeatStatuses(ctx context.Context, roomID uuid.UUID, startAt, endAt time.Time) ([]*SeatStatusView, error) {
	if err := q.ensureRoomExists(ctx, roomID); err != nil {
		return nil, err
	}

	seatViews, err := q.seats.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, errs.Mark(err, ErrSeatQuery)
	}
	bookingRows, err := q.seats.ListLiveBookingsByRoom(ctx, roomID)
	if err != nil {
		return nil, errs.Mark(err, ErrSeatQuery)
	}

	bySeat := make(map[uuid.UUID][]*booking.Booking, len(seatViews))
	for _, row := range bookingRows {
		b, convErr := toDomainBooking(row)
		if convErr != nil {
			return nil, errs.Mark(convErr, ErrSeatQuery)
		}
		bySeat[row.SeatID] = append(bySeat[row.SeatID], b)
	}

	window := booking.ReconstructTimeWindow(startAt, endAt)
	now := q.clock.Now()

	statuses := make([]*SeatStatusView, 0, len(seatViews))
	for _, sv := range seatViews {
		entity := seat.ReconstructSeat(sv.ID, sv.RoomID, sv.Label, sv.PosX, sv.PosY, sv.IsOpen, sv.Note)
		status, occupant := seat.Classify(entity, window, bySeat[sv.ID], now)

		view := &SeatStatusView{
			SeatID: sv.ID,
			Label:  sv.Label,
			PosX:   sv.PosX,
			PosY:   sv.PosY,
			Status: status.String(),
		}
		if occupant != nil {
			view.Occupied = &OccupancySummary{
				StartAt: occupant.Window().Start(),
				EndAt:   occupant.Window().End(),
				UserID:  occupant.UserID(),
			}
		}
		statuses = append(statuses, view)
	}
	return statuses, nil
}

func (q *seatQueriesImpl) ensureRoomExists(ctx context.Context, roomID uuid.UUID) error {
	if _, err := q.rooms.FindByID(ctx, roomID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrRoomNotFound
		}
		return errs.Mark(err, ErrSeatQuery)
	}
	return nil
}

func toDomainBooking(row *SeatBookingRow) (*booking.Booking, error) {
	status, err := booking.NewStatus(row.Status)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		row.ID, row.UserID, row.SeatID,
		booking.ReconstructTimeWindow(row.StartAt, row.EndAt),
		"", status, time.Time{},
	), nil
}
