package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid booking status")
)

type Booking struct {
	id        uuid.UUID
	userID    uuid.UUID
	seatID    uuid.UUID
	window    TimeWindow
	token     Token
	status    Status
	createdAt time.Time
}

// NewBooking creates a booking in the initial booked state with a fresh
// check-in token. Window validity is guaranteed by NewTimeWindow.
func NewBooking(userID, seatID uuid.UUID, window TimeWindow) *Booking {
	return &Booking{
		id:     uuid.New(),
		userID: userID,
		seatID: seatID,
		window: window,
		token:  NewToken(),
		status: StatusBooked,
	}
}

func ReconstructBooking(
	id, userID, seatID uuid.UUID,
	window TimeWindow,
	token Token,
	status Status,
	createdAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		userID:    userID,
		seatID:    seatID,
		window:    window,
		token:     token,
		status:    status,
		createdAt: createdAt,
	}
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) UserID() uuid.UUID    { return b.userID }
func (b *Booking) SeatID() uuid.UUID    { return b.seatID }
func (b *Booking) Window() TimeWindow   { return b.window }
func (b *Booking) Token() Token         { return b.token }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

func (b *Booking) IsCancelled() bool {
	return b.status == StatusCancelled
}

// IsLive reports whether the booking still counts against the caller's
// one-active-booking allowance: not cancelled and not yet ended.
func (b *Booking) IsLive(now time.Time) bool {
	return b.status != StatusCancelled && b.window.End().After(now)
}
