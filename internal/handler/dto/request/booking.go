package request

import (
	"time"

	"studyseat/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SeatID  uuid.UUID `json:"seat_id" binding:"required"`
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
}

func (r CreateBookingRequest) ToWindow() (booking.TimeWindow, error) {
	return booking.NewTimeWindow(r.StartAt, r.EndAt)
}
