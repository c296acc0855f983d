package request

import (
	"time"
)

// SeatStatusRequest asks for the availability board of a room over a
// candidate window.
type SeatStatusRequest struct {
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required,gtfield=StartAt"`
}

type UpdateSeatRequest struct {
	IsOpen bool   `json:"is_open"`
	Note   string `json:"note" binding:"max=200"`
}
