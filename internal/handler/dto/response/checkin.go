package response

import "github.com/google/uuid"

type CheckInResponse struct {
	SeatID uuid.UUID `json:"seat_id"`
	Status string    `json:"status"`
}
