package response

import (
	"time"

	"studyseat/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID        uuid.UUID `json:"id"`
	SeatID    uuid.UUID `json:"seatId"`
	SeatLabel string    `json:"seatLabel"`
	RoomName  string    `json:"roomName"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Token     string    `json:"token"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type BookingListResponse struct {
	ID        uuid.UUID `json:"id"`
	SeatID    uuid.UUID `json:"seatId"`
	SeatLabel string    `json:"seatLabel"`
	RoomName  string    `json:"roomName"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:        rm.ID,
		SeatID:    rm.SeatID,
		SeatLabel: rm.SeatLabel,
		RoomName:  rm.RoomName,
		StartAt:   rm.StartAt,
		EndAt:     rm.EndAt,
		Token:     rm.Token,
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:        rm.ID,
		SeatID:    rm.SeatID,
		SeatLabel: rm.SeatLabel,
		RoomName:  rm.RoomName,
		StartAt:   rm.StartAt,
		EndAt:     rm.EndAt,
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt,
	}
}
