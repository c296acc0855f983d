package response

import (
	"time"

	"studyseat/internal/usecase/queries"

	"github.com/google/uuid"
)

type SeatResponse struct {
	ID     uuid.UUID `json:"id"`
	RoomID uuid.UUID `json:"roomId"`
	Label  string    `json:"label"`
	PosX   int       `json:"posX"`
	PosY   int       `json:"posY"`
	IsOpen bool      `json:"isOpen"`
	Note   string    `json:"note"`
}

type SeatStatusResponse struct {
	SeatID   uuid.UUID          `json:"seatId"`
	Label    string             `json:"label"`
	PosX     int                `json:"posX"`
	PosY     int                `json:"posY"`
	Status   string             `json:"status"`
	Occupied *OccupancyResponse `json:"occupied,omitempty"`
}

type OccupancyResponse struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	UserID  uuid.UUID `json:"userId"`
}

func FromSeatView(rm *queries.SeatView) *SeatResponse {
	return &SeatResponse{
		ID:     rm.ID,
		RoomID: rm.RoomID,
		Label:  rm.Label,
		PosX:   rm.PosX,
		PosY:   rm.PosY,
		IsOpen: rm.IsOpen,
		Note:   rm.Note,
	}
}

func FromSeatStatusView(rm *queries.SeatStatusView) *SeatStatusResponse {
	resp := &SeatStatusResponse{
		SeatID: rm.SeatID,
		Label:  rm.Label,
		PosX:   rm.PosX,
		PosY:   rm.PosY,
		Status: rm.Status,
	}
	if rm.Occupied != nil {
		resp.Occupied = &OccupancyResponse{
			StartAt: rm.Occupied.StartAt,
			EndAt:   rm.Occupied.EndAt,
			UserID:  rm.Occupied.UserID,
		}
	}
	return resp
}
