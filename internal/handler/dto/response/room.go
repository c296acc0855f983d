package response

import (
	"studyseat/internal/usecase/queries"

	"github.com/google/uuid"
)

type RoomResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func FromRoomView(rm *queries.RoomView) *RoomResponse {
	return &RoomResponse{
		ID:          rm.ID,
		Name:        rm.Name,
		Description: rm.Description,
	}
}
