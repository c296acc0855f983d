package room

import (
	"github.com/google/uuid"
)

// Room is static reference data: seats belong to exactly one room.
type Room struct {
	id          uuid.UUID
	name        string
	description string
}

func NewRoom(name, description string) *Room {
	return &Room{
		id:          uuid.New(),
		name:        name,
		description: description,
	}
}

func ReconstructRoom(id uuid.UUID, name, description string) *Room {
	return &Room{
		id:          id,
		name:        name,
		description: description,
	}
}

func (r *Room) ID() uuid.UUID       { return r.id }
func (r *Room) Name() string        { return r.name }
func (r *Room) Description() string { return r.description }
