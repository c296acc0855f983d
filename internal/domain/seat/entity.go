package seat

import (
	"github.com/google/uuid"
)

type Seat struct {
	id     uuid.UUID
	roomID uuid.UUID
	label  string
	posX   int
	posY   int
	isOpen bool
	note   string
}

func NewSeat(roomID uuid.UUID, label string, posX, posY int) *Seat {
	return &Seat{
		id:     uuid.New(),
		roomID: roomID,
		label:  label,
		posX:   posX,
		posY:   posY,
		isOpen: true,
	}
}

func ReconstructSeat(id, roomID uuid.UUID, label string, posX, posY int, isOpen bool, note string) *Seat {
	return &Seat{
		id:     id,
		roomID: roomID,
		label:  label,
		posX:   posX,
		posY:   posY,
		isOpen: isOpen,
		note:   note,
	}
}

func (s *Seat) ID() uuid.UUID     { return s.id }
func (s *Seat) RoomID() uuid.UUID { return s.roomID }
func (s *Seat) Label() string     { return s.label }
func (s *Seat) PosX() int         { return s.posX }
func (s *Seat) PosY() int         { return s.posY }
func (s *Seat) IsOpen() bool      { return s.isOpen }
func (s *Seat) Note() string      { return s.note }

// SetState is the admin toggle: an unconditional overwrite of the open flag
// and note. Existing bookings are left untouched.
func (s *Seat) SetState(isOpen bool, note string) {
	s.isOpen = isOpen
	s.note = note
}
