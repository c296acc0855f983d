package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTOs for the read side)

type RoomView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type SeatView struct {
	ID     uuid.UUID `json:"id"`
	RoomID uuid.UUID `json:"room_id"`
	Label  string    `json:"label"`
	PosX   int       `json:"pos_x"`
	PosY   int       `json:"pos_y"`
	IsOpen bool      `json:"is_open"`
	Note   string    `json:"note"`
}

// SeatStatusView is one row of the availability board: the seat, its
// classification for the requested window, and the occupying booking
// summary when the seat is taken.
type SeatStatusView struct {
	SeatID   uuid.UUID         `json:"seat_id"`
	Label    string            `json:"label"`
	PosX     int               `json:"pos_x"`
	PosY     int               `json:"pos_y"`
	Status   string            `json:"status"`
	Occupied *OccupancySummary `json:"occupied,omitempty"`
}

type OccupancySummary struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	UserID  uuid.UUID `json:"user_id"`
}

type BookingView struct {
	ID        uuid.UUID `json:"id"`
	SeatID    uuid.UUID `json:"seat_id"`
	SeatLabel string    `json:"seat_label"`
	RoomName  string    `json:"room_name"`
	UserID    uuid.UUID `json:"user_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Token     string    `json:"token"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type BookingListItem struct {
	ID        uuid.UUID `json:"id"`
	SeatID    uuid.UUID `json:"seat_id"`
	SeatLabel string    `json:"seat_label"`
	RoomName  string    `json:"room_name"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// SeatBookingRow is a live (non-cancelled) booking attached to a seat,
// as fed into the classification scan.
type SeatBookingRow struct {
	SeatID  uuid.UUID
	ID      uuid.UUID
	UserID  uuid.UUID
	StartAt time.Time
	EndAt   time.Time
	Status  string
}
