package seat

import (
	"time"

	"studyseat/internal/domain/booking"
)

// Classify computes the occupancy state of one seat for a candidate window.
// An administratively closed seat short-circuits everything else. Otherwise
// the non-cancelled bookings are scanned in order and the first one whose
// interval overlaps the window wins: it counts as "using" when its status
// already is, or when now falls inside its own interval; otherwise "booked".
// Disjointness of live bookings makes more than one match impossible under
// normal operation, so no aggregation is attempted.
func Classify(s *Seat, window booking.TimeWindow, bookings []*booking.Booking, now time.Time) (Status, *booking.Booking) {
	if !s.IsOpen() {
		return StatusClosed, nil
	}

	for _, b := range bookings {
		if b.IsCancelled() {
			continue
		}
		if !b.Window().Overlaps(window) {
			continue
		}
		if b.Status() == booking.StatusUsing || b.Window().Contains(now) {
			return StatusUsing, b
		}
		return StatusBooked, b
	}

	return StatusAvailable, nil
}
