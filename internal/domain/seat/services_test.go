//go:build unit

package seat_test

import (
	"testing"
	"time"

	"studyseat/internal/domain/booking"
	"studyseat/internal/domain/seat"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func window(t *testing.T, start, end time.Time) booking.TimeWindow {
	t.Helper()
	w, err := booking.NewTimeWindow(start, end)
	require.NoError(t, err)
	return w
}

func makeBooking(t *testing.T, seatID uuid.UUID, start, end time.Time, status booking.Status) *booking.Booking {
	t.Helper()
	return booking.ReconstructBooking(
		uuid.New(), uuid.New(), seatID,
		window(t, start, end),
		booking.NewToken(), status, at(7, 0),
	)
}

func openSeat(roomID uuid.UUID) *seat.Seat {
	return seat.ReconstructSeat(uuid.New(), roomID, "A1", 0, 0, true, "")
}

func TestClassify(t *testing.T) {
	roomID := uuid.New()
	now := at(9, 15)
	candidate := func(t2 *testing.T) booking.TimeWindow { return window(t2, at(9, 0), at(10, 0)) }

	t.Run("closed seat wins over everything", func(t *testing.T) {
		s := seat.ReconstructSeat(uuid.New(), roomID, "A1", 0, 0, false, "broken lamp")
		b := makeBooking(t, s.ID(), at(9, 0), at(10, 0), booking.StatusUsing)

		status, occupant := seat.Classify(s, candidate(t), []*booking.Booking{b}, now)

		assert.Equal(t, seat.StatusClosed, status)
		assert.Nil(t, occupant)
	})

	t.Run("no bookings means available", func(t *testing.T) {
		s := openSeat(roomID)

		status, occupant := seat.Classify(s, candidate(t), nil, now)

		assert.Equal(t, seat.StatusAvailable, status)
		assert.Nil(t, occupant)
	})

	t.Run("cancelled bookings are ignored", func(t *testing.T) {
		s := openSeat(roomID)
		b := makeBooking(t, s.ID(), at(9, 0), at(10, 0), booking.StatusCancelled)

		status, _ := seat.Classify(s, candidate(t), []*booking.Booking{b}, now)

		assert.Equal(t, seat.StatusAvailable, status)
	})

	t.Run("non-overlapping booking leaves the seat available", func(t *testing.T) {
		s := openSeat(roomID)
		b := makeBooking(t, s.ID(), at(10, 0), at(11, 0), booking.StatusBooked)

		status, _ := seat.Classify(s, candidate(t), []*booking.Booking{b}, now)

		assert.Equal(t, seat.StatusAvailable, status)
	})

	t.Run("overlapping booking in using state", func(t *testing.T) {
		s := openSeat(roomID)
		b := makeBooking(t, s.ID(), at(9, 0), at(10, 0), booking.StatusUsing)

		status, occupant := seat.Classify(s, candidate(t), []*booking.Booking{b}, now)

		assert.Equal(t, seat.StatusUsing, status)
		assert.Same(t, b, occupant)
	})

	t.Run("booked window containing now counts as using", func(t *testing.T) {
		s := openSeat(roomID)
		b := makeBooking(t, s.ID(), at(9, 0), at(10, 0), booking.StatusBooked)

		status, _ := seat.Classify(s, candidate(t), []*booking.Booking{b}, now)

		assert.Equal(t, seat.StatusUsing, status)
	})

	t.Run("future booked window counts as booked", func(t *testing.T) {
		s := openSeat(roomID)
		b := makeBooking(t, s.ID(), at(9, 30), at(10, 0), booking.StatusBooked)

		earlier := at(9, 0)
		status, _ := seat.Classify(s, candidate(t), []*booking.Booking{b}, earlier)

		assert.Equal(t, seat.StatusBooked, status)
	})

	t.Run("first overlapping booking wins", func(t *testing.T) {
		s := openSeat(roomID)
		first := makeBooking(t, s.ID(), at(9, 0), at(9, 30), booking.StatusBooked)
		second := makeBooking(t, s.ID(), at(9, 30), at(10, 0), booking.StatusUsing)

		status, occupant := seat.Classify(s, candidate(t), []*booking.Booking{first, second}, at(8, 0))

		assert.Equal(t, seat.StatusBooked, status)
		assert.Same(t, first, occupant)
	})
}
