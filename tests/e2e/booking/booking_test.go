//go:build e2e

package booking_test

import (
	"net/http"
	"testing"
	"time"

	"studyseat/internal/handler/dto/request"
	"studyseat/internal/handler/dto/response"
	"studyseat/tests/common/authtest"
	"studyseat/tests/common/dbtest"
	"studyseat/tests/common/httptest"
	"studyseat/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL = "/api/bookings"
	checkinURL  = "/api/checkin"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// gridTime returns a future instant on the half-hour grid so window
// validation passes regardless of when the test runs.
func gridTime(hoursAhead int) time.Time {
	return time.Now().UTC().Truncate(30 * time.Minute).Add(time.Duration(hoursAhead) * time.Hour)
}

func idemHeader() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.NewString()}
}

func (s *BookingSuite) createBooking(token string, req request.CreateBookingRequest, headers map[string]string) *response.BookingResponse {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, req, token, headers)

	var booked response.BookingResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &booked)
	return &booked
}

func (s *BookingSuite) TestCreateBooking() {
	s.Run("Normal case: student books an open seat and gets a token", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		seatID := dbtest.AnySeatID(t, s.DB)

		booked := s.createBooking(token, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())

		s.Equal(seatID, booked.SeatID)
		s.Equal("booked", booked.Status)
		s.NotEmpty(booked.Token)
	})

	s.Run("Error case: overlapping window on the same seat conflicts", func() {
		t := s.T()
		seatID := dbtest.AnySeatID(t, s.DB)

		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(2),
			EndAt:   gridTime(4),
		}, idemHeader())

		bob := authtest.CreateAndLogin(t, s.DB, s.Router, "bob", "student")
		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			request.CreateBookingRequest{
				SeatID:  seatID,
				StartAt: gridTime(3),
				EndAt:   gridTime(5),
			}, bob, idemHeader())

		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("Normal case: back-to-back windows do not conflict", func() {
		t := s.T()
		seatID := dbtest.AnySeatID(t, s.DB)

		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())

		bob := authtest.CreateAndLogin(t, s.DB, s.Router, "bob", "student")
		booked := s.createBooking(bob, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(3),
			EndAt:   gridTime(4),
		}, idemHeader())

		s.Equal(seatID, booked.SeatID)
	})

	s.Run("Error case: one live booking per user", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		seatID := dbtest.AnySeatID(t, s.DB)

		s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			request.CreateBookingRequest{
				SeatID:  seatID,
				StartAt: gridTime(5),
				EndAt:   gridTime(6),
			}, alice, idemHeader())

		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("Error case: admin accounts cannot book", func() {
		t := s.T()
		admin := authtest.CreateAndLogin(t, s.DB, s.Router, "admin", "admin")

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			request.CreateBookingRequest{
				SeatID:  dbtest.AnySeatID(t, s.DB),
				StartAt: gridTime(2),
				EndAt:   gridTime(3),
			}, admin, idemHeader())

		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("Normal case: concurrent attempts on one seat produce exactly one booking", func() {
		t := s.T()
		seatID := dbtest.AnySeatID(t, s.DB)
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		bob := authtest.CreateAndLogin(t, s.DB, s.Router, "bob", "student")

		req := request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}

		codes := make(chan int, 2)
		for _, token := range []string{alice, bob} {
			go func(tok string) {
				rec := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, tok, idemHeader())
				codes <- rec.Code
			}(token)
		}

		got := []int{<-codes, <-codes}
		s.ElementsMatch([]int{http.StatusCreated, http.StatusConflict}, got)

		var count int
		err := s.DB.QueryRow(s.T().Context(),
			"SELECT count(*) FROM bookings WHERE seat_id = $1 AND status <> 'cancelled'", seatID).Scan(&count)
		s.NoError(err)
		s.Equal(1, count)
	})

	s.Run("Normal case: replaying the same idempotency key returns the same booking", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		headers := idemHeader()
		req := request.CreateBookingRequest{
			SeatID:  dbtest.AnySeatID(t, s.DB),
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}

		first := s.createBooking(alice, req, headers)
		second := s.createBooking(alice, req, headers)

		s.Equal(first.ID, second.ID)
		s.Equal(first.Token, second.Token)
	})
}

func (s *BookingSuite) TestListBookings() {
	s.Run("Normal case: listing returns the caller's bookings with seat context", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		seatID := dbtest.AnySeatID(t, s.DB)

		booked := s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, alice)

		var listed []response.BookingListResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &listed)

		expected := []response.BookingListResponse{{
			ID:       booked.ID,
			SeatID:   seatID,
			RoomName: dbtest.DefaultRoomName,
			Status:   "booked",
		}}
		diff := cmp.Diff(expected, listed,
			cmpopts.IgnoreFields(response.BookingListResponse{}, "SeatLabel", "StartAt", "EndAt", "CreatedAt"))
		s.Empty(diff)
	})

	s.Run("Normal case: other users' bookings are not listed", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  dbtest.AnySeatID(t, s.DB),
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())

		bob := authtest.CreateAndLogin(t, s.DB, s.Router, "bob", "student")
		rec := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, bob)

		var listed []response.BookingListResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &listed)
		s.Empty(listed)
	})
}

func (s *BookingSuite) TestCancelBooking() {
	s.Run("Normal case: cancelling frees the seat for others", func() {
		t := s.T()
		seatID := dbtest.AnySeatID(t, s.DB)

		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		booked := s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())

		rec := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			bookingsURL+"/"+booked.ID.String()+"/cancel", nil, alice)
		s.Equal(http.StatusNoContent, rec.Code)

		bob := authtest.CreateAndLogin(t, s.DB, s.Router, "bob", "student")
		rebooked := s.createBooking(bob, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())
		s.Equal(seatID, rebooked.SeatID)
	})

	s.Run("Normal case: cancelling twice still returns 204", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		booked := s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  dbtest.AnySeatID(t, s.DB),
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())

		url := bookingsURL + "/" + booked.ID.String() + "/cancel"
		s.Equal(http.StatusNoContent, httptest.PerformRequest(t, s.Router, http.MethodPatch, url, nil, alice).Code)
		s.Equal(http.StatusNoContent, httptest.PerformRequest(t, s.Router, http.MethodPatch, url, nil, alice).Code)
	})

	s.Run("Error case: cancelling someone else's booking is forbidden", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		booked := s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  dbtest.AnySeatID(t, s.DB),
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())

		bob := authtest.CreateAndLogin(t, s.DB, s.Router, "bob", "student")
		rec := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			bookingsURL+"/"+booked.ID.String()+"/cancel", nil, bob)

		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *BookingSuite) TestCheckIn() {
	s.Run("Normal case: a booking token checks in during its window", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		seatID := dbtest.AnySeatID(t, s.DB)

		// A window that contains now; start is on the grid in the past.
		booked := s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(0),
			EndAt:   gridTime(2),
		}, idemHeader())

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, checkinURL,
			request.CheckInRequest{Token: booked.Token}, "")

		var checkedIn response.CheckInResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &checkedIn)
		s.Equal(seatID, checkedIn.SeatID)
		s.Equal("using", checkedIn.Status)
	})

	s.Run("Error case: checking in twice conflicts", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		booked := s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  dbtest.AnySeatID(t, s.DB),
			StartAt: gridTime(0),
			EndAt:   gridTime(2),
		}, idemHeader())

		body := request.CheckInRequest{Token: booked.Token}
		s.Equal(http.StatusOK, httptest.PerformRequest(t, s.Router, http.MethodPost, checkinURL, body, "").Code)
		s.Equal(http.StatusConflict, httptest.PerformRequest(t, s.Router, http.MethodPost, checkinURL, body, "").Code)
	})

	s.Run("Error case: checking in before the window conflicts", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		booked := s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  dbtest.AnySeatID(t, s.DB),
			StartAt: gridTime(3),
			EndAt:   gridTime(4),
		}, idemHeader())

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, checkinURL,
			request.CheckInRequest{Token: booked.Token}, "")

		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("Error case: an unknown token is not found", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, checkinURL,
			request.CheckInRequest{Token: uuid.NewString()}, "")

		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *BookingSuite) TestAdminSeatToggle() {
	s.Run("Normal case: a closed seat cannot be booked until reopened", func() {
		t := s.T()
		admin := authtest.CreateAndLogin(t, s.DB, s.Router, "admin", "admin")
		seatID := dbtest.AnySeatID(t, s.DB)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPut,
			"/api/admin/seats/"+seatID.String(),
			request.UpdateSeatRequest{IsOpen: false, Note: "broken lamp"}, admin)
		s.Equal(http.StatusNoContent, rec.Code)

		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		booking := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			request.CreateBookingRequest{
				SeatID:  seatID,
				StartAt: gridTime(2),
				EndAt:   gridTime(3),
			}, alice, idemHeader())
		s.Equal(http.StatusNotFound, booking.Code)

		rec = httptest.PerformRequest(t, s.Router, http.MethodPut,
			"/api/admin/seats/"+seatID.String(),
			request.UpdateSeatRequest{IsOpen: true, Note: ""}, admin)
		s.Equal(http.StatusNoContent, rec.Code)

		booked := s.createBooking(alice, request.CreateBookingRequest{
			SeatID:  seatID,
			StartAt: gridTime(2),
			EndAt:   gridTime(3),
		}, idemHeader())
		s.Equal(seatID, booked.SeatID)
	})

	s.Run("Error case: students cannot toggle seats", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		seatID := dbtest.AnySeatID(t, s.DB)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPut,
			"/api/admin/seats/"+seatID.String(),
			request.UpdateSeatRequest{IsOpen: false, Note: ""}, alice)

		s.Equal(http.StatusForbidden, rec.Code)
	})
}
