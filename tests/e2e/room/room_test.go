//go:build e2e

package room_test

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

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const roomsURL = "/api/rooms"

type RoomSuite struct {
	e2e.SharedSuite
}

func TestRoomSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(RoomSuite))
}

func gridTime(hoursAhead int) time.Time {
	return time.Now().UTC().Truncate(30 * time.Minute).Add(time.Duration(hoursAhead) * time.Hour)
}

func idemHeader() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.NewString()}
}

func (s *RoomSuite) TestListRooms() {
	s.Run("Normal case: seeded room is listed", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet, roomsURL, nil, token)

		var rooms []response.RoomResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &rooms)
		s.Len(rooms, 1)
		s.Equal(dbtest.DefaultRoomName, rooms[0].Name)
	})

	s.Run("Error case: unauthenticated requests are rejected", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, roomsURL, nil, "")

		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *RoomSuite) TestListSeats() {
	s.Run("Normal case: returns the seat grid", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			roomsURL+"/"+dbtest.DefaultRoomID.String()+"/seats", nil, token)

		var seats []response.SeatResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &seats)
		s.Len(seats, 12)
	})

	s.Run("Error case: unknown room is not found", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")

		rec := httptest.PerformRequest(t, s.Router, http.MethodGet,
			roomsURL+"/"+uuid.NewString()+"/seats", nil, token)

		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *RoomSuite) TestSeatStatus() {
	statusURL := roomsURL + "/" + dbtest.DefaultRoomID.String() + "/seat-status"

	s.Run("Normal case: booked seat shows as booked for its window", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		seatID := dbtest.AnySeatID(t, s.DB)

		booking := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings",
			request.CreateBookingRequest{
				SeatID:  seatID,
				StartAt: gridTime(2),
				EndAt:   gridTime(3),
			}, alice, idemHeader())
		s.Equal(http.StatusCreated, booking.Code)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, statusURL,
			request.SeatStatusRequest{StartAt: gridTime(2), EndAt: gridTime(3)}, alice)

		var statuses []response.SeatStatusResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &statuses)
		s.Len(statuses, 12)

		byID := make(map[uuid.UUID]response.SeatStatusResponse, len(statuses))
		for _, st := range statuses {
			byID[st.SeatID] = st
		}
		s.Equal("booked", byID[seatID].Status)
	})

	s.Run("Normal case: a non-overlapping window leaves the seat available", func() {
		t := s.T()
		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		seatID := dbtest.AnySeatID(t, s.DB)

		booking := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings",
			request.CreateBookingRequest{
				SeatID:  seatID,
				StartAt: gridTime(2),
				EndAt:   gridTime(3),
			}, alice, idemHeader())
		s.Equal(http.StatusCreated, booking.Code)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPost, statusURL,
			request.SeatStatusRequest{StartAt: gridTime(5), EndAt: gridTime(6)}, alice)

		var statuses []response.SeatStatusResponse
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &statuses)

		for _, st := range statuses {
			if st.SeatID == seatID {
				s.Equal("available", st.Status)
			}
		}
	})

	s.Run("Normal case: closed seats show as closed", func() {
		t := s.T()
		admin := authtest.CreateAndLogin(t, s.DB, s.Router, "admin", "admin")
		seatID := dbtest.AnySeatID(t, s.DB)

		rec := httptest.PerformRequest(t, s.Router, http.MethodPut,
			"/api/admin/seats/"+seatID.String(),
			request.UpdateSeatRequest{IsOpen: false, Note: "maintenance"}, admin)
		s.Equal(http.StatusNoContent, rec.Code)

		alice := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "student")
		status := httptest.PerformRequest(t, s.Router, http.MethodPost, statusURL,
			request.SeatStatusRequest{StartAt: gridTime(2), EndAt: gridTime(3)}, alice)

		var statuses []response.SeatStatusResponse
		httptest.AssertSuccessResponse(t, status, http.StatusOK, &statuses)

		for _, st := range statuses {
			if st.SeatID == seatID {
				s.Equal("closed", st.Status)
			}
		}
	})
}
