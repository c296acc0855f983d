package api

import (
	"errors"
	"net/http"

	reqdto "studyseat/internal/handler/dto/request"
	resdto "studyseat/internal/handler/dto/response"
	"studyseat/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoomHandler struct {
	roomQueries queries.RoomQueries
	seatQueries queries.SeatQueries
}

func NewRoomHandler(roomQueries queries.RoomQueries, seatQueries queries.SeatQueries) *RoomHandler {
	return &RoomHandler{
		roomQueries: roomQueries,
		seatQueries: seatQueries,
	}
}

// @Summary List rooms
// @Description List all study rooms
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.RoomResponse
// @Failure 401 {object} map[string]string
// @Router /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.RoomResponse, len(rooms))
	for i, room := range rooms {
		response[i] = resdto.FromRoomView(room)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List seats
// @Description List the seats of a room with their layout positions
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {array} resdto.SeatResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rooms/{id}/seats [get]
func (h *RoomHandler) ListSeats(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid room ID format",
		})
		return
	}

	seats, err := h.seatQueries.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Room not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response := make([]*resdto.SeatResponse, len(seats))
	for i, seat := range seats {
		response[i] = resdto.FromSeatView(seat)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Seat availability board
// @Description Classify every seat of a room against a candidate window
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param request body reqdto.SeatStatusRequest true "Candidate window"
// @Success 200 {array} resdto.SeatStatusResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rooms/{id}/seat-status [post]
func (h *RoomHandler) SeatStatus(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid room ID format",
		})
		return
	}

	var req reqdto.SeatStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	statuses, err := h.seatQueries.GetSeatStatuses(c.Request.Context(), roomID, req.StartAt, req.EndAt)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Room not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response := make([]*resdto.SeatStatusResponse, len(statuses))
	for i, status := range statuses {
		response[i] = resdto.FromSeatStatusView(status)
	}

	c.JSON(http.StatusOK, response)
}
