package api

import (
	"errors"
	"net/http"

	reqdto "studyseat/internal/handler/dto/request"
	resdto "studyseat/internal/handler/dto/response"
	"studyseat/internal/handler/middleware"
	"studyseat/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// CheckinHandler redeems booking tokens at the seat terminal. The
// endpoint is unauthenticated: the token itself is the credential.
type CheckinHandler struct {
	checkinCommands commands.CheckinCommands
}

func NewCheckinHandler(checkinCommands commands.CheckinCommands) *CheckinHandler {
	return &CheckinHandler{
		checkinCommands: checkinCommands,
	}
}

// @Summary Check in
// @Description Redeem a booking token to mark the seat as in use
// @Tags checkin
// @Accept json
// @Produce json
// @Param request body reqdto.CheckInRequest true "Check-in token"
// @Success 200 {object} resdto.CheckInResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /checkin [post]
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	var req reqdto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.checkinCommands.CheckIn(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidToken):
			middleware.TrackCheckin("invalid_token")
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Unknown check-in token",
			})
		case errors.Is(err, commands.ErrOutsideWindow):
			middleware.TrackCheckin("outside_window")
			c.JSON(http.StatusConflict, gin.H{
				"error": "Current time is outside the booking window",
			})
		case errors.Is(err, commands.ErrAlreadyCheckedIn):
			middleware.TrackCheckin("already_checked_in")
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking is already checked in",
			})
		default:
			middleware.TrackCheckin("error")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	middleware.TrackCheckin("success")
	c.JSON(http.StatusOK, resdto.CheckInResponse{
		SeatID: result.SeatID,
		Status: "using",
	})
}
