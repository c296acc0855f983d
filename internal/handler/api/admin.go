package api

import (
	"errors"
	"net/http"

	reqdto "studyseat/internal/handler/dto/request"
	"studyseat/internal/handler/httperr"
	"studyseat/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	seatAdminCommands commands.SeatAdminCommands
}

func NewAdminHandler(seatAdminCommands commands.SeatAdminCommands) *AdminHandler {
	return &AdminHandler{
		seatAdminCommands: seatAdminCommands,
	}
}

// @Summary Update seat state
// @Description Open or close a seat and set its note
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Seat ID"
// @Param request body reqdto.UpdateSeatRequest true "Seat state"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/seats/{id} [put]
func (h *AdminHandler) UpdateSeat(c *gin.Context) {
	seatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid seat id", nil)
		return
	}

	var req reqdto.UpdateSeatRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	if err := h.seatAdminCommands.SetSeatState(c.Request.Context(), seatID, req.IsOpen, req.Note); err != nil {
		if errors.Is(err, commands.ErrSeatNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Seat not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.Status(http.StatusNoContent)
}
