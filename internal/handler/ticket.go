package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/repository"
)

// TicketHandler exposes the check-in endpoint organizers use at the
// door.
type TicketHandler struct {
	Tickets *repository.TicketRepo
}

func NewTicketHandler(tickets *repository.TicketRepo) *TicketHandler {
	return &TicketHandler{Tickets: tickets}
}

// CheckIn handles POST /v1/tickets/:number/check-in.  A ticket checks
// in exactly once: a second attempt gets 409.  Only the organizer of
// the ticket's event may check it in.
func (h *TicketHandler) CheckIn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket number"})
	}
	if err := h.Tickets.CheckIn(c.Request().Context(), number, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrTicketNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already checked in"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "checked in", "number": number})
}
