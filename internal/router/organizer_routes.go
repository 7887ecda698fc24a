package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/handler"
	"github.com/gatherly/event-booking/internal/middleware"
	"github.com/gatherly/event-booking/internal/model"
)

// RegisterOrganizer registers the event-management endpoints.  Every
// route requires a valid token with the ORGANIZER role; per-event
// ownership is enforced by the handlers.
func RegisterOrganizer(e *echo.Echo, ev *handler.EventHandler, tt *handler.TicketTypeHandler, dc *handler.DiscountCodeHandler, tk *handler.TicketHandler, authMW echo.MiddlewareFunc) {
	g := e.Group("/v1", authMW, middleware.RequireRole(model.RoleOrganizer))

	g.POST("/events", ev.CreateEvent)
	g.GET("/events/:id/bookings", ev.ListEventBookings)

	g.POST("/events/:id/ticket-types", tt.CreateTicketType)
	g.PATCH("/ticket-types/:id", tt.UpdateTicketType)
	g.DELETE("/ticket-types/:id", tt.DeactivateTicketType)

	g.POST("/events/:id/discount-codes", dc.CreateDiscountCode)
	g.GET("/events/:id/discount-codes", dc.ListDiscountCodes)

	g.POST("/tickets/:number/check-in", tk.CheckIn)
}
