package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/handler"
	"github.com/gatherly/event-booking/internal/middleware"
	"github.com/gatherly/event-booking/internal/model"
)

// RegisterAttendee registers the booking endpoints available to
// authenticated attendees.  The booking POST additionally goes through
// the Redis token bucket so one client cannot hammer the inventory.
func RegisterAttendee(e *echo.Echo, b *handler.BookingHandler, authMW, rateMW echo.MiddlewareFunc) {
	g := e.Group("/v1", authMW, middleware.RequireRole(model.RoleAttendee))
	g.POST("/events/:id/bookings", b.Book, rateMW)
	g.GET("/my-bookings", b.ListMyBookings)
	g.GET("/bookings/:ref", b.GetBooking)
	g.DELETE("/bookings/:ref", b.CancelBooking)
}
