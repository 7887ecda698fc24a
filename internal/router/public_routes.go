package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints:
// published events and their active ticket types.  cacheMW caches the
// responses in Redis when caching is enabled.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, tt *handler.TicketTypeHandler, cacheMW echo.MiddlewareFunc) {
	g := e.Group("/v1", cacheMW)
	g.GET("/events", ev.ListEvents)
	g.GET("/events/:id", ev.GetEvent)
	g.GET("/events/:id/ticket-types", tt.ListTicketTypes)
}
