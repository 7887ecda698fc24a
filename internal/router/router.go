// Package router wires handlers and middleware onto the Echo instance.
// Routes are grouped by audience: public browse endpoints, attendee
// booking endpoints and organizer management endpoints.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/handler"
)

// RegisterRoutes registers routes that require no authentication beyond
// what the individual group files add.  Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login,
// refresh and logout are open; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authMW echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, authMW)
}
