// Package router wires HTTP routes to handlers and attaches the JWT, role,
// cache and rate-limit middleware per route group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/handler"
	"github.com/iliyamo/restaurant-floor/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.  Currently
// that is only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes a refresh token in the body or a bearer header; it does
	// not go through the JWT middleware so expired sessions can still log out.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
