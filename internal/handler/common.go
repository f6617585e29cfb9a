// Package handler defines the HTTP handlers for the floor management API.
// Handlers bind and validate request bodies, extract the caller identity from
// the context, delegate to services or repositories and translate domain
// errors into HTTP status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/repository"
)

// identity builds the caller identity from the claims the JWT middleware put
// in the context.  JWT numeric claims arrive as float64; older tokens may
// carry the subject as a string.
func identity(c echo.Context) lifecycle.Identity {
	var id lifecycle.Identity
	switch v := c.Get("user_id").(type) {
	case uint64:
		id.UserID = v
	case int:
		id.UserID = uint64(v)
	case int64:
		id.UserID = uint64(v)
	case float64:
		id.UserID = uint64(v)
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			id.UserID = n
		}
	}
	if role, ok := c.Get("role").(string); ok {
		id.Role = lifecycle.Role(role)
	}
	return id
}

// pathID parses a numeric path parameter, returning 0 when absent or invalid.
func pathID(c echo.Context, name string) uint64 {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// writeErr maps domain errors onto HTTP responses in the standard
// {"error": ...} shape.  Unrecognized errors become 500 without leaking the
// underlying message.
func writeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case errors.Is(err, lifecycle.ErrForbidden), errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, lifecycle.ErrNotFound),
		errors.Is(err, repository.ErrAreaNotFound),
		errors.Is(err, repository.ErrTableNotFound),
		errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrWaitlistNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, lifecycle.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid state"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, repository.ErrAreaCycle):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "area parent chain would form a cycle"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
