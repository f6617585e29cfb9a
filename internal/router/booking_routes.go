package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/handler"
	"github.com/iliyamo/restaurant-floor/internal/middleware"
)

// RegisterBooking registers the reservation, waitlist and availability
// endpoints under /v1.  Ownership and role rules live in the services; the
// route groups only draw the coarse staff/any-role boundary.
func RegisterBooking(e *echo.Echo, r *handler.ReservationHandler, w *handler.WaitlistHandler, av *handler.AvailabilityHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	any := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER", "WAITER", "CUSTOMER"),
	)
	any.POST("/reservations", r.CreateReservation)
	any.PATCH("/reservations/:id", r.EditReservation)
	any.POST("/reservations/:id/cancel", r.CancelReservation)
	any.POST("/waitlist", w.JoinWaitlist)
	any.POST("/waitlist/:id/cancel", w.CancelEntry)

	reads := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER", "WAITER", "CUSTOMER"),
	)
	if cache != nil {
		reads.Use(cache)
	}
	reads.GET("/tables/:id/status", av.GetTableStatus)
	reads.GET("/tables/:id/reservations", av.GetTableReservations)
	reads.GET("/areas/:id/occupancy", av.GetAreaOccupancy)
	reads.GET("/areas/:id/tables/available", av.GetAvailableTables)
	reads.GET("/areas/:id/waitlist", w.ListWaitlist)

	elevated := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER"),
	)
	elevated.POST("/reservations/:id/complete", r.CompleteReservation)

	staff := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER", "WAITER"),
	)
	staff.POST("/waitlist/:id/call", w.CallEntry)
	staff.POST("/waitlist/:id/seat", w.SeatEntry)
}
