package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/repository"
	"github.com/iliyamo/restaurant-floor/internal/service"
)

// AvailabilityHandler exposes the read side of occupancy: per-table and
// per-area status badges, the free-table listing and a table's reservations
// for a day.
type AvailabilityHandler struct {
	Occupancy    *service.OccupancyResolver
	Reservations *repository.ReservationRepo
}

func NewAvailabilityHandler(occ *service.OccupancyResolver, res *repository.ReservationRepo) *AvailabilityHandler {
	if occ == nil || res == nil {
		panic("nil dependency passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Occupancy: occ, Reservations: res}
}

// GetTableStatus handles GET /v1/tables/:id/status.
func (h *AvailabilityHandler) GetTableStatus(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Occupancy.Resolve(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// GetAreaOccupancy handles GET /v1/areas/:id/occupancy: one status badge per
// table in the area.
func (h *AvailabilityHandler) GetAreaOccupancy(c echo.Context) error {
	areaID := pathID(c, "id")
	if areaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	statuses, err := h.Occupancy.ResolveArea(ctx, areaID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": statuses})
}

// GetAvailableTables handles GET /v1/areas/:id/tables/available: the tables
// free right now, each with its upcoming reservation times.
func (h *AvailabilityHandler) GetAvailableTables(c echo.Context) error {
	areaID := pathID(c, "id")
	if areaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	free, err := h.Occupancy.ListAvailable(ctx, areaID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": free})
}

// GetTableReservations handles GET /v1/tables/:id/reservations?date=YYYY-MM-DD.
// Without a date it returns today's reservations (UTC).
func (h *AvailabilityHandler) GetTableReservations(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	day := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		day = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.ListForTableOn(ctx, id, day)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}
