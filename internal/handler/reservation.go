package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/repository"
	"github.com/iliyamo/restaurant-floor/internal/service"
)

// ReservationHandler exposes the reservation lifecycle over HTTP.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(res *service.ReservationService) *ReservationHandler {
	if res == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: res}
}

type createReservationReq struct {
	TableID   uint64  `json:"table_id"`
	Time      string  `json:"reservation_time"` // RFC 3339
	PartySize uint32  `json:"party_size"`
	GuestName *string `json:"guest_name"`
}

type editReservationReq struct {
	Time      *string `json:"reservation_time"`
	PartySize *uint32 `json:"party_size"`
	Status    *string `json:"status"`
}

// CreateReservation handles POST /v1/reservations.  A guest_name in the body
// switches to staff-assisted mode, which requires an elevated role.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TableID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id required"})
	}
	if req.PartySize == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be positive"})
	}
	at, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_time must be RFC 3339"})
	}
	if req.GuestName != nil && strings.TrimSpace(*req.GuestName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest_name must not be blank"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Create(ctx, identity(c), service.CreateReservationInput{
		TableID:   req.TableID,
		Time:      at,
		PartySize: req.PartySize,
		GuestName: req.GuestName,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// EditReservation handles PATCH /v1/reservations/:id.
func (h *ReservationHandler) EditReservation(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req editReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var patch repository.ReservationPatch
	if req.Time != nil {
		at, err := time.Parse(time.RFC3339, *req.Time)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_time must be RFC 3339"})
		}
		patch.Time = &at
	}
	if req.PartySize != nil {
		if *req.PartySize == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be positive"})
		}
		patch.PartySize = req.PartySize
	}
	if req.Status != nil {
		st := lifecycle.ReservationStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		patch.Status = &st
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Edit(ctx, identity(c), id, patch)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// CancelReservation handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Cancel(ctx, identity(c), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// CompleteReservation handles POST /v1/reservations/:id/complete.
func (h *ReservationHandler) CompleteReservation(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Complete(ctx, identity(c), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
