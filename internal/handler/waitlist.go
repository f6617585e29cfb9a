package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/service"
)

// WaitlistHandler exposes the walk-in waitlist over HTTP.
type WaitlistHandler struct {
	Waitlist *service.WaitlistService
}

func NewWaitlistHandler(wl *service.WaitlistService) *WaitlistHandler {
	if wl == nil {
		panic("nil service passed to NewWaitlistHandler")
	}
	return &WaitlistHandler{Waitlist: wl}
}

type joinWaitlistReq struct {
	AreaID    uint64 `json:"area_id"`
	PartySize uint32 `json:"party_size"`
	Priority  *int32 `json:"priority"`
}

type seatWaitlistReq struct {
	TableID uint64 `json:"table_id"`
}

// JoinWaitlist handles POST /v1/waitlist.
func (h *WaitlistHandler) JoinWaitlist(c echo.Context) error {
	var req joinWaitlistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AreaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "area_id required"})
	}
	if req.PartySize == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Waitlist.Add(ctx, identity(c), req.AreaID, req.PartySize, req.Priority)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

// CallEntry handles POST /v1/waitlist/:id/call.
func (h *WaitlistHandler) CallEntry(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid waitlist id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Waitlist.Call(ctx, identity(c), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// SeatEntry handles POST /v1/waitlist/:id/seat.  An optional table_id in the
// body records a usage cycle on the table the party was seated at.
func (h *WaitlistHandler) SeatEntry(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid waitlist id"})
	}
	var req seatWaitlistReq
	_ = c.Bind(&req) // body optional

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Waitlist.Seat(ctx, identity(c), id, req.TableID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// CancelEntry handles POST /v1/waitlist/:id/cancel.
func (h *WaitlistHandler) CancelEntry(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid waitlist id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Waitlist.Cancel(ctx, identity(c), id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// ListWaitlist handles GET /v1/areas/:id/waitlist: active entries in call
// order, the first entry being next up.
func (h *WaitlistHandler) ListWaitlist(c echo.Context) error {
	areaID := pathID(c, "id")
	if areaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Waitlist.ListActive(ctx, areaID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}
