package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/floorplan"
	"github.com/iliyamo/restaurant-floor/internal/model"
	"github.com/iliyamo/restaurant-floor/internal/repository"
	"github.com/iliyamo/restaurant-floor/internal/service"
)

// FloorHandler exposes table management and the position engine: create and
// list tables, single moves, bulk updates, the manual reserved switch and
// usage telemetry.
type FloorHandler struct {
	Tables *repository.TableRepo
	Floor  *service.FloorService
}

func NewFloorHandler(tables *repository.TableRepo, floor *service.FloorService) *FloorHandler {
	if tables == nil || floor == nil {
		panic("nil dependency passed to NewFloorHandler")
	}
	return &FloorHandler{Tables: tables, Floor: floor}
}

type createTableReq struct {
	Number          uint32   `json:"table_number"`
	Diners          uint32   `json:"diners"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	SpecialRequests []string `json:"special_requests"`
}

type moveReq struct {
	AreaID uint64  `json:"area_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// bulkTableItem is one item of a bulk table update.  Everything but table_id
// is optional; x and y must be sent together.  special_requests replaces the
// stored list when the key is present, an explicit empty array clears it.
type bulkTableItem struct {
	TableID         uint64    `json:"table_id"`
	AreaID          *uint64   `json:"area_id"`
	X               *float64  `json:"x"`
	Y               *float64  `json:"y"`
	Diners          *uint32   `json:"diners"`
	Reserved        *bool     `json:"reserved"`
	Number          *uint32   `json:"table_number"`
	SpecialRequests *[]string `json:"special_requests"`
}

type bulkTableReq struct {
	Tables []bulkTableItem `json:"tables"`
}

type reservedReq struct {
	Reserved bool `json:"reserved"`
}

// CreateTable handles POST /v1/areas/:id/tables.  The requested position goes
// through the same snap/clamp validation as a move.
func (h *FloorHandler) CreateTable(c echo.Context) error {
	areaID := pathID(c, "id")
	if areaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	var req createTableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number required"})
	}
	if req.Diners == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "diners must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	planned, err := h.Floor.PlanPlacement(ctx, areaID, 0, floorplan.Point{X: req.X, Y: req.Y})
	if err != nil {
		return writeErr(c, err)
	}

	t := &model.Table{
		AreaID:          areaID,
		Number:          req.Number,
		Diners:          req.Diners,
		X:               planned.Pos.X,
		Y:               planned.Pos.Y,
		SpecialRequests: req.SpecialRequests,
	}
	if err := h.Tables.Create(ctx, t); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"table": t, "colliding": planned.Colliding})
}

// ListTables handles GET /v1/areas/:id/tables.
func (h *FloorHandler) ListTables(c echo.Context) error {
	areaID := pathID(c, "id")
	if areaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tables, err := h.Tables.ListByArea(ctx, areaID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// GetTable handles GET /v1/tables/:id.
func (h *FloorHandler) GetTable(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// MoveTable handles PUT /v1/tables/:id/position.  The response carries the
// stored position after snapping and clamping plus the advisory collision
// list; collisions never reject the move.
func (h *FloorHandler) MoveTable(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req moveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AreaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "area_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Floor.MoveTable(ctx, identity(c), id, req.AreaID, floorplan.Point{X: req.X, Y: req.Y})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateTables handles PUT /v1/areas/:id/tables: a bulk table update that
// patches positions and attributes in one transaction.  Positions are
// validated against the pre-batch layout; attribute-only items skip the
// position engine entirely.
func (h *FloorHandler) UpdateTables(c echo.Context) error {
	areaID := pathID(c, "id")
	if areaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	var req bulkTableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Tables) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tables required"})
	}
	edits := make([]service.TableEdit, 0, len(req.Tables))
	for _, it := range req.Tables {
		if it.TableID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id required on every item"})
		}
		if (it.X == nil) != (it.Y == nil) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "x and y must be sent together"})
		}
		if it.Diners != nil && *it.Diners == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "diners must be positive"})
		}
		if it.Number != nil && *it.Number == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number must be positive"})
		}
		e := service.TableEdit{
			TableID:  it.TableID,
			AreaID:   it.AreaID,
			Diners:   it.Diners,
			Reserved: it.Reserved,
			Number:   it.Number,
		}
		if it.X != nil {
			e.Pos = &floorplan.Point{X: *it.X, Y: *it.Y}
		}
		if it.SpecialRequests != nil {
			e.SpecialRequests = *it.SpecialRequests
			e.HasRequests = true
		}
		edits = append(edits, e)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	planned, err := h.Floor.EditMany(ctx, identity(c), areaID, edits)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"placements": planned})
}

// SetReserved handles PUT /v1/tables/:id/reserved, the staff switch for
// blocking a table on the spot.
func (h *FloorHandler) SetReserved(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req reservedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Floor.ToggleReserved(ctx, identity(c), id, req.Reserved)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// GetUsage handles GET /v1/tables/:id/usage.
func (h *FloorHandler) GetUsage(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Tables.GetByID(ctx, id); err != nil {
		return writeErr(c, err)
	}
	u, err := h.Tables.GetUsage(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
