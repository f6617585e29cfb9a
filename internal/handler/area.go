package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-floor/internal/model"
	"github.com/iliyamo/restaurant-floor/internal/repository"
)

// AreaHandler exposes CRUD for floor areas and their snap-grid settings.
// Route-level middleware restricts mutations to elevated roles.
type AreaHandler struct {
	Areas *repository.AreaRepo
}

func NewAreaHandler(areas *repository.AreaRepo) *AreaHandler {
	if areas == nil {
		panic("nil repository passed to NewAreaHandler")
	}
	return &AreaHandler{Areas: areas}
}

type areaReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	FloorImage  *string `json:"floor_image"`
	ParentID    *uint64 `json:"parent_id"`
	CanvasW     float64 `json:"canvas_w"`
	CanvasH     float64 `json:"canvas_h"`
}

type gridReq struct {
	Size uint32 `json:"size"`
}

// CreateArea handles POST /v1/areas.
func (h *AreaHandler) CreateArea(c echo.Context) error {
	var req areaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.CanvasW <= 0 || req.CanvasH <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "canvas dimensions must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := &model.Area{
		Name:        req.Name,
		Description: req.Description,
		FloorImage:  req.FloorImage,
		ParentID:    req.ParentID,
		CanvasW:     req.CanvasW,
		CanvasH:     req.CanvasH,
	}
	if err := h.Areas.Create(ctx, a); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// GetArea handles GET /v1/areas/:id.
func (h *AreaHandler) GetArea(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Areas.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// ListAreas handles GET /v1/areas.  The flat list carries parent_id so
// clients can rebuild the zone tree.
func (h *AreaHandler) ListAreas(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	areas, err := h.Areas.List(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"areas": areas})
}

// UpdateArea handles PUT /v1/areas/:id.  Re-parenting that would create a
// cycle is rejected with 422.
func (h *AreaHandler) UpdateArea(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	var req areaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.CanvasW <= 0 || req.CanvasH <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "canvas dimensions must be positive"})
	}
	if req.ParentID != nil && *req.ParentID == id {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "area cannot be its own parent"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := &model.Area{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		FloorImage:  req.FloorImage,
		ParentID:    req.ParentID,
		CanvasW:     req.CanvasW,
		CanvasH:     req.CanvasH,
	}
	if err := h.Areas.Update(ctx, a); err != nil {
		return writeErr(c, err)
	}
	fresh, err := h.Areas.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, fresh)
}

// DeleteArea handles DELETE /v1/areas/:id.  Areas that still contain tables
// cannot be deleted.
func (h *AreaHandler) DeleteArea(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Areas.Delete(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetGrid handles PUT /v1/areas/:id/grid.
func (h *AreaHandler) SetGrid(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	var req gridReq
	if err := c.Bind(&req); err != nil || req.Size < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "grid size must be at least 1"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Areas.GetByID(ctx, id); err != nil {
		return writeErr(c, err)
	}
	if err := h.Areas.SetGrid(ctx, id, req.Size); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, model.GridConfig{AreaID: id, Size: req.Size})
}

// ClearGrid handles DELETE /v1/areas/:id/grid, returning the area to free
// positioning.
func (h *AreaHandler) ClearGrid(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Areas.GetByID(ctx, id); err != nil {
		return writeErr(c, err)
	}
	if err := h.Areas.ClearGrid(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
