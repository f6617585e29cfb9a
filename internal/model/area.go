package model

import "time"

// Area represents a named zone of the restaurant floor.  Areas form a tree
// through ParentID (a dining room containing a terrace, for example) and the
// parent chain is required to stay acyclic.  Each area carries its own canvas
// dimensions and optionally a floor-plan background image and a snap grid.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name of the zone.
//  Description  – optional free text.
//  FloorImage   – optional reference to the floor-plan background image.
//  ParentID     – containing area, nil for a root zone.
//  CanvasW      – drawable width of the area canvas in layout units.
//  CanvasH      – drawable height of the area canvas in layout units.
//  Grid         – snap configuration, nil when positioning is free.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Area struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	FloorImage  *string     `json:"floor_image,omitempty"`
	ParentID    *uint64     `json:"parent_id,omitempty"`
	CanvasW     float64     `json:"canvas_w"`
	CanvasH     float64     `json:"canvas_h"`
	Grid        *GridConfig `json:"grid,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// GridConfig is the per-area snapping unit for table positioning.  Size is a
// positive number of layout units; a missing GridConfig means no snapping.
type GridConfig struct {
	AreaID uint64 `json:"area_id"`
	Size   uint32 `json:"size"`
}
