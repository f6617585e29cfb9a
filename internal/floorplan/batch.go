package floorplan

// Placement is a requested target position for one table.
type Placement struct {
	TableID uint64
	Pos     Point
}

// PlannedPlacement is a validated placement: the position after snapping and
// clamping plus the advisory collision set for that table.
type PlannedPlacement struct {
	TableID   uint64   `json:"table_id"`
	Pos       Point    `json:"pos"`
	Colliding []uint64 `json:"colliding,omitempty"`
}

// Plan validates a single target position: snap to the area grid, clamp the
// footprint into the canvas, and report overlaps against the other tables.
func Plan(canvas Canvas, footprint Size, others []TableRef, tableID uint64, pos Point) PlannedPlacement {
	p := ClampToCanvas(SnapToGrid(pos, canvas.Grid), footprint, canvas.Size)
	return PlannedPlacement{
		TableID:   tableID,
		Pos:       p,
		Colliding: collisions(p, footprint, tableID, others),
	}
}

// PlanBatch validates a bulk reposition.  Each placement is snapped, clamped
// and collision-checked independently against the pre-batch table set; tables
// moving in the same batch are not checked against each other's new
// positions.  existing must hold the committed positions of every table in
// the area, including the ones being moved.
func PlanBatch(canvas Canvas, footprint Size, existing []TableRef, moves []Placement) []PlannedPlacement {
	out := make([]PlannedPlacement, 0, len(moves))
	for _, m := range moves {
		out = append(out, Plan(canvas, footprint, existing, m.TableID, m.Pos))
	}
	return out
}
