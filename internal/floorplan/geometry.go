// Package floorplan implements the table position engine: pointer deltas to
// layout coordinates, grid snapping, canvas clamping and advisory collision
// detection.  Everything in this package is pure computation; it never touches
// the database and never returns domain errors.  Persistence and policy (for
// example whether a colliding drop is rejected) belong to the caller.
package floorplan

import "math"

// Point is a position in layout units on an area canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in layout units.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// RectAt returns the footprint rectangle occupied by a table placed at p.
func RectAt(p Point, footprint Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: footprint.W, H: footprint.H}
}

// Overlaps reports whether two rectangles share any interior area.  Edges
// that merely touch do not count as an overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// Canvas describes the drawable region of one area together with its snap
// grid.  A Grid of 0 or 1 means free positioning (no snapping).
type Canvas struct {
	Size Size
	Grid float64
}

// SnapToGrid rounds each axis of p to the nearest multiple of grid.  Grids
// of 1 or less disable snapping and return p unchanged.
func SnapToGrid(p Point, grid float64) Point {
	if grid <= 1 {
		return p
	}
	return Point{
		X: math.Round(p.X/grid) * grid,
		Y: math.Round(p.Y/grid) * grid,
	}
}

// ClampToCanvas pulls p back so that the full footprint stays inside the
// canvas.  The valid range per axis is [0, canvas - footprint]; when the
// footprint exceeds the canvas the table is pinned to the origin.  Clamping
// runs after snapping, so a snapped position is never pushed out of bounds
// even if the clamped result is no longer grid aligned.
func ClampToCanvas(p Point, footprint Size, canvas Size) Point {
	return Point{
		X: clampAxis(p.X, canvas.W-footprint.W),
		Y: clampAxis(p.Y, canvas.H-footprint.H),
	}
}

func clampAxis(v, max float64) float64 {
	if max < 0 {
		max = 0
	}
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// distance returns the Euclidean distance between two points.
func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
