package floorplan

import "testing"

func TestSnapToGrid(t *testing.T) {
	cases := []struct {
		name string
		p    Point
		grid float64
		want Point
	}{
		{name: "roundsToNearestMultiple", p: Point{X: 137, Y: 152}, grid: 20, want: Point{X: 140, Y: 160}},
		{name: "roundsDown", p: Point{X: 37, Y: 8}, grid: 20, want: Point{X: 40, Y: 0}},
		{name: "exactMultipleUnchanged", p: Point{X: 60, Y: 80}, grid: 20, want: Point{X: 60, Y: 80}},
		{name: "gridZeroDisablesSnapping", p: Point{X: 37.5, Y: 52.25}, grid: 0, want: Point{X: 37.5, Y: 52.25}},
		{name: "gridOneDisablesSnapping", p: Point{X: 37.5, Y: 52.25}, grid: 1, want: Point{X: 37.5, Y: 52.25}},
		{name: "midpointRoundsAwayFromZero", p: Point{X: 30, Y: 50}, grid: 20, want: Point{X: 40, Y: 60}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SnapToGrid(tc.p, tc.grid)
			if got != tc.want {
				t.Fatalf("SnapToGrid(%v, %v) = %v, want %v", tc.p, tc.grid, got, tc.want)
			}
		})
	}
}

func TestClampToCanvas(t *testing.T) {
	canvas := Size{W: 800, H: 600}
	footprint := Size{W: 160, H: 180}

	cases := []struct {
		name string
		p    Point
		want Point
	}{
		{name: "insideUnchanged", p: Point{X: 100, Y: 100}, want: Point{X: 100, Y: 100}},
		{name: "rightEdgePulledBack", p: Point{X: 700, Y: 100}, want: Point{X: 640, Y: 100}},
		{name: "bottomEdgePulledBack", p: Point{X: 100, Y: 500}, want: Point{X: 100, Y: 420}},
		{name: "negativeClampedToOrigin", p: Point{X: -30, Y: -5}, want: Point{X: 0, Y: 0}},
		{name: "maxValidPositionKept", p: Point{X: 640, Y: 420}, want: Point{X: 640, Y: 420}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClampToCanvas(tc.p, footprint, canvas)
			if got != tc.want {
				t.Fatalf("ClampToCanvas(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}

	t.Run("footprintLargerThanCanvasPinsToOrigin", func(t *testing.T) {
		got := ClampToCanvas(Point{X: 50, Y: 50}, Size{W: 900, H: 700}, canvas)
		if got != (Point{}) {
			t.Fatalf("got %v, want origin", got)
		}
	})
}

func TestOverlaps(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 100, H: 100}

	cases := []struct {
		name string
		b    Rect
		want bool
	}{
		{name: "partialOverlap", b: Rect{X: 50, Y: 50, W: 100, H: 100}, want: true},
		{name: "contained", b: Rect{X: 10, Y: 10, W: 20, H: 20}, want: true},
		{name: "touchingRightEdge", b: Rect{X: 100, Y: 0, W: 100, H: 100}, want: false},
		{name: "touchingBottomEdge", b: Rect{X: 0, Y: 100, W: 100, H: 100}, want: false},
		{name: "disjoint", b: Rect{X: 300, Y: 300, W: 50, H: 50}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(base, tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", base, tc.b, got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.b, base); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.b, base, got, tc.want)
			}
		})
	}
}
