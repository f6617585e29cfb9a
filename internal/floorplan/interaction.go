package floorplan

// DragThresholdPx is the Euclidean pointer displacement, in screen pixels,
// past which an interaction is latched as a drag.  Once latched it stays a
// drag for the rest of the gesture even if the pointer returns to its start,
// which keeps the click/drag classification from flickering mid-gesture.
const DragThresholdPx = 5.0

// MoveTolerance is the per-axis displacement, in layout units, below which a
// finished interaction is treated as a tap rather than a move.
const MoveTolerance = 1.0

// TableRef identifies a table participating in an interaction along with its
// committed position.  The engine never mutates the referenced table; it only
// produces candidate positions for the caller to render and persist.
type TableRef struct {
	ID     uint64
	AreaID uint64
	Pos    Point
}

// Candidate is the result of one Update call: the latest snapped and clamped
// position plus the advisory collision set.  Colliding lists the IDs of every
// other table whose footprint overlaps the candidate footprint.  A non-empty
// set marks the move for visual warning; it does not block it.
type Candidate struct {
	Pos       Point    `json:"pos"`
	Colliding []uint64 `json:"colliding,omitempty"`
}

// Collision reports whether the candidate overlaps at least one other table.
func (c Candidate) Collision() bool { return len(c.Colliding) > 0 }

// CommitIntent describes a real (non-tap) move ready for persistence.
type CommitIntent struct {
	TableID  uint64 `json:"table_id"`
	FromArea uint64 `json:"from_area"`
	From     Point  `json:"from"`
	ToArea   uint64 `json:"to_area"`
	To       Point  `json:"to"`
}

// MoveCommand pairs the optimistic position with its rollback baseline.  The
// caller renders Commit() immediately, persists the intent, and applies
// Rollback() if the backing store rejects the write.
type MoveCommand struct {
	Intent CommitIntent
}

// Commit returns the position to render while the write is in flight.
func (m MoveCommand) Commit() Point { return m.Intent.To }

// Rollback returns the pre-interaction position to restore on failure.
func (m MoveCommand) Rollback() Point { return m.Intent.From }

// Outcome is the result of ending an interaction.  Exactly one of Tap or a
// non-nil Command is set for a live interaction; an aborted or never-begun
// interaction yields the zero Outcome, meaning nothing should be persisted.
type Outcome struct {
	Tap     bool
	Command *MoveCommand
}

// Interaction is the explicit state object for one begin/update/end gesture
// on a single table.  It replaces ambient drag state: Begin, Update, End and
// Abort are its only mutators, and interactions on different tables are fully
// independent of each other.
type Interaction struct {
	table     TableRef
	footprint Size
	canvas    Canvas
	others    []TableRef
	scale     float64

	basePointer Point
	lastPointer Point
	candidate   Point
	dragged     bool
	active      bool
}

// Begin captures the interaction baseline: the pointer's starting screen
// coordinates and the table's committed position.  others must hold every
// other table in the same area; their positions are frozen for the lifetime
// of the gesture.  scale is the current canvas zoom factor (1 when unzoomed);
// non-positive values are treated as 1.
func Begin(table TableRef, footprint Size, canvas Canvas, others []TableRef, scale float64, pointer Point) *Interaction {
	if scale <= 0 {
		scale = 1
	}
	return &Interaction{
		table:       table,
		footprint:   footprint,
		canvas:      canvas,
		others:      others,
		scale:       scale,
		basePointer: pointer,
		lastPointer: pointer,
		candidate:   table.Pos,
		active:      true,
	}
}

// Update recomputes the candidate position for the given pointer location.
// The pointer delta is divided by the canvas scale, added to the baseline
// table position, snapped to the area grid and finally clamped so the whole
// footprint stays on the canvas.  Updates after End or Abort are ignored and
// return the last candidate.
func (it *Interaction) Update(pointer Point) Candidate {
	if !it.active {
		return it.snapshot()
	}
	it.lastPointer = pointer
	if distance(pointer, it.basePointer) > DragThresholdPx {
		it.dragged = true
	}
	raw := Point{
		X: it.table.Pos.X + (pointer.X-it.basePointer.X)/it.scale,
		Y: it.table.Pos.Y + (pointer.Y-it.basePointer.Y)/it.scale,
	}
	snapped := SnapToGrid(raw, it.canvas.Grid)
	it.candidate = ClampToCanvas(snapped, it.footprint, it.canvas.Size)
	return it.snapshot()
}

// End finishes the gesture and classifies it.  A displacement beyond
// MoveTolerance on either axis, or a latched drag, produces a MoveCommand
// carrying the commit intent; anything else is a tap (open details, do not
// persist).  Ending an aborted interaction yields the zero Outcome.
func (it *Interaction) End() Outcome {
	if !it.active {
		return Outcome{}
	}
	it.active = false
	dx := it.candidate.X - it.table.Pos.X
	dy := it.candidate.Y - it.table.Pos.Y
	moved := dx > MoveTolerance || dx < -MoveTolerance || dy > MoveTolerance || dy < -MoveTolerance
	if !moved && !it.dragged {
		return Outcome{Tap: true}
	}
	if !moved {
		// Latched as a drag but ended back where it started: not a tap, but
		// there is nothing to persist either.
		return Outcome{}
	}
	return Outcome{Command: &MoveCommand{Intent: CommitIntent{
		TableID:  it.table.ID,
		FromArea: it.table.AreaID,
		From:     it.table.Pos,
		ToArea:   it.table.AreaID,
		To:       it.candidate,
	}}}
}

// Abort abandons the gesture, e.g. when the pointer leaves the window.  The
// caller must restore the pre-interaction position; nothing is persisted.
func (it *Interaction) Abort() {
	it.active = false
	it.candidate = it.table.Pos
}

// Active reports whether the interaction is still accepting updates.
func (it *Interaction) Active() bool { return it.active }

func (it *Interaction) snapshot() Candidate {
	return Candidate{
		Pos:       it.candidate,
		Colliding: collisions(it.candidate, it.footprint, it.table.ID, it.others),
	}
}

// collisions returns the IDs of every table other than selfID whose footprint
// overlaps a footprint placed at pos.  Overlap is symmetric, so whichever of
// two overlapping tables is being dragged, the other is reported.
func collisions(pos Point, footprint Size, selfID uint64, others []TableRef) []uint64 {
	var ids []uint64
	candidate := RectAt(pos, footprint)
	for _, o := range others {
		if o.ID == selfID {
			continue
		}
		if Overlaps(candidate, RectAt(o.Pos, footprint)) {
			ids = append(ids, o.ID)
		}
	}
	return ids
}
