package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/restaurant-floor/internal/floorplan"
	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/model"
	"github.com/iliyamo/restaurant-floor/internal/queue"
	"github.com/iliyamo/restaurant-floor/internal/repository"
)

// TableStore is the persistence surface the floor service needs.
// *repository.TableRepo satisfies it; tests supply fakes.
type TableStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
	ListByArea(ctx context.Context, areaID uint64) ([]*model.Table, error)
	UpdatePosition(ctx context.Context, id, areaID uint64, x, y float64) error
	UpdateMany(ctx context.Context, patches []repository.TablePatch) error
	SetReserved(ctx context.Context, id uint64, reserved bool) error
}

// MovedNotifier publishes table.moved events for the audit consumer.  Like
// CalledNotifier, failures are logged and swallowed.
type MovedNotifier func(ctx context.Context, ev queue.TableMovedEvent) error

// FloorService validates and commits table layout changes.  Geometry lives in
// the floorplan package; this service supplies it with the canvas, the fixed
// table footprint and the committed table set, then persists the result.
type FloorService struct {
	Tables TableStore
	Areas  AreaGetter
	Notify MovedNotifier

	// Footprint is the rendered size of every table in layout units.
	// Tables are uniform; per-table sizes are not stored.
	Footprint floorplan.Size
}

// NewFloorService constructs a FloorService.  notify may be nil when no
// broker is configured.
func NewFloorService(tables TableStore, areas AreaGetter, notify MovedNotifier, footprint floorplan.Size) *FloorService {
	if tables == nil || areas == nil {
		panic("nil dependency passed to NewFloorService")
	}
	return &FloorService{Tables: tables, Areas: areas, Notify: notify, Footprint: footprint}
}

// MoveResult is the outcome of a committed move: the stored position after
// snapping and clamping plus the advisory collision set.
type MoveResult struct {
	Table     *model.Table `json:"table"`
	Colliding []uint64     `json:"colliding,omitempty"`
}

// MoveTable validates a drop position for one table and commits it.  The
// target is snapped to the area grid, clamped into the canvas, and checked
// for overlaps; overlaps are advisory and never block the commit.  Layout
// editing requires an elevated role.
func (s *FloorService) MoveTable(ctx context.Context, ident lifecycle.Identity, tableID, areaID uint64, pos floorplan.Point) (*MoveResult, error) {
	if err := s.requireEditor(ident); err != nil {
		return nil, err
	}
	t, err := s.loadTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	canvas, others, err := s.areaContext(ctx, areaID)
	if err != nil {
		return nil, err
	}

	planned := floorplan.Plan(canvas, s.Footprint, others, tableID, pos)
	if err := s.Tables.UpdatePosition(ctx, tableID, areaID, planned.Pos.X, planned.Pos.Y); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}

	if s.Notify != nil {
		ev := queue.TableMovedEvent{
			TableID:   tableID,
			AreaID:    areaID,
			FromX:     t.X,
			FromY:     t.Y,
			ToX:       planned.Pos.X,
			ToY:       planned.Pos.Y,
			Collision: len(planned.Colliding) > 0,
			MovedBy:   ident.UserID,
			MovedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.Notify(ctx, ev); err != nil {
			log.Printf("floor: publish moved event failed: %v", err)
		}
	}

	fresh, err := s.loadTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return &MoveResult{Table: fresh, Colliding: planned.Colliding}, nil
}

// TableEdit is one item of a bulk table update.  Every field is optional:
// a nil Pos patches attributes without touching the layout, a set Pos goes
// through the same snap/clamp/collide validation as a single move.  AreaID
// overrides the route area per item, so a batch can move tables between
// zones.  HasRequests distinguishes "replace the tags" from "leave them".
type TableEdit struct {
	TableID         uint64
	AreaID          *uint64
	Pos             *floorplan.Point
	Diners          *uint32
	Reserved        *bool
	Number          *uint32
	SpecialRequests []string
	HasRequests     bool
}

// EditMany validates and commits a bulk table update.  Positions are
// validated against the pre-batch table set of their target area (tables
// moving in the same batch are not checked against each other's new spots);
// the writes land in a single transaction, so a missing table fails the whole
// batch.  The returned placements cover only the items that carried a
// position, in request order.
func (s *FloorService) EditMany(ctx context.Context, ident lifecycle.Identity, areaID uint64, edits []TableEdit) ([]floorplan.PlannedPlacement, error) {
	if err := s.requireEditor(ident); err != nil {
		return nil, err
	}
	if len(edits) == 0 {
		return nil, nil
	}

	// Area contexts are loaded once per target area, so every placement in
	// the batch sees the same pre-batch table set.
	type areaCtx struct {
		canvas floorplan.Canvas
		refs   []floorplan.TableRef
	}
	contexts := map[uint64]*areaCtx{}
	loadCtx := func(id uint64) (*areaCtx, error) {
		if c, ok := contexts[id]; ok {
			return c, nil
		}
		canvas, refs, err := s.areaContext(ctx, id)
		if err != nil {
			return nil, err
		}
		c := &areaCtx{canvas: canvas, refs: refs}
		contexts[id] = c
		return c, nil
	}

	var planned []floorplan.PlannedPlacement
	patches := make([]repository.TablePatch, 0, len(edits))
	for _, e := range edits {
		target := areaID
		if e.AreaID != nil {
			target = *e.AreaID
		}
		p := repository.TablePatch{
			ID:       e.TableID,
			Diners:   e.Diners,
			Reserved: e.Reserved,
			Number:   e.Number,
		}
		if e.HasRequests {
			p.SpecialRequests = e.SpecialRequests
			p.HasRequests = true
		}
		switch {
		case e.Pos != nil:
			ac, err := loadCtx(target)
			if err != nil {
				return nil, err
			}
			pl := floorplan.Plan(ac.canvas, s.Footprint, ac.refs, e.TableID, *e.Pos)
			planned = append(planned, pl)
			aid := target
			x, y := pl.Pos.X, pl.Pos.Y
			p.AreaID = &aid
			p.X = &x
			p.Y = &y
		case e.AreaID != nil:
			aid := target
			p.AreaID = &aid
		}
		patches = append(patches, p)
	}
	if err := s.Tables.UpdateMany(ctx, patches); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return planned, nil
}

// PlanPlacement validates a position without persisting anything.  Table
// creation uses it so new tables land snapped and in bounds; tableID 0 means
// the table does not exist yet, so no existing table is excluded from the
// collision check.
func (s *FloorService) PlanPlacement(ctx context.Context, areaID, tableID uint64, pos floorplan.Point) (floorplan.PlannedPlacement, error) {
	canvas, others, err := s.areaContext(ctx, areaID)
	if err != nil {
		return floorplan.PlannedPlacement{}, err
	}
	return floorplan.Plan(canvas, s.Footprint, others, tableID, pos), nil
}

// ToggleReserved flips the manual hold flag on a table.  Any staff role may
// use it; it is the on-the-spot "this table is taken" switch.
func (s *FloorService) ToggleReserved(ctx context.Context, ident lifecycle.Identity, tableID uint64, reserved bool) (*model.Table, error) {
	if !ident.Present() {
		return nil, lifecycle.ErrUnauthenticated
	}
	if ident.Role == lifecycle.RoleCustomer {
		return nil, lifecycle.ErrForbidden
	}
	if err := s.Tables.SetReserved(ctx, tableID, reserved); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return s.loadTable(ctx, tableID)
}

func (s *FloorService) requireEditor(ident lifecycle.Identity) error {
	if !ident.Present() {
		return lifecycle.ErrUnauthenticated
	}
	if !ident.Role.Elevated() {
		return lifecycle.ErrForbidden
	}
	return nil
}

func (s *FloorService) loadTable(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := s.Tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// areaContext loads an area's canvas and its committed table positions.
func (s *FloorService) areaContext(ctx context.Context, areaID uint64) (floorplan.Canvas, []floorplan.TableRef, error) {
	area, err := s.Areas.GetByID(ctx, areaID)
	if err != nil {
		if errors.Is(err, repository.ErrAreaNotFound) {
			return floorplan.Canvas{}, nil, lifecycle.ErrNotFound
		}
		return floorplan.Canvas{}, nil, err
	}

	canvas := floorplan.Canvas{Size: floorplan.Size{W: area.CanvasW, H: area.CanvasH}}
	if area.Grid != nil {
		canvas.Grid = float64(area.Grid.Size)
	}

	tables, err := s.Tables.ListByArea(ctx, areaID)
	if err != nil {
		return floorplan.Canvas{}, nil, err
	}
	refs := make([]floorplan.TableRef, 0, len(tables))
	for _, t := range tables {
		refs = append(refs, floorplan.TableRef{
			ID:     t.ID,
			AreaID: t.AreaID,
			Pos:    floorplan.Point{X: t.X, Y: t.Y},
		})
	}
	return canvas, refs, nil
}
