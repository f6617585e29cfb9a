package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-floor/internal/floorplan"
	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/model"
	"github.com/iliyamo/restaurant-floor/internal/queue"
	"github.com/iliyamo/restaurant-floor/internal/repository"
)

type fakeTableStore struct {
	tables  map[uint64]*model.Table
	order   []uint64
	patched []repository.TablePatch
}

func newFakeTableStore(tables ...*model.Table) *fakeTableStore {
	f := &fakeTableStore{tables: map[uint64]*model.Table{}}
	for _, t := range tables {
		f.tables[t.ID] = t
		f.order = append(f.order, t.ID)
	}
	return f
}

func (f *fakeTableStore) GetByID(_ context.Context, id uint64) (*model.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTableStore) ListByArea(_ context.Context, areaID uint64) ([]*model.Table, error) {
	var out []*model.Table
	for _, id := range f.order {
		if t := f.tables[id]; t != nil && t.AreaID == areaID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTableStore) UpdatePosition(_ context.Context, id, areaID uint64, x, y float64) error {
	t, ok := f.tables[id]
	if !ok {
		return repository.ErrTableNotFound
	}
	t.AreaID = areaID
	t.X = x
	t.Y = y
	return nil
}

func (f *fakeTableStore) UpdateMany(_ context.Context, patches []repository.TablePatch) error {
	for _, p := range patches {
		t, ok := f.tables[p.ID]
		if !ok {
			return repository.ErrTableNotFound
		}
		if p.AreaID != nil {
			t.AreaID = *p.AreaID
		}
		if p.X != nil {
			t.X = *p.X
		}
		if p.Y != nil {
			t.Y = *p.Y
		}
		if p.Diners != nil {
			t.Diners = *p.Diners
		}
		if p.Reserved != nil {
			t.Reserved = *p.Reserved
		}
		if p.Number != nil {
			t.Number = *p.Number
		}
		if p.HasRequests {
			t.SpecialRequests = p.SpecialRequests
		}
	}
	f.patched = append(f.patched, patches...)
	return nil
}

func (f *fakeTableStore) SetReserved(_ context.Context, id uint64, reserved bool) error {
	t, ok := f.tables[id]
	if !ok {
		return repository.ErrTableNotFound
	}
	t.Reserved = reserved
	return nil
}

func newFloorFixture() (*FloorService, *fakeTableStore, *[]queue.TableMovedEvent) {
	tables := newFakeTableStore(
		&model.Table{ID: 1, AreaID: 1, Number: 1, X: 100, Y: 100},
		&model.Table{ID: 2, AreaID: 1, Number: 2, X: 400, Y: 400},
	)
	areas := &fakeAreaGetter{areas: map[uint64]*model.Area{
		1: {ID: 1, Name: "Main Hall", CanvasW: 800, CanvasH: 600, Grid: &model.GridConfig{AreaID: 1, Size: 20}},
	}}
	var published []queue.TableMovedEvent
	notify := func(_ context.Context, ev queue.TableMovedEvent) error {
		published = append(published, ev)
		return nil
	}
	svc := NewFloorService(tables, areas, notify, floorplan.Size{W: 160, H: 180})
	return svc, tables, &published
}

func TestMoveTableSnapsClampsAndPersists(t *testing.T) {
	svc, tables, published := newFloorFixture()

	res, err := svc.MoveTable(context.Background(), manager, 1, 1, floorplan.Point{X: 137, Y: 152})
	require.NoError(t, err)
	assert.Equal(t, 140.0, res.Table.X)
	assert.Equal(t, 160.0, res.Table.Y)
	assert.Empty(t, res.Colliding)

	assert.Equal(t, 140.0, tables.tables[1].X)
	require.Len(t, *published, 1)
	ev := (*published)[0]
	assert.Equal(t, uint64(1), ev.TableID)
	assert.Equal(t, 100.0, ev.FromX)
	assert.Equal(t, 140.0, ev.ToX)
	assert.False(t, ev.Collision)
	assert.Equal(t, manager.UserID, ev.MovedBy)
}

func TestMoveTableClampsToCanvas(t *testing.T) {
	svc, _, _ := newFloorFixture()

	res, err := svc.MoveTable(context.Background(), manager, 1, 1, floorplan.Point{X: 900, Y: 700})
	require.NoError(t, err)
	assert.Equal(t, 640.0, res.Table.X)
	assert.Equal(t, 420.0, res.Table.Y)
}

func TestMoveTableCollisionAdvisory(t *testing.T) {
	svc, tables, published := newFloorFixture()

	res, err := svc.MoveTable(context.Background(), manager, 1, 1, floorplan.Point{X: 400, Y: 400})
	require.NoError(t, err)
	require.Len(t, res.Colliding, 1)
	assert.Equal(t, uint64(2), res.Colliding[0])
	// The overlapping move is still committed.
	assert.Equal(t, 400.0, tables.tables[1].X)
	require.Len(t, *published, 1)
	assert.True(t, (*published)[0].Collision)
}

func TestMoveTableRoleGate(t *testing.T) {
	svc, _, _ := newFloorFixture()

	_, err := svc.MoveTable(context.Background(), customer, 1, 1, floorplan.Point{X: 0, Y: 0})
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
	_, err = svc.MoveTable(context.Background(), waiter, 1, 1, floorplan.Point{X: 0, Y: 0})
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
	_, err = svc.MoveTable(context.Background(), lifecycle.Identity{}, 1, 1, floorplan.Point{X: 0, Y: 0})
	assert.ErrorIs(t, err, lifecycle.ErrUnauthenticated)
}

func TestMoveTableUnknownArea(t *testing.T) {
	svc, _, _ := newFloorFixture()

	_, err := svc.MoveTable(context.Background(), manager, 1, 42, floorplan.Point{X: 0, Y: 0})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestEditManyCommitsBatch(t *testing.T) {
	svc, tables, _ := newFloorFixture()

	planned, err := svc.EditMany(context.Background(), manager, 1, []TableEdit{
		{TableID: 1, Pos: &floorplan.Point{X: 600, Y: 0}},
		{TableID: 2, Pos: &floorplan.Point{X: 97, Y: 113}},
	})
	require.NoError(t, err)
	require.Len(t, planned, 2)
	assert.Equal(t, floorplan.Point{X: 600, Y: 0}, planned[0].Pos)
	assert.Equal(t, floorplan.Point{X: 100, Y: 120}, planned[1].Pos)
	// Both moves are validated against pre-batch positions: table 2 lands
	// near table 1's old spot and reports the advisory overlap.
	require.Len(t, planned[1].Colliding, 1)
	assert.Equal(t, uint64(1), planned[1].Colliding[0])

	assert.Equal(t, 600.0, tables.tables[1].X)
	assert.Equal(t, 100.0, tables.tables[2].X)
	assert.Equal(t, 120.0, tables.tables[2].Y)
}

func TestEditManyPatchesAttributes(t *testing.T) {
	svc, tables, _ := newFloorFixture()

	diners := uint32(6)
	reserved := true
	number := uint32(12)
	planned, err := svc.EditMany(context.Background(), manager, 1, []TableEdit{
		{TableID: 1, Diners: &diners, Reserved: &reserved},
		{TableID: 2, Number: &number, SpecialRequests: []string{"window"}, HasRequests: true},
	})
	require.NoError(t, err)
	// No item carried a position, so nothing went through the layout engine.
	assert.Empty(t, planned)

	assert.Equal(t, uint32(6), tables.tables[1].Diners)
	assert.True(t, tables.tables[1].Reserved)
	assert.Equal(t, uint32(12), tables.tables[2].Number)
	assert.Equal(t, []string{"window"}, tables.tables[2].SpecialRequests)
	// Positions stay untouched.
	assert.Equal(t, 100.0, tables.tables[1].X)
	assert.Equal(t, 400.0, tables.tables[2].X)

	require.Len(t, tables.patched, 2)
	assert.Nil(t, tables.patched[0].X)
	assert.Nil(t, tables.patched[0].AreaID)
	assert.True(t, tables.patched[1].HasRequests)
}

func TestEditManyMovesAndPatchesTogether(t *testing.T) {
	svc, tables, _ := newFloorFixture()

	diners := uint32(2)
	planned, err := svc.EditMany(context.Background(), manager, 1, []TableEdit{
		{TableID: 1, Pos: &floorplan.Point{X: 137, Y: 152}, Diners: &diners},
	})
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Equal(t, floorplan.Point{X: 140, Y: 160}, planned[0].Pos)

	assert.Equal(t, 140.0, tables.tables[1].X)
	assert.Equal(t, 160.0, tables.tables[1].Y)
	assert.Equal(t, uint32(2), tables.tables[1].Diners)
}

func TestEditManyRoleGate(t *testing.T) {
	svc, _, _ := newFloorFixture()

	reserved := true
	_, err := svc.EditMany(context.Background(), waiter, 1, []TableEdit{
		{TableID: 1, Reserved: &reserved},
	})
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
}

func TestEditManyMissingTableFailsBatch(t *testing.T) {
	svc, _, _ := newFloorFixture()

	_, err := svc.EditMany(context.Background(), manager, 1, []TableEdit{
		{TableID: 99, Pos: &floorplan.Point{X: 0, Y: 0}},
	})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestToggleReserved(t *testing.T) {
	svc, tables, _ := newFloorFixture()

	got, err := svc.ToggleReserved(context.Background(), waiter, 1, true)
	require.NoError(t, err)
	assert.True(t, got.Reserved)
	assert.True(t, tables.tables[1].Reserved)

	_, err = svc.ToggleReserved(context.Background(), customer, 1, true)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
}

func TestPlanPlacementForNewTable(t *testing.T) {
	svc, _, _ := newFloorFixture()

	planned, err := svc.PlanPlacement(context.Background(), 1, 0, floorplan.Point{X: 403, Y: 395})
	require.NoError(t, err)
	assert.Equal(t, floorplan.Point{X: 400, Y: 400}, planned.Pos)
	require.Len(t, planned.Colliding, 1)
	assert.Equal(t, uint64(2), planned.Colliding[0])
}
