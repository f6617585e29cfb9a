package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/model"
	"github.com/iliyamo/restaurant-floor/internal/queue"
	"github.com/iliyamo/restaurant-floor/internal/repository"
)

type fakeWaitlistStore struct {
	byID   map[uint64]*model.WaitlistEntry
	nextID uint64
}

func newFakeWaitlistStore() *fakeWaitlistStore {
	return &fakeWaitlistStore{byID: map[uint64]*model.WaitlistEntry{}}
}

func (f *fakeWaitlistStore) Create(_ context.Context, e *model.WaitlistEntry) error {
	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now().UTC()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeWaitlistStore) GetByID(_ context.Context, id uint64) (*model.WaitlistEntry, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrWaitlistNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeWaitlistStore) Call(_ context.Context, id uint64) (bool, error) {
	e, ok := f.byID[id]
	if !ok || e.Status != lifecycle.WaitlistWaiting {
		return false, nil
	}
	now := time.Now().UTC()
	e.Status = lifecycle.WaitlistCalled
	e.CalledAt = &now
	return true, nil
}

func (f *fakeWaitlistStore) Seat(_ context.Context, id uint64) (bool, error) {
	e, ok := f.byID[id]
	if !ok || e.Status != lifecycle.WaitlistCalled {
		return false, nil
	}
	now := time.Now().UTC()
	e.Status = lifecycle.WaitlistSeated
	e.SeatedAt = &now
	return true, nil
}

func (f *fakeWaitlistStore) Cancel(_ context.Context, id uint64) (bool, error) {
	e, ok := f.byID[id]
	if !ok || e.Status.Terminal() {
		return false, nil
	}
	e.Status = lifecycle.WaitlistCancelled
	return true, nil
}

func (f *fakeWaitlistStore) ListActiveByArea(_ context.Context, areaID uint64) ([]*model.WaitlistEntry, error) {
	var out []*model.WaitlistEntry
	for _, e := range f.byID {
		if e.AreaID == areaID && !e.Status.Terminal() {
			cp := *e
			out = append(out, &cp)
		}
	}
	model.OrderWaitlist(out)
	return out, nil
}

type fakeAreaGetter struct {
	areas map[uint64]*model.Area
}

func (f *fakeAreaGetter) GetByID(_ context.Context, id uint64) (*model.Area, error) {
	a, ok := f.areas[id]
	if !ok {
		return nil, repository.ErrAreaNotFound
	}
	return a, nil
}

func newWaitlistFixture() (*WaitlistService, *fakeWaitlistStore, *fakeUsage, *[]queue.WaitlistCalledEvent) {
	store := newFakeWaitlistStore()
	areas := &fakeAreaGetter{areas: map[uint64]*model.Area{
		1: {ID: 1, Name: "Main Hall", CanvasW: 800, CanvasH: 600},
	}}
	usage := newFakeUsage()
	var published []queue.WaitlistCalledEvent
	notify := func(_ context.Context, ev queue.WaitlistCalledEvent) error {
		published = append(published, ev)
		return nil
	}
	svc := NewWaitlistService(store, areas, usage, notify)
	return svc, store, usage, &published
}

func TestWaitlistAdd(t *testing.T) {
	svc, _, _, _ := newWaitlistFixture()

	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.WaitlistWaiting, e.Status)
	assert.Equal(t, customer.UserID, e.UserID)
	assert.Nil(t, e.CalledAt)
}

func TestWaitlistAddUnknownArea(t *testing.T) {
	svc, _, _, _ := newWaitlistFixture()

	_, err := svc.Add(context.Background(), customer, 42, 3, nil)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestWaitlistAddUnauthenticated(t *testing.T) {
	svc, _, _, _ := newWaitlistFixture()

	_, err := svc.Add(context.Background(), lifecycle.Identity{}, 1, 3, nil)
	assert.ErrorIs(t, err, lifecycle.ErrUnauthenticated)
}

func TestWaitlistCallPublishesEvent(t *testing.T) {
	svc, _, _, published := newWaitlistFixture()
	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)

	called, err := svc.Call(context.Background(), waiter, e.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.WaitlistCalled, called.Status)
	require.NotNil(t, called.CalledAt)

	require.Len(t, *published, 1)
	ev := (*published)[0]
	assert.Equal(t, e.ID, ev.EntryID)
	assert.Equal(t, uint64(1), ev.AreaID)
	assert.Equal(t, customer.UserID, ev.UserID)
}

func TestWaitlistCallByCustomerForbidden(t *testing.T) {
	svc, _, _, published := newWaitlistFixture()
	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)

	_, err = svc.Call(context.Background(), customer, e.ID)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
	assert.Empty(t, *published)
}

func TestWaitlistSeatBeforeCallInvalidState(t *testing.T) {
	svc, _, usage, _ := newWaitlistFixture()
	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)

	_, err = svc.Seat(context.Background(), waiter, e.ID, 4)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidState)
	assert.Empty(t, usage.counts)
}

func TestWaitlistSeatRecordsUsage(t *testing.T) {
	svc, _, usage, _ := newWaitlistFixture()
	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)
	_, err = svc.Call(context.Background(), waiter, e.ID)
	require.NoError(t, err)

	seated, err := svc.Seat(context.Background(), waiter, e.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.WaitlistSeated, seated.Status)
	require.NotNil(t, seated.SeatedAt)
	assert.Equal(t, 1, usage.counts[4])
}

func TestWaitlistSeatWithoutTableSkipsUsage(t *testing.T) {
	svc, _, usage, _ := newWaitlistFixture()
	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)
	_, err = svc.Call(context.Background(), waiter, e.ID)
	require.NoError(t, err)

	_, err = svc.Seat(context.Background(), waiter, e.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, usage.counts)
}

func TestWaitlistListActiveInCallOrder(t *testing.T) {
	svc, _, _, _ := newWaitlistFixture()

	vip := int32(5)
	low := int32(1)
	first, err := svc.Add(context.Background(), customer, 1, 2, nil)
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), customer, 1, 4, &low)
	require.NoError(t, err)
	third, err := svc.Add(context.Background(), customer, 1, 2, &vip)
	require.NoError(t, err)
	fourth, err := svc.Add(context.Background(), customer, 1, 6, nil)
	require.NoError(t, err)

	got, err := svc.ListActive(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 4)
	// Prioritized entries lead, highest first; unprioritized follow in
	// arrival order.
	assert.Equal(t, third.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, first.ID, got[2].ID)
	assert.Equal(t, fourth.ID, got[3].ID)
}

func TestWaitlistCancelByOwner(t *testing.T) {
	svc, _, _, _ := newWaitlistFixture()
	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)

	got, err := svc.Cancel(context.Background(), customer, e.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.WaitlistCancelled, got.Status)
}

func TestWaitlistCancelByForeignCustomerForbidden(t *testing.T) {
	svc, _, _, _ := newWaitlistFixture()
	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)

	other := lifecycle.Identity{UserID: 77, Role: lifecycle.RoleCustomer}
	_, err = svc.Cancel(context.Background(), other, e.ID)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
}

func TestWaitlistCancelByStaff(t *testing.T) {
	svc, _, _, _ := newWaitlistFixture()
	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)

	got, err := svc.Cancel(context.Background(), waiter, e.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.WaitlistCancelled, got.Status)
}

func TestWaitlistCancelTerminalInvalidState(t *testing.T) {
	svc, _, _, _ := newWaitlistFixture()
	e, err := svc.Add(context.Background(), customer, 1, 3, nil)
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), customer, e.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), customer, e.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidState)
}
