package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/model"
	"github.com/iliyamo/restaurant-floor/internal/repository"
)

// ----- fakes -----

type fakeReservationStore struct {
	byID   map[uint64]*model.Reservation
	nextID uint64
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{byID: map[uint64]*model.Reservation{}}
}

func (f *fakeReservationStore) Create(_ context.Context, res *model.Reservation) error {
	f.nextID++
	res.ID = f.nextID
	cp := *res
	f.byID[res.ID] = &cp
	return nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (f *fakeReservationStore) UpdateStatusGuarded(_ context.Context, id uint64, from []lifecycle.ReservationStatus, to lifecycle.ReservationStatus) (bool, error) {
	res, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if res.Status == s {
			res.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationStore) Patch(_ context.Context, id uint64, p repository.ReservationPatch) error {
	res, ok := f.byID[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	if p.Time != nil {
		res.ReservationTime = *p.Time
	}
	if p.PartySize != nil {
		res.PartySize = *p.PartySize
	}
	if p.Status != nil {
		res.Status = *p.Status
	}
	return nil
}

type fakeGuestStore struct {
	emails []string
	nextID uint64
}

func (f *fakeGuestStore) CreateGuest(_ context.Context, email, _ string) (uint64, error) {
	f.emails = append(f.emails, email)
	f.nextID++
	return 1000 + f.nextID, nil
}

type fakeTableGetter struct {
	tables map[uint64]*model.Table
}

func (f *fakeTableGetter) GetByID(_ context.Context, id uint64) (*model.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	return t, nil
}

type fakeUsage struct {
	counts map[uint64]int
}

func newFakeUsage() *fakeUsage { return &fakeUsage{counts: map[uint64]int{}} }

func (f *fakeUsage) IncrementUsage(_ context.Context, tableID uint64) error {
	f.counts[tableID]++
	return nil
}

func newReservationFixture() (*ReservationService, *fakeReservationStore, *fakeGuestStore, *fakeUsage) {
	store := newFakeReservationStore()
	guests := &fakeGuestStore{}
	tables := &fakeTableGetter{tables: map[uint64]*model.Table{
		4: {ID: 4, AreaID: 1, Number: 4, Diners: 4},
	}}
	usage := newFakeUsage()
	svc := NewReservationService(store, guests, tables, usage)
	return svc, store, guests, usage
}

var (
	customer = lifecycle.Identity{UserID: 10, Role: lifecycle.RoleCustomer}
	waiter   = lifecycle.Identity{UserID: 20, Role: lifecycle.RoleWaiter}
	manager  = lifecycle.Identity{UserID: 30, Role: lifecycle.RoleManager}
)

func selfInput() CreateReservationInput {
	return CreateReservationInput{TableID: 4, Time: time.Now().Add(2 * time.Hour), PartySize: 2}
}

// ----- tests -----

func TestCreateSelfService(t *testing.T) {
	svc, _, _, _ := newReservationFixture()

	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ReservationPending, res.Status)
	assert.Equal(t, customer.UserID, res.UserID)
	assert.Equal(t, customer.UserID, res.CreatedBy)
	assert.Equal(t, lifecycle.RoleCustomer, res.CreatorRole)
}

func TestCreateUnauthenticated(t *testing.T) {
	svc, _, _, _ := newReservationFixture()

	_, err := svc.Create(context.Background(), lifecycle.Identity{}, selfInput())
	assert.ErrorIs(t, err, lifecycle.ErrUnauthenticated)
}

func TestCreateUnknownTable(t *testing.T) {
	svc, _, _, _ := newReservationFixture()
	in := selfInput()
	in.TableID = 99

	_, err := svc.Create(context.Background(), customer, in)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestCreateGuestRequiresElevatedRole(t *testing.T) {
	svc, _, guests, _ := newReservationFixture()
	name := "Maria Petrova"
	in := selfInput()
	in.GuestName = &name

	_, err := svc.Create(context.Background(), waiter, in)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
	assert.Empty(t, guests.emails, "no guest user may be created on a rejected request")

	_, err = svc.Create(context.Background(), customer, in)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
}

func TestCreateGuestSynthesizesDistinctIdentities(t *testing.T) {
	svc, _, guests, _ := newReservationFixture()
	name := "Maria Petrova"
	in := selfInput()
	in.GuestName = &name

	first, err := svc.Create(context.Background(), manager, in)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), manager, in)
	require.NoError(t, err)

	assert.NotEqual(t, first.UserID, second.UserID,
		"repeated bookings under one display name must get distinct guest users")
	require.Len(t, guests.emails, 2)
	assert.NotEqual(t, guests.emails[0], guests.emails[1])
	assert.Equal(t, manager.UserID, first.CreatedBy)
	assert.Equal(t, lifecycle.RoleManager, first.CreatorRole)
}

func TestCancelByOwner(t *testing.T) {
	svc, _, _, _ := newReservationFixture()
	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)

	got, err := svc.Cancel(context.Background(), customer, res.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ReservationCancelled, got.Status)
}

func TestCancelByForeignCustomerForbidden(t *testing.T) {
	svc, _, _, _ := newReservationFixture()
	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)

	other := lifecycle.Identity{UserID: 11, Role: lifecycle.RoleCustomer}
	_, err = svc.Cancel(context.Background(), other, res.ID)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
}

func TestCancelTerminalInvalidState(t *testing.T) {
	svc, store, _, _ := newReservationFixture()
	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)
	store.byID[res.ID].Status = lifecycle.ReservationCompleted

	_, err = svc.Cancel(context.Background(), customer, res.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidState)
}

func TestCompleteRequiresElevatedRole(t *testing.T) {
	svc, _, _, _ := newReservationFixture()
	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), customer, res.ID)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
	_, err = svc.Complete(context.Background(), waiter, res.ID)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
}

func TestCompleteRecordsUsage(t *testing.T) {
	svc, _, _, usage := newReservationFixture()
	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)

	got, err := svc.Complete(context.Background(), manager, res.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.ReservationCompleted, got.Status)
	assert.Equal(t, 1, usage.counts[4])
}

func TestCompleteTwiceInvalidState(t *testing.T) {
	svc, _, _, usage := newReservationFixture()
	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), manager, res.ID)
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), manager, res.ID)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidState)
	assert.Equal(t, 1, usage.counts[4], "usage counts one cycle per completion")
}

func TestEditAllowsTerminalState(t *testing.T) {
	// Edits are deliberately unguarded so staff can fix records in history.
	svc, store, _, _ := newReservationFixture()
	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)
	store.byID[res.ID].Status = lifecycle.ReservationCompleted

	size := uint32(6)
	got, err := svc.Edit(context.Background(), manager, res.ID, repository.ReservationPatch{PartySize: &size})
	require.NoError(t, err)
	assert.Equal(t, uint32(6), got.PartySize)
	assert.Equal(t, lifecycle.ReservationCompleted, got.Status)
}

func TestEditRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newReservationFixture()
	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)

	bad := lifecycle.ReservationStatus("NO_SHOW")
	_, err = svc.Edit(context.Background(), manager, res.ID, repository.ReservationPatch{Status: &bad})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidState)
}

func TestEditByForeignCustomerForbidden(t *testing.T) {
	svc, _, _, _ := newReservationFixture()
	res, err := svc.Create(context.Background(), customer, selfInput())
	require.NoError(t, err)

	other := lifecycle.Identity{UserID: 11, Role: lifecycle.RoleCustomer}
	size := uint32(3)
	_, err = svc.Edit(context.Background(), other, res.ID, repository.ReservationPatch{PartySize: &size})
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)
}
