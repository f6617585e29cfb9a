package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/model"
	"github.com/iliyamo/restaurant-floor/internal/repository"
)

// Availability is the derived occupancy state of a table at a point in time.
type Availability string

const (
	Available Availability = "AVAILABLE"
	Reserved  Availability = "RESERVED"
	Occupied  Availability = "OCCUPIED"
)

// ActiveReservationLister reads the active reservations overlapping a window.
type ActiveReservationLister interface {
	ListActiveForTableWithin(ctx context.Context, tableID uint64, from, to time.Time) ([]*model.Reservation, error)
	NextTimesByTable(ctx context.Context, after time.Time) (map[uint64][]time.Time, error)
}

// UnpaidOrderCounter reads open order counts per table.
type UnpaidOrderCounter interface {
	CountUnpaidByTable(ctx context.Context, tableID uint64) (int, error)
}

// TableLister reads tables per area.
type TableLister interface {
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
	ListByArea(ctx context.Context, areaID uint64) ([]*model.Table, error)
}

// OccupancyResolver derives table availability from three independent
// signals: open orders, active reservations inside the seating window, and
// the manual reserved override on the table row.  Precedence when signals
// disagree is OCCUPIED over RESERVED over AVAILABLE.
type OccupancyResolver struct {
	Tables       TableLister
	Reservations ActiveReservationLister
	Orders       UnpaidOrderCounter

	// Window is how far around "now" an active reservation claims the
	// table.  A reservation at now±Window renders the table RESERVED.
	Window time.Duration

	// now is swapped in tests.
	now func() time.Time
}

// NewOccupancyResolver constructs an OccupancyResolver with the given seating
// window.
func NewOccupancyResolver(tables TableLister, reservations ActiveReservationLister, orders UnpaidOrderCounter, window time.Duration) *OccupancyResolver {
	if tables == nil || reservations == nil || orders == nil {
		panic("nil dependency passed to NewOccupancyResolver")
	}
	return &OccupancyResolver{
		Tables:       tables,
		Reservations: reservations,
		Orders:       orders,
		Window:       window,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// TableStatus is the resolved availability of one table, with the inputs that
// produced it so clients can explain the badge.
type TableStatus struct {
	TableID      uint64       `json:"table_id"`
	Availability Availability `json:"availability"`
	UnpaidOrders int          `json:"unpaid_orders"`
	ActiveHolds  int          `json:"active_holds"`
	ManualHold   bool         `json:"manual_hold"`
}

// Resolve computes the availability of a single table at the current time.
func (o *OccupancyResolver) Resolve(ctx context.Context, tableID uint64) (*TableStatus, error) {
	t, err := o.Tables.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return o.resolveTable(ctx, t)
}

// ResolveArea computes the availability of every table in an area.  Results
// follow the area's table-number ordering.
func (o *OccupancyResolver) ResolveArea(ctx context.Context, areaID uint64) ([]*TableStatus, error) {
	tables, err := o.Tables.ListByArea(ctx, areaID)
	if err != nil {
		return nil, err
	}
	out := make([]*TableStatus, 0, len(tables))
	for _, t := range tables {
		st, err := o.resolveTable(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// AvailableTable pairs a free table with its next claimed times, so booking
// UIs can show "free now, reserved at 19:30".
type AvailableTable struct {
	Table     *model.Table `json:"table"`
	NextTimes []time.Time  `json:"next_reservation_times,omitempty"`
}

// ListAvailable returns the tables in an area that resolve AVAILABLE right
// now, annotated with their upcoming reservation times.
func (o *OccupancyResolver) ListAvailable(ctx context.Context, areaID uint64) ([]*AvailableTable, error) {
	tables, err := o.Tables.ListByArea(ctx, areaID)
	if err != nil {
		return nil, err
	}
	upcoming, err := o.Reservations.NextTimesByTable(ctx, o.now())
	if err != nil {
		return nil, err
	}
	out := make([]*AvailableTable, 0, len(tables))
	for _, t := range tables {
		st, err := o.resolveTable(ctx, t)
		if err != nil {
			return nil, err
		}
		if st.Availability != Available {
			continue
		}
		out = append(out, &AvailableTable{Table: t, NextTimes: upcoming[t.ID]})
	}
	return out, nil
}

func (o *OccupancyResolver) resolveTable(ctx context.Context, t *model.Table) (*TableStatus, error) {
	st := &TableStatus{TableID: t.ID, Availability: Available, ManualHold: t.Reserved}

	unpaid, err := o.Orders.CountUnpaidByTable(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	st.UnpaidOrders = unpaid

	now := o.now()
	holds, err := o.Reservations.ListActiveForTableWithin(ctx, t.ID, now.Add(-o.Window), now.Add(o.Window))
	if err != nil {
		return nil, err
	}
	st.ActiveHolds = len(holds)

	switch {
	case unpaid > 0:
		st.Availability = Occupied
	case len(holds) > 0 || t.Reserved:
		st.Availability = Reserved
	}
	return st, nil
}
