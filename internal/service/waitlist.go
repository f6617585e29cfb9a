package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/model"
	"github.com/iliyamo/restaurant-floor/internal/queue"
	"github.com/iliyamo/restaurant-floor/internal/repository"
)

// WaitlistStore is the persistence surface the waitlist service needs.
// *repository.WaitlistRepo satisfies it; tests supply fakes.
type WaitlistStore interface {
	Create(ctx context.Context, e *model.WaitlistEntry) error
	GetByID(ctx context.Context, id uint64) (*model.WaitlistEntry, error)
	Call(ctx context.Context, id uint64) (bool, error)
	Seat(ctx context.Context, id uint64) (bool, error)
	Cancel(ctx context.Context, id uint64) (bool, error)
	ListActiveByArea(ctx context.Context, areaID uint64) ([]*model.WaitlistEntry, error)
}

// AreaGetter verifies area references.
type AreaGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Area, error)
}

// CalledNotifier publishes waitlist.called events so external systems can
// page the guest.  Publish failures are logged, never surfaced: paging is
// best effort, the state transition is the durable fact.
type CalledNotifier func(ctx context.Context, ev queue.WaitlistCalledEvent) error

// WaitlistService implements the walk-in waitlist lifecycle: add, call, seat
// and cancel, plus the ordered active listing.
type WaitlistService struct {
	Entries WaitlistStore
	Areas   AreaGetter
	Usage   UsageRecorder
	Notify  CalledNotifier
}

// NewWaitlistService constructs a WaitlistService.  notify may be nil when
// no broker is configured.
func NewWaitlistService(entries WaitlistStore, areas AreaGetter, usage UsageRecorder, notify CalledNotifier) *WaitlistService {
	if entries == nil || areas == nil || usage == nil {
		panic("nil dependency passed to NewWaitlistService")
	}
	return &WaitlistService{Entries: entries, Areas: areas, Usage: usage, Notify: notify}
}

// Add queues a new WAITING party for an area.  Any authenticated identity
// may join the waitlist; staff add walk-ins under their own identity.
func (s *WaitlistService) Add(ctx context.Context, ident lifecycle.Identity, areaID uint64, partySize uint32, priority *int32) (*model.WaitlistEntry, error) {
	if !ident.Present() {
		return nil, lifecycle.ErrUnauthenticated
	}
	if _, err := s.Areas.GetByID(ctx, areaID); err != nil {
		if errors.Is(err, repository.ErrAreaNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	e := &model.WaitlistEntry{
		AreaID:    areaID,
		UserID:    ident.UserID,
		PartySize: partySize,
		Priority:  priority,
		Status:    lifecycle.WaitlistWaiting,
	}
	if err := s.Entries.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Call transitions WAITING -> CALLED and pages the guest.  Staff only.
func (s *WaitlistService) Call(ctx context.Context, ident lifecycle.Identity, id uint64) (*model.WaitlistEntry, error) {
	if err := s.requireStaff(ident); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	ok, err := s.Entries.Call(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, lifecycle.ErrInvalidState
	}
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Notify != nil {
		calledAt := time.Now().UTC()
		if e.CalledAt != nil {
			calledAt = *e.CalledAt
		}
		ev := queue.WaitlistCalledEvent{
			EntryID:   e.ID,
			AreaID:    e.AreaID,
			UserID:    e.UserID,
			PartySize: e.PartySize,
			CalledAt:  calledAt.Format(time.RFC3339),
		}
		if err := s.Notify(ctx, ev); err != nil {
			log.Printf("waitlist: publish called event failed: %v", err)
		}
	}
	return e, nil
}

// Seat transitions CALLED -> SEATED and records a usage cycle.  Staff only.
func (s *WaitlistService) Seat(ctx context.Context, ident lifecycle.Identity, id uint64, tableID uint64) (*model.WaitlistEntry, error) {
	if err := s.requireStaff(ident); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	ok, err := s.Entries.Seat(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, lifecycle.ErrInvalidState
	}
	if tableID != 0 {
		if err := s.Usage.IncrementUsage(ctx, tableID); err != nil {
			log.Printf("waitlist: usage increment failed for table %d: %v", tableID, err)
		}
	}
	return s.load(ctx, id)
}

// Cancel transitions WAITING|CALLED -> CANCELLED.  Permitted for the party
// that joined or any staff role.
func (s *WaitlistService) Cancel(ctx context.Context, ident lifecycle.Identity, id uint64) (*model.WaitlistEntry, error) {
	if !ident.Present() {
		return nil, lifecycle.ErrUnauthenticated
	}
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if ident.UserID != e.UserID && ident.Role == lifecycle.RoleCustomer {
		return nil, lifecycle.ErrForbidden
	}
	ok, err := s.Entries.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, lifecycle.ErrInvalidState
	}
	return s.load(ctx, id)
}

// ListActive returns the active entries for an area in display order, the
// first being the next party to call.
func (s *WaitlistService) ListActive(ctx context.Context, areaID uint64) ([]*model.WaitlistEntry, error) {
	return s.Entries.ListActiveByArea(ctx, areaID)
}

func (s *WaitlistService) requireStaff(ident lifecycle.Identity) error {
	if !ident.Present() {
		return lifecycle.ErrUnauthenticated
	}
	if ident.Role == lifecycle.RoleCustomer {
		return lifecycle.ErrForbidden
	}
	return nil
}

func (s *WaitlistService) load(ctx context.Context, id uint64) (*model.WaitlistEntry, error) {
	e, err := s.Entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWaitlistNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}
