// Package service contains the booking lifecycle services and the read-side
// occupancy resolver.  Services enforce identity and role checks at the
// mutation boundary, delegate state guards to atomic conditional writes in
// the repositories, and leave geometry entirely to the floorplan package.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/model"
	"github.com/iliyamo/restaurant-floor/internal/repository"
)

// ReservationStore is the persistence surface the reservation service needs.
// *repository.ReservationRepo satisfies it; tests supply fakes.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	UpdateStatusGuarded(ctx context.Context, id uint64, from []lifecycle.ReservationStatus, to lifecycle.ReservationStatus) (bool, error)
	Patch(ctx context.Context, id uint64, p repository.ReservationPatch) error
}

// GuestStore creates guest placeholder users for staff-entered bookings.
type GuestStore interface {
	CreateGuest(ctx context.Context, email, displayName string) (uint64, error)
}

// TableGetter verifies table references.
type TableGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
}

// UsageRecorder records completed occupancy cycles.
type UsageRecorder interface {
	IncrementUsage(ctx context.Context, tableID uint64) error
}

// ReservationService implements the reservation lifecycle: create (self or
// staff-assisted guest), edit, cancel and complete, with role gating per
// operation.
type ReservationService struct {
	Reservations ReservationStore
	Guests       GuestStore
	Tables       TableGetter
	Usage        UsageRecorder
}

// NewReservationService constructs a ReservationService and panics if any
// dependency is nil.
func NewReservationService(res ReservationStore, guests GuestStore, tables TableGetter, usage UsageRecorder) *ReservationService {
	if res == nil || guests == nil || tables == nil || usage == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{Reservations: res, Guests: guests, Tables: tables, Usage: usage}
}

// CreateReservationInput is the request shape for both creation modes.  A nil
// GuestName means self-service; a set GuestName means a staff-entered guest
// booking, which requires an elevated role.
type CreateReservationInput struct {
	TableID   uint64
	Time      time.Time
	PartySize uint32
	GuestName *string
}

// Create makes a new PENDING reservation.  Self-service bookings are always
// permitted for an authenticated identity; guest bookings require an
// elevated role and synthesize a fresh guest placeholder identity so that
// repeated bookings under the same display name never collide.
func (s *ReservationService) Create(ctx context.Context, ident lifecycle.Identity, in CreateReservationInput) (*model.Reservation, error) {
	if !ident.Present() {
		return nil, lifecycle.ErrUnauthenticated
	}
	if _, err := s.Tables.GetByID(ctx, in.TableID); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}

	userID := ident.UserID
	if in.GuestName != nil {
		if !ident.Role.Elevated() {
			return nil, lifecycle.ErrForbidden
		}
		guest := lifecycle.NewGuestIdentity(*in.GuestName)
		gid, err := s.Guests.CreateGuest(ctx, guest.Email, guest.DisplayName)
		if err != nil {
			return nil, err
		}
		userID = gid
	}

	res := &model.Reservation{
		TableID:         in.TableID,
		UserID:          userID,
		GuestName:       in.GuestName,
		ReservationTime: in.Time.UTC(),
		PartySize:       in.PartySize,
		Status:          lifecycle.ReservationPending,
		CreatedBy:       ident.UserID,
		CreatorRole:     ident.Role,
	}
	if err := s.Reservations.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Edit applies a raw field patch to a reservation.  It is permitted for the
// owning identity or an elevated role.  Unlike Cancel and Complete there is
// no state-machine guard here: edits are allowed in any state, including
// terminal ones.  That asymmetry is deliberate and matches the booking
// dashboard's "fix a typo in history" use case.
func (s *ReservationService) Edit(ctx context.Context, ident lifecycle.Identity, id uint64, patch repository.ReservationPatch) (*model.Reservation, error) {
	if !ident.Present() {
		return nil, lifecycle.ErrUnauthenticated
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ident.CanActOn(res.UserID) {
		return nil, lifecycle.ErrForbidden
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, lifecycle.ErrInvalidState
	}
	if err := s.Reservations.Patch(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return s.load(ctx, id)
}

// Cancel transitions a reservation to CANCELLED.  Permitted for the owning
// identity or an elevated role; fails with ErrInvalidState from a terminal
// state.
func (s *ReservationService) Cancel(ctx context.Context, ident lifecycle.Identity, id uint64) (*model.Reservation, error) {
	if !ident.Present() {
		return nil, lifecycle.ErrUnauthenticated
	}
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ident.CanActOn(res.UserID) {
		return nil, lifecycle.ErrForbidden
	}
	return s.transition(ctx, id, lifecycle.EventCancel)
}

// Complete transitions a reservation to COMPLETED and records a usage cycle
// on the table.  Only elevated roles may complete; the owning customer may
// not.
func (s *ReservationService) Complete(ctx context.Context, ident lifecycle.Identity, id uint64) (*model.Reservation, error) {
	if !ident.Present() {
		return nil, lifecycle.ErrUnauthenticated
	}
	if !ident.Role.Elevated() {
		return nil, lifecycle.ErrForbidden
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	res, err := s.transition(ctx, id, lifecycle.EventComplete)
	if err != nil {
		return nil, err
	}
	if err := s.Usage.IncrementUsage(ctx, res.TableID); err != nil {
		// Telemetry only; the completed reservation is already durable.
		return res, nil
	}
	return res, nil
}

func (s *ReservationService) load(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// transition runs a guarded status update.  The eligible source states come
// from the lifecycle transition table; a zero-row update means the row was
// not in any of them at write time, so the transition is invalid even if a
// stale read said otherwise.
func (s *ReservationService) transition(ctx context.Context, id uint64, ev lifecycle.Event) (*model.Reservation, error) {
	sources := lifecycle.ReservationSources(ev)
	to, err := lifecycle.NextReservationStatus(sources[0], ev)
	if err != nil {
		return nil, err
	}
	ok, err := s.Reservations.UpdateStatusGuarded(ctx, id, sources, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, lifecycle.ErrInvalidState
	}
	return s.load(ctx, id)
}
