package model

import (
	"sort"
	"time"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
)

// WaitlistEntry is a walk-in party queued for the next available table in an
// area.  CalledAt is stamped exactly once on the WAITING -> CALLED transition
// and SeatedAt exactly once on CALLED -> SEATED.  Active entries are listed
// by priority descending, then creation time ascending, so the next party to
// call is always the highest-priority, oldest entry.
//
// Fields:
//  ID        – primary key identifier.
//  AreaID    – area the party is waiting for.
//  UserID    – requesting identity (registered user or guest placeholder).
//  PartySize – number of diners.
//  Priority  – optional manual priority, nil sorts below any set value.
//  Status    – lifecycle state (WAITING, CALLED, SEATED, CANCELLED).
//  CalledAt  – when the party was called, nil until then.
//  SeatedAt  – when the party was seated, nil until then.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type WaitlistEntry struct {
	ID        uint64                   `json:"id"`
	AreaID    uint64                   `json:"area_id"`
	UserID    uint64                   `json:"user_id"`
	PartySize uint32                   `json:"party_size"`
	Priority  *int32                   `json:"priority,omitempty"`
	Status    lifecycle.WaitlistStatus `json:"status"`
	CalledAt  *time.Time               `json:"called_at,omitempty"`
	SeatedAt  *time.Time               `json:"seated_at,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// OrderWaitlist sorts entries in place into call order: priority descending
// with unprioritized entries last, ties broken by creation time ascending,
// then by id.  The first entry after sorting is the next party to call.
func OrderWaitlist(entries []*WaitlistEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.Priority != nil && b.Priority == nil:
			return true
		case a.Priority == nil && b.Priority != nil:
			return false
		case a.Priority != nil && b.Priority != nil && *a.Priority != *b.Priority:
			return *a.Priority > *b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
