package model

import (
	"time"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
)

// Reservation records one table-booking request from creation through its
// terminal state.  The booked identity is always a user row: either the
// customer themselves or, for staff-entered guest bookings, a synthesized
// placeholder user whose GuestName is set.  Terminal reservations are kept
// as history and survive later table edits and moves.
//
// Fields:
//  ID              – primary key identifier.
//  TableID         – table being booked.
//  UserID          – booked identity (registered user or guest placeholder).
//  GuestName       – guest display name for staff-entered bookings, else nil.
//  ReservationTime – requested seating time.
//  PartySize       – number of diners.
//  Status          – lifecycle state (PENDING, CONFIRMED, CANCELLED, COMPLETED).
//  CreatedBy       – identity that created the booking.
//  CreatorRole     – role of the creator at creation time.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64                      `json:"id"`
	TableID         uint64                      `json:"table_id"`
	UserID          uint64                      `json:"user_id"`
	GuestName       *string                     `json:"guest_name,omitempty"`
	ReservationTime time.Time                   `json:"reservation_time"`
	PartySize       uint32                      `json:"party_size"`
	Status          lifecycle.ReservationStatus `json:"status"`
	CreatedBy       uint64                      `json:"created_by"`
	CreatorRole     lifecycle.Role              `json:"creator_role"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}
