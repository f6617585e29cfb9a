// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting
// an area that still has tables).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete an area that still has tables. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrAreaNotFound is returned when an area lookup fails.
var ErrAreaNotFound = errors.New("area not found")

// ErrTableNotFound is returned when a table lookup fails.
var ErrTableNotFound = errors.New("table not found")

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrWaitlistNotFound is returned when a waitlist entry lookup fails.
var ErrWaitlistNotFound = errors.New("waitlist entry not found")

// ErrAreaCycle is returned when re-parenting an area would make it its own
// ancestor.
var ErrAreaCycle = errors.New("area parent chain would form a cycle")
