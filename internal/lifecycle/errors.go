// Package lifecycle defines the booking state machines shared by the
// reservation and waitlist flows: the status enums, the closed transition
// tables that guard them, the caller identity model and the domain error
// taxonomy.  Like the repository sentinels, these errors exist so that
// handlers can translate failure modes into distinct HTTP responses.
package lifecycle

import "errors"

// ErrUnauthenticated is returned when no identity is present in the calling
// context.  Handlers translate this into a 401 response.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when an identity is present but lacks the role or
// ownership required for the operation.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when a referenced reservation, waitlist entry or
// table does not exist.  Handlers translate this into 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidState is returned when a transition is attempted from a terminal
// or incompatible state.  Handlers translate this into 409.
var ErrInvalidState = errors.New("invalid state for transition")
