package lifecycle

// ReservationStatus enumerates the reservation lifecycle states as stored in
// the reservations.status column.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

// Terminal reports whether no further transitions are allowed.  Terminal
// reservations are kept as history and never deleted.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCancelled || s == ReservationCompleted
}

// Valid reports whether s is one of the enumerated reservation states.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

// WaitlistStatus enumerates the waitlist lifecycle states as stored in the
// waitlist_entries.status column.
type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "WAITING"
	WaitlistCalled    WaitlistStatus = "CALLED"
	WaitlistSeated    WaitlistStatus = "SEATED"
	WaitlistCancelled WaitlistStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are allowed.
func (s WaitlistStatus) Terminal() bool {
	return s == WaitlistSeated || s == WaitlistCancelled
}

// Valid reports whether s is one of the enumerated waitlist states.
func (s WaitlistStatus) Valid() bool {
	switch s {
	case WaitlistWaiting, WaitlistCalled, WaitlistSeated, WaitlistCancelled:
		return true
	}
	return false
}

// Event names a lifecycle operation that drives a transition.
type Event string

const (
	EventConfirm  Event = "confirm"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
	EventCall     Event = "call"
	EventSeat     Event = "seat"
)

// reservationTransitions is the authoritative edge list for the reservation
// state machine.  An illegal transition is a lookup failure here, not a
// runtime cast going wrong somewhere else.
var reservationTransitions = map[ReservationStatus]map[Event]ReservationStatus{
	ReservationPending: {
		EventConfirm:  ReservationConfirmed,
		EventCancel:   ReservationCancelled,
		EventComplete: ReservationCompleted,
	},
	ReservationConfirmed: {
		EventCancel:   ReservationCancelled,
		EventComplete: ReservationCompleted,
	},
}

// waitlistTransitions is the authoritative edge list for the waitlist state
// machine.  CalledAt is stamped on the WAITING -> CALLED edge and SeatedAt on
// CALLED -> SEATED, each exactly once.
var waitlistTransitions = map[WaitlistStatus]map[Event]WaitlistStatus{
	WaitlistWaiting: {
		EventCall:   WaitlistCalled,
		EventCancel: WaitlistCancelled,
	},
	WaitlistCalled: {
		EventSeat:   WaitlistSeated,
		EventCancel: WaitlistCancelled,
	},
}

// NextReservationStatus resolves a reservation transition.  It returns
// ErrInvalidState when the event is not allowed from the current state,
// which covers every attempt to leave a terminal state.
func NextReservationStatus(from ReservationStatus, ev Event) (ReservationStatus, error) {
	if to, ok := reservationTransitions[from][ev]; ok {
		return to, nil
	}
	return "", ErrInvalidState
}

// NextWaitlistStatus resolves a waitlist transition, with the same lookup
// contract as NextReservationStatus.
func NextWaitlistStatus(from WaitlistStatus, ev Event) (WaitlistStatus, error) {
	if to, ok := waitlistTransitions[from][ev]; ok {
		return to, nil
	}
	return "", ErrInvalidState
}

// ReservationSources returns every state from which ev may legally fire.
// Repositories use this to build atomic conditional updates of the form
// UPDATE ... WHERE status IN (sources) so that the guard and the write are a
// single statement.
func ReservationSources(ev Event) []ReservationStatus {
	var out []ReservationStatus
	for from, edges := range reservationTransitions {
		if _, ok := edges[ev]; ok {
			out = append(out, from)
		}
	}
	return out
}

// WaitlistSources is the waitlist counterpart of ReservationSources.
func WaitlistSources(ev Event) []WaitlistStatus {
	var out []WaitlistStatus
	for from, edges := range waitlistTransitions {
		if _, ok := edges[ev]; ok {
			out = append(out, from)
		}
	}
	return out
}
