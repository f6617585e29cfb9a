package lifecycle

import (
	"errors"
	"testing"
)

func TestNextReservationStatus(t *testing.T) {
	cases := []struct {
		name    string
		from    ReservationStatus
		ev      Event
		want    ReservationStatus
		wantErr bool
	}{
		{name: "pendingConfirm", from: ReservationPending, ev: EventConfirm, want: ReservationConfirmed},
		{name: "pendingCancel", from: ReservationPending, ev: EventCancel, want: ReservationCancelled},
		{name: "pendingComplete", from: ReservationPending, ev: EventComplete, want: ReservationCompleted},
		{name: "confirmedCancel", from: ReservationConfirmed, ev: EventCancel, want: ReservationCancelled},
		{name: "confirmedComplete", from: ReservationConfirmed, ev: EventComplete, want: ReservationCompleted},
		{name: "confirmedConfirmRejected", from: ReservationConfirmed, ev: EventConfirm, wantErr: true},
		{name: "cancelledIsTerminal", from: ReservationCancelled, ev: EventConfirm, wantErr: true},
		{name: "completedIsTerminal", from: ReservationCompleted, ev: EventCancel, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextReservationStatus(tc.from, tc.ev)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidState) {
					t.Fatalf("err = %v, want ErrInvalidState", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNextWaitlistStatus(t *testing.T) {
	cases := []struct {
		name    string
		from    WaitlistStatus
		ev      Event
		want    WaitlistStatus
		wantErr bool
	}{
		{name: "waitingCall", from: WaitlistWaiting, ev: EventCall, want: WaitlistCalled},
		{name: "waitingCancel", from: WaitlistWaiting, ev: EventCancel, want: WaitlistCancelled},
		{name: "calledSeat", from: WaitlistCalled, ev: EventSeat, want: WaitlistSeated},
		{name: "calledCancel", from: WaitlistCalled, ev: EventCancel, want: WaitlistCancelled},
		{name: "seatBeforeCallRejected", from: WaitlistWaiting, ev: EventSeat, wantErr: true},
		{name: "seatedIsTerminal", from: WaitlistSeated, ev: EventCancel, wantErr: true},
		{name: "cancelledIsTerminal", from: WaitlistCancelled, ev: EventCall, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextWaitlistStatus(tc.from, tc.ev)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidState) {
					t.Fatalf("err = %v, want ErrInvalidState", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestReservationSources(t *testing.T) {
	cases := []struct {
		name string
		ev   Event
		want map[ReservationStatus]bool
	}{
		{name: "cancel", ev: EventCancel, want: map[ReservationStatus]bool{ReservationPending: true, ReservationConfirmed: true}},
		{name: "complete", ev: EventComplete, want: map[ReservationStatus]bool{ReservationPending: true, ReservationConfirmed: true}},
		{name: "confirm", ev: EventConfirm, want: map[ReservationStatus]bool{ReservationPending: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ReservationSources(tc.ev)
			if len(got) != len(tc.want) {
				t.Fatalf("sources = %v, want %d states", got, len(tc.want))
			}
			for _, s := range got {
				if !tc.want[s] {
					t.Fatalf("unexpected source %s", s)
				}
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []ReservationStatus{ReservationPending, ReservationConfirmed} {
		if s.Terminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
	for _, s := range []ReservationStatus{ReservationCancelled, ReservationCompleted} {
		if !s.Terminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
	if WaitlistWaiting.Terminal() || WaitlistCalled.Terminal() {
		t.Fatalf("active waitlist states must not be terminal")
	}
	if !WaitlistSeated.Terminal() || !WaitlistCancelled.Terminal() {
		t.Fatalf("seated and cancelled must be terminal")
	}
}

func TestIdentityCanActOn(t *testing.T) {
	owner := Identity{UserID: 5, Role: RoleCustomer}
	other := Identity{UserID: 6, Role: RoleCustomer}
	waiter := Identity{UserID: 7, Role: RoleWaiter}
	manager := Identity{UserID: 8, Role: RoleManager}

	if !owner.CanActOn(5) {
		t.Fatalf("owner must act on own booking")
	}
	if other.CanActOn(5) {
		t.Fatalf("another customer must not act on a foreign booking")
	}
	if waiter.CanActOn(5) {
		t.Fatalf("waiter is not elevated")
	}
	if !manager.CanActOn(5) {
		t.Fatalf("manager must act on any booking")
	}
	if (Identity{}).Present() {
		t.Fatalf("zero identity must not be present")
	}
}
