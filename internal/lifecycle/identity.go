package lifecycle

// Role names a staff or customer role as carried in the JWT "role" claim.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleWaiter   Role = "WAITER"
	RoleCustomer Role = "CUSTOMER"
)

// Elevated reports whether the role may act on bookings it does not own:
// create guest reservations, complete reservations, and edit or cancel on
// behalf of customers.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// ValidRole reports whether s is a known role name.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleWaiter, RoleCustomer:
		return true
	}
	return false
}

// Identity is the authenticated caller of a lifecycle operation, extracted
// from the JWT by the middleware layer.  The zero Identity means "no identity
// in context" and fails every operation with ErrUnauthenticated.
type Identity struct {
	UserID uint64
	Role   Role
}

// Present reports whether an identity was extracted from the request.
func (id Identity) Present() bool { return id.UserID != 0 }

// CanActOn reports whether the identity may mutate a booking owned by
// ownerID: owners may act on their own bookings, elevated roles on any.
func (id Identity) CanActOn(ownerID uint64) bool {
	return id.UserID == ownerID || id.Role.Elevated()
}
