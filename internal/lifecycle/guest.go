package lifecycle

import (
	"strings"

	"github.com/google/uuid"
)

// GuestIdentity is the explicit "guest" variant of a booking identity: a
// walk-in or phone guest entered by staff, with no account of their own.  It
// is joined to a reservation through a synthesized placeholder user so that
// repeated bookings under the same display name never collide.
type GuestIdentity struct {
	DisplayName string
	Email       string
}

// guestDomain is the reserved domain for synthesized guest addresses.  It is
// not routable, so guest placeholders can never receive mail or log in.
const guestDomain = "guests.local"

// NewGuestIdentity synthesizes a guest identity from a display name.  The
// local part carries a slug of the name for operator readability plus a UUID
// for uniqueness; the name alone is never relied on to disambiguate.
func NewGuestIdentity(displayName string) GuestIdentity {
	name := strings.TrimSpace(displayName)
	slug := guestSlug(name)
	if slug == "" {
		slug = "guest"
	}
	return GuestIdentity{
		DisplayName: name,
		Email:       slug + "-" + uuid.NewString() + "@" + guestDomain,
	}
}

// guestSlug lowercases the name and keeps only ASCII letters and digits,
// mapping runs of anything else to single dashes.
func guestSlug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
