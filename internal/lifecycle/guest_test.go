package lifecycle

import (
	"strings"
	"testing"
)

func TestNewGuestIdentity(t *testing.T) {
	g := NewGuestIdentity("  Maria Petrova ")
	if g.DisplayName != "Maria Petrova" {
		t.Fatalf("display name = %q, want trimmed original", g.DisplayName)
	}
	if !strings.HasPrefix(g.Email, "maria-petrova-") {
		t.Fatalf("email = %q, want maria-petrova- prefix", g.Email)
	}
	if !strings.HasSuffix(g.Email, "@guests.local") {
		t.Fatalf("email = %q, want @guests.local suffix", g.Email)
	}
}

func TestNewGuestIdentityUnique(t *testing.T) {
	a := NewGuestIdentity("Maria Petrova")
	b := NewGuestIdentity("Maria Petrova")
	if a.Email == b.Email {
		t.Fatalf("same display name must synthesize distinct emails")
	}
}

func TestGuestSlug(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "Anna", want: "anna"},
		{name: "collapsesSeparators", in: "O'Brien  &  Sons", want: "o-brien-sons"},
		{name: "keepsDigits", in: "Table 42", want: "table-42"},
		{name: "dropsLeadingSeparators", in: "  --Anna", want: "anna"},
		{name: "emptyInput", in: "", want: ""},
		{name: "nonAsciiDropped", in: "日本語", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := guestSlug(tc.in); got != tc.want {
				t.Fatalf("guestSlug(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewGuestIdentityFallbackSlug(t *testing.T) {
	g := NewGuestIdentity("!!!")
	if !strings.HasPrefix(g.Email, "guest-") {
		t.Fatalf("email = %q, want guest- fallback prefix", g.Email)
	}
}
