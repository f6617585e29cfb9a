package model

import "time"

// User represents an application user record as stored in the `users` table.
// Staff-entered guest bookings create placeholder users with IsGuest set and
// a synthesized, non-routable email; those rows can never log in.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address (synthesized for guests).
//  PasswordHash – bcrypt hashed password, empty for guest placeholders.
//  Role         – role name (ADMIN, MANAGER, WAITER, CUSTOMER).
//  DisplayName  – optional display name, always set for guests.
//  IsGuest      – whether this row is a synthesized guest placeholder.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	DisplayName  *string   `json:"display_name,omitempty"`
	IsGuest      bool      `json:"is_guest"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user; only the SHA-256 hash of the raw token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
