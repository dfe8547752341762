package domain

import "time"

// Session binds an opaque bearer token to a user identity. The raw
// token leaves the process only inside the client cookie; the store
// keeps its SHA-256 hash.
type Session struct {
	ID        string
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
