package entity

import "time"

// Session is the typed result of session verification. It is produced once
// per request and passed down explicitly.
type Session struct {
	Authenticated bool      `json:"authenticated"`
	ID            string    `json:"-"`
	IdentityID    string    `json:"identity_id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	ExpiresAt     time.Time `json:"expires_at"`
}
