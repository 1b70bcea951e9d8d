package entity

import "time"

// DefaultProfileName is used when an identity has no display name.
const DefaultProfileName = "Sin nombre"

// Profile is the business-facing record of a user. RoleID is authoritative;
// Role carries the joined tag for convenience.
type Profile struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"nombrecompleto"`
	Email     string    `json:"email"`
	Phone     string    `json:"telefono,omitempty"`
	RoleID    int64     `json:"rolid"`
	Role      string    `json:"rol"`
	Active    bool      `json:"estado"`
	CreatedAt time.Time `json:"created_at"`
}
