package entity

import "strings"

// Role tags. The roles table carries the canonical id for each tag.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Role represents an access tier referenced by profiles (canonical FK)
// and mirrored as a tag on identities.
type Role struct {
	ID          int64  `json:"id"`
	Description string `json:"descripcion"`
}

// Roles returns the closed set of role tags.
func Roles() []string {
	return []string{RoleAdmin, RoleUser}
}

// ValidRole reports whether tag is one of the enumerated roles.
func ValidRole(tag string) bool {
	for _, r := range Roles() {
		if r == tag {
			return true
		}
	}
	return false
}

// NormalizeEmail lower-cases and trims an email so it can be used as the
// correlation key between identities and profiles.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
