package entity

import "time"

// Credential providers
const (
	ProviderCredential = "credential"
	ProviderGitHub     = "github"
)

// Identity is a login-capable principal. Role is a denormalized copy of the
// paired profile's role and is only written by the synchronizer.
type Identity struct {
	ID            string
	Email         string
	Name          string
	Role          string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Credential links an identity to a way of proving it: a password hash for
// the credential provider or an account id for an external provider.
type Credential struct {
	ID           string
	IdentityID   string
	ProviderID   string
	AccountID    string
	PasswordHash string
	CreatedAt    time.Time
}

// ExternalAccount is what an external provider reports about a signed-in user.
type ExternalAccount struct {
	ProviderID    string
	AccountID     string
	Email         string
	Name          string
	EmailVerified bool
}
