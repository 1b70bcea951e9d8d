package repository

import (
	"context"

	"github.com/noxven/gestion-ie/internal/domain/entity"
)

// IdentityRepository persists authentication identities. Emails are
// compared case-insensitively.
type IdentityRepository interface {
	Create(ctx context.Context, i *entity.Identity) error
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	// UpdateNameAndRole returns ErrNotFound when no identity has the email.
	UpdateNameAndRole(ctx context.Context, email, name, role string) (*entity.Identity, error)
}

// CredentialRepository persists the ways an identity can authenticate.
type CredentialRepository interface {
	Create(ctx context.Context, c *entity.Credential) error
	GetByProvider(ctx context.Context, providerID, accountID string) (*entity.Credential, error)
	GetByIdentity(ctx context.Context, identityID, providerID string) (*entity.Credential, error)
}
