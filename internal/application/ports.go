package application

import (
	"context"

	"github.com/noxven/gestion-ie/internal/domain/entity"
)

// SessionVerifier turns normalized request headers into a session. A nil
// session with a nil error means the caller is anonymous.
type SessionVerifier interface {
	Verify(ctx context.Context, headers map[string]string) (*entity.Session, error)
}

// SessionIssuer creates and revokes sessions and keeps live sessions in
// step with identity changes.
type SessionIssuer interface {
	Issue(ctx context.Context, identity *entity.Identity) (string, *entity.Session, error)
	Revoke(ctx context.Context, sessionID string) error
	SyncIdentity(ctx context.Context, identity *entity.Identity) error
}

type PasswordHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) bool
}

// EventPublisher emits domain events. Publishing is best effort.
type EventPublisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

type ProfileSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]entity.Profile, error)
}
