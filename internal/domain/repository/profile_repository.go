package repository

import (
	"context"

	"github.com/noxven/gestion-ie/internal/domain/entity"
)

// ProfileRepository persists business profiles. Reads join the role tag.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByID(ctx context.Context, id int64) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	// List returns profiles newest first.
	List(ctx context.Context) ([]entity.Profile, error)
	Update(ctx context.Context, p *entity.Profile) error
}

type RoleRepository interface {
	Create(ctx context.Context, r *entity.Role) error
	GetByID(ctx context.Context, id int64) (*entity.Role, error)
	GetByDescription(ctx context.Context, description string) (*entity.Role, error)
	List(ctx context.Context) ([]entity.Role, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	// List returns all transactions newest first.
	List(ctx context.Context) ([]entity.Transaction, error)
	// ListByProfile returns a profile's transactions by date, newest first,
	// with owner name and email populated.
	ListByProfile(ctx context.Context, profileID int64) ([]entity.Transaction, error)
}
