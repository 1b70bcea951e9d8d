package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

type IdentityRepository struct {
	db DBTX
}

func NewIdentityRepository(db DBTX) *IdentityRepository {
	return &IdentityRepository{db: db}
}

const identityColumns = `id, email, COALESCE(name, ''), role, email_verified, created_at, updated_at`

func (r *IdentityRepository) Create(ctx context.Context, i *entity.Identity) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	i.Email = entity.NormalizeEmail(i.Email)
	row := r.db.QueryRow(ctx, `
		INSERT INTO identities (id, email, name, role, email_verified)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING created_at, updated_at
	`, i.ID, i.Email, i.Name, i.Role, i.EmailVerified)
	return mapErr(row.Scan(&i.CreatedAt, &i.UpdatedAt))
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return r.scanOne(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return r.scanOne(ctx, `SELECT `+identityColumns+` FROM identities WHERE lower(email) = $1`, entity.NormalizeEmail(email))
}

func (r *IdentityRepository) UpdateNameAndRole(ctx context.Context, email, name, role string) (*entity.Identity, error) {
	return r.scanOne(ctx, `
		UPDATE identities
		SET name = NULLIF($2, ''), role = $3, updated_at = NOW()
		WHERE lower(email) = $1
		RETURNING `+identityColumns, entity.NormalizeEmail(email), name, role)
}

func (r *IdentityRepository) scanOne(ctx context.Context, sql string, args ...any) (*entity.Identity, error) {
	i := &entity.Identity{}
	err := r.db.QueryRow(ctx, sql, args...).Scan(
		&i.ID, &i.Email, &i.Name, &i.Role, &i.EmailVerified, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return i, nil
}
