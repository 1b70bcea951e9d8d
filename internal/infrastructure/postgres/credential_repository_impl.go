package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/noxven/gestion-ie/internal/domain/entity"
)

type CredentialRepository struct {
	db DBTX
}

func NewCredentialRepository(db DBTX) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Create(ctx context.Context, c *entity.Credential) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO credentials (id, identity_id, provider_id, account_id, password_hash)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING created_at
	`, c.ID, c.IdentityID, c.ProviderID, c.AccountID, c.PasswordHash)
	return mapErr(row.Scan(&c.CreatedAt))
}

func (r *CredentialRepository) GetByProvider(ctx context.Context, providerID, accountID string) (*entity.Credential, error) {
	return r.scanOne(ctx, `
		SELECT id, identity_id, provider_id, account_id, COALESCE(password_hash, ''), created_at
		FROM credentials
		WHERE provider_id = $1 AND account_id = $2
	`, providerID, accountID)
}

func (r *CredentialRepository) GetByIdentity(ctx context.Context, identityID, providerID string) (*entity.Credential, error) {
	return r.scanOne(ctx, `
		SELECT id, identity_id, provider_id, account_id, COALESCE(password_hash, ''), created_at
		FROM credentials
		WHERE identity_id = $1 AND provider_id = $2
		ORDER BY created_at
		LIMIT 1
	`, identityID, providerID)
}

func (r *CredentialRepository) scanOne(ctx context.Context, sql string, args ...any) (*entity.Credential, error) {
	c := &entity.Credential{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(
		&c.ID, &c.IdentityID, &c.ProviderID, &c.AccountID, &c.PasswordHash, &c.CreatedAt,
	); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}
