package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileSelect = `
	SELECT p.id, p.full_name, p.email, COALESCE(p.phone, ''), p.role_id, r.description, p.active, p.created_at
	FROM profiles p
	JOIN roles r ON r.id = p.role_id`

func (r *ProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	p.Email = entity.NormalizeEmail(p.Email)
	row := r.db.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO profiles (full_name, email, phone, role_id, active)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5)
			RETURNING id, role_id, created_at
		)
		SELECT ins.id, ins.created_at, r.description
		FROM ins JOIN roles r ON r.id = ins.role_id
	`, p.FullName, p.Email, p.Phone, p.RoleID, p.Active)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.Role))
}

func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*entity.Profile, error) {
	return r.scanOne(ctx, profileSelect+` WHERE p.id = $1`, id)
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	return r.scanOne(ctx, profileSelect+` WHERE lower(p.email) = $1`, entity.NormalizeEmail(email))
}

func (r *ProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	rows, err := r.db.Query(ctx, profileSelect+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := pgx.CollectRows(rows, scanProfile)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *entity.Profile) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET full_name = $2, phone = NULLIF($3, ''), role_id = $4, active = $5
		WHERE id = $1
	`, p.ID, p.FullName, p.Phone, p.RoleID, p.Active)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) scanOne(ctx context.Context, sql string, args ...any) (*entity.Profile, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProfile)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func scanProfile(row pgx.CollectableRow) (entity.Profile, error) {
	var p entity.Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.RoleID, &p.Role, &p.Active, &p.CreatedAt)
	return p, err
}
