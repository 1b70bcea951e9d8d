package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/noxven/gestion-ie/internal/domain/entity"
)

type RoleRepository struct {
	db DBTX
}

func NewRoleRepository(db DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *entity.Role) error {
	row := r.db.QueryRow(ctx, `INSERT INTO roles (description) VALUES ($1) RETURNING id`, role.Description)
	return mapErr(row.Scan(&role.ID))
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*entity.Role, error) {
	role := &entity.Role{}
	err := r.db.QueryRow(ctx, `SELECT id, description FROM roles WHERE id = $1`, id).Scan(&role.ID, &role.Description)
	if err != nil {
		return nil, mapErr(err)
	}
	return role, nil
}

func (r *RoleRepository) GetByDescription(ctx context.Context, description string) (*entity.Role, error) {
	role := &entity.Role{}
	err := r.db.QueryRow(ctx, `SELECT id, description FROM roles WHERE description = $1`, description).Scan(&role.ID, &role.Description)
	if err != nil {
		return nil, mapErr(err)
	}
	return role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]entity.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, description FROM roles ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entity.Role])
	if err != nil {
		return nil, mapErr(err)
	}
	return roles, nil
}
