package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/noxven/gestion-ie/internal/domain/entity"
)

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO transactions (amount, type, concept, date, profile_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, t.Amount, t.Type, t.Concept, t.Date, t.ProfileID)
	return mapErr(row.Scan(&t.ID))
}

func (r *TransactionRepository) List(ctx context.Context) ([]entity.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount, type, concept, date, profile_id
		FROM transactions
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Transaction, error) {
		var t entity.Transaction
		err := row.Scan(&t.ID, &t.Amount, &t.Type, &t.Concept, &t.Date, &t.ProfileID)
		return t, err
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *TransactionRepository) ListByProfile(ctx context.Context, profileID int64) ([]entity.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.amount, t.type, t.concept, t.date, t.profile_id, p.full_name, p.email
		FROM transactions t
		JOIN profiles p ON p.id = t.profile_id
		WHERE t.profile_id = $1
		ORDER BY t.date DESC, t.id DESC
	`, profileID)
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Transaction, error) {
		var t entity.Transaction
		err := row.Scan(&t.ID, &t.Amount, &t.Type, &t.Concept, &t.Date, &t.ProfileID, &t.OwnerName, &t.OwnerEmail)
		return t, err
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
