package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noxven/gestion-ie/internal/domain/repository"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so repositories can run
// standalone or inside a unit of work.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store hands out pool-backed repositories and runs transactional units of work.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Repos returns repositories that run each statement on the pool.
func (s *Store) Repos() repository.Repos {
	return reposFor(s.pool)
}

// WithinTx runs fn in a transaction; pgx rolls back when fn returns an error.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Repos) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(reposFor(tx))
	})
}

func reposFor(db DBTX) repository.Repos {
	return repository.Repos{
		Identities:   NewIdentityRepository(db),
		Credentials:  NewCredentialRepository(db),
		Profiles:     NewProfileRepository(db),
		Roles:        NewRoleRepository(db),
		Transactions: NewTransactionRepository(db),
	}
}

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return errors.Join(repository.ErrConflict, err)
		case "23503":
			return errors.Join(repository.ErrInvalidReference, err)
		}
	}
	return err
}

var _ repository.UnitOfWork = (*Store)(nil)
