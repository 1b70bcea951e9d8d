package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

// Runs against a real database when RUN_DB_INTEGRATION=true, using
// TEST_DATABASE_URL (migrations are applied first).
func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run postgres integration tests")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	require.NotEmpty(t, dsn, "TEST_DATABASE_URL is required")

	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "migrations")
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	require.NoError(t, RunMigrations(dsn, dir, logger))

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, "gestion-ie-test", 4, 1, time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewStore(pool)
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()
	email := uniqueEmail("rollback")
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx repository.Repos) error {
		require.NoError(t, tx.Identities.Create(ctx, &entity.Identity{Email: email, Role: entity.RoleUser}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Repos().Identities.GetByEmail(ctx, email)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_IdentityAndProfileRoundTrip(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()
	repos := s.Repos()
	email := uniqueEmail("round")

	role, err := repos.Roles.GetByDescription(ctx, entity.RoleUser)
	require.NoError(t, err)

	ident := &entity.Identity{Email: email, Name: "Ana", Role: entity.RoleAdmin}
	require.NoError(t, repos.Identities.Create(ctx, ident))
	err = repos.Identities.Create(ctx, &entity.Identity{Email: email, Role: entity.RoleUser})
	assert.ErrorIs(t, err, repository.ErrConflict)

	p := &entity.Profile{FullName: "Ana", Email: email, RoleID: role.ID, Active: true}
	require.NoError(t, repos.Profiles.Create(ctx, p))
	assert.Equal(t, entity.RoleUser, p.Role)

	p.FullName = "Ana Maria"
	require.NoError(t, repos.Profiles.Update(ctx, p))
	got, err := repos.Profiles.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.FullName)

	updated, err := repos.Identities.UpdateNameAndRole(ctx, email, "Ana Maria", entity.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, updated.Role)

	_, err = repos.Identities.UpdateNameAndRole(ctx, uniqueEmail("missing"), "x", entity.RoleUser)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tx := &entity.Transaction{Amount: 250, Type: entity.TransactionIncome, Date: time.Now(), ProfileID: p.ID}
	require.NoError(t, repos.Transactions.Create(ctx, tx))
	list, err := repos.Transactions.ListByProfile(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, email, list[0].OwnerEmail)

	err = repos.Transactions.Create(ctx, &entity.Transaction{Amount: 1, Type: entity.TransactionIncome, Date: time.Now(), ProfileID: -1})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
}
