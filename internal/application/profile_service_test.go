package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noxven/gestion-ie/internal/domain/entity"
)

func newProfileService(db *memDB) (*ProfileService, *fakePublisher) {
	pub := &fakePublisher{}
	repos := db.Repos()
	return &ProfileService{Profiles: repos.Profiles, Roles: repos.Roles, Events: pub}, pub
}

func TestProfileService_Create(t *testing.T) {
	db := newMemDB().seedRoles()
	s, pub := newProfileService(db)
	ctx := context.Background()

	p, err := s.Create(ctx, CreateProfileInput{FullName: "Ana", Email: "ANA@x.com", Phone: "555", RoleID: 2})
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", p.Email)
	assert.Equal(t, entity.RoleUser, p.Role)
	assert.Equal(t, []string{EventProfileCreated}, pub.types)

	_, err = s.Create(ctx, CreateProfileInput{FullName: "Ana", Email: "ana@x.com", Phone: "555", RoleID: 2})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = s.Create(ctx, CreateProfileInput{FullName: "Ana", Email: "b@x.com", RoleID: 2})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Create(ctx, CreateProfileInput{FullName: "Ana", Email: "b@x.com", Phone: "1", RoleID: 77})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProfileService_ListNewestFirst(t *testing.T) {
	db := newMemDB().seedRoles()
	s, _ := newProfileService(db)
	addProfile(t, db, "Old", "old@x.com", 2)
	addProfile(t, db, "New", "new@x.com", 2)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "New", list[0].FullName)
}

func TestProfileService_Search(t *testing.T) {
	db := newMemDB().seedRoles()
	s, _ := newProfileService(db)
	addProfile(t, db, "Ana Lopez", "ana@x.com", 2)
	addProfile(t, db, "Bruno", "bruno@y.com", 2)
	ctx := context.Background()

	res, err := s.Search(ctx, "lopez")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "ana@x.com", res[0].Email)

	searcher := &fakeSearcher{result: []entity.Profile{{ID: 9, FullName: "From Index"}}}
	s.Searcher = searcher
	res, err = s.Search(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, "index", searcher.query)
	assert.Equal(t, "From Index", res[0].FullName)

	searcher.err = errStoreDown
	res, err = s.Search(ctx, "y.com")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Bruno", res[0].FullName)
}

func TestTransactionService(t *testing.T) {
	db := newMemDB().seedRoles()
	p := addProfile(t, db, "Ana", "ana@x.com", 2)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := &TransactionService{Transactions: db.Repos().Transactions, Profiles: db.Repos().Profiles, Now: func() time.Time { return now }}
	ctx := context.Background()

	tx, err := s.Create(ctx, CreateTransactionInput{Amount: 100, Type: entity.TransactionIncome, ProfileID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, now, tx.Date)

	earlier := now.Add(-48 * time.Hour)
	_, err = s.Create(ctx, CreateTransactionInput{Amount: 40, Type: entity.TransactionExpense, ProfileID: p.ID, Date: &earlier})
	require.NoError(t, err)

	list, err := s.ListByProfile(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(100), list[0].Amount)
	assert.Equal(t, "Ana", list[0].OwnerName)
	assert.Equal(t, "ana@x.com", list[1].OwnerEmail)

	_, err = s.ListByProfile(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Create(ctx, CreateTransactionInput{Amount: 0, Type: entity.TransactionIncome, ProfileID: p.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Create(ctx, CreateTransactionInput{Amount: 5, Type: "transfer", ProfileID: p.ID})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Create(ctx, CreateTransactionInput{Amount: 5, Type: entity.TransactionExpense, ProfileID: 999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactionService_DefaultsOwnerToCaller(t *testing.T) {
	db := newMemDB().seedRoles()
	p := addProfile(t, db, "Ana", "ana@x.com", 2)
	s := &TransactionService{Transactions: db.Repos().Transactions, Profiles: db.Repos().Profiles}

	_, err := s.Create(context.Background(), CreateTransactionInput{Amount: 10, Type: entity.TransactionExpense})
	assert.ErrorIs(t, err, ErrValidation)

	ctx := WithPrincipal(context.Background(), &Principal{
		Session: &entity.Session{Authenticated: true, Email: p.Email},
		Profile: p,
	})
	tx, err := s.Create(ctx, CreateTransactionInput{Amount: 10, Type: entity.TransactionExpense, Concept: "  Renta  "})
	require.NoError(t, err)
	assert.Equal(t, p.ID, tx.ProfileID)
	require.NotNil(t, tx.Concept)
	assert.Equal(t, "Renta", *tx.Concept)

	tx, err = s.Create(ctx, CreateTransactionInput{Amount: 10, Type: entity.TransactionIncome, Concept: " "})
	require.NoError(t, err)
	assert.Nil(t, tx.Concept)
}
