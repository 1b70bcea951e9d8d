package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

type countingRoles struct {
	roles []entity.Role
	calls int
}

func (c *countingRoles) Create(_ context.Context, r *entity.Role) error {
	r.ID = int64(len(c.roles) + 1)
	c.roles = append(c.roles, *r)
	return nil
}

func (c *countingRoles) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	c.calls++
	for _, r := range c.roles {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (c *countingRoles) GetByDescription(_ context.Context, d string) (*entity.Role, error) {
	c.calls++
	for _, r := range c.roles {
		if r.Description == d {
			r := r
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (c *countingRoles) List(context.Context) ([]entity.Role, error) {
	c.calls++
	return append([]entity.Role(nil), c.roles...), nil
}

func TestRoleRepository_CachesLookups(t *testing.T) {
	next := &countingRoles{roles: []entity.Role{{ID: 1, Description: "ADMIN"}, {ID: 2, Description: "USER"}}}
	r := NewRoleRepository(next, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		role, err := r.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "USER", role.Description)
	}
	assert.Equal(t, 1, next.calls)

	role, err := r.GetByDescription(ctx, "USER")
	require.NoError(t, err)
	assert.Equal(t, int64(2), role.ID)
	assert.Equal(t, 1, next.calls)
}

func TestRoleRepository_MissesAreNotCached(t *testing.T) {
	next := &countingRoles{}
	r := NewRoleRepository(next, time.Minute)
	ctx := context.Background()

	_, err := r.GetByDescription(ctx, "ADMIN")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, r.Create(ctx, &entity.Role{Description: "ADMIN"}))
	role, err := r.GetByDescription(ctx, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, int64(1), role.ID)
}

func TestRoleRepository_ListPopulatesCache(t *testing.T) {
	next := &countingRoles{roles: []entity.Role{{ID: 1, Description: "ADMIN"}}}
	r := NewRoleRepository(next, time.Minute)
	ctx := context.Background()

	roles, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
	_, err = r.List(ctx)
	require.NoError(t, err)
	_, err = r.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	require.NoError(t, r.Create(ctx, &entity.Role{Description: "USER"}))
	roles, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}
