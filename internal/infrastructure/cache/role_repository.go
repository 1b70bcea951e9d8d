package cache

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

const listKey = "list"

// RoleRepository caches role lookups in process. Roles change rarely and
// only through Create, which invalidates the cache.
type RoleRepository struct {
	next  repository.RoleRepository
	cache *gocache.Cache
}

func NewRoleRepository(next repository.RoleRepository, ttl time.Duration) *RoleRepository {
	return &RoleRepository{next: next, cache: gocache.New(ttl, 2*ttl)}
}

func (r *RoleRepository) Create(ctx context.Context, role *entity.Role) error {
	if err := r.next.Create(ctx, role); err != nil {
		return err
	}
	r.cache.Flush()
	return nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*entity.Role, error) {
	key := "id:" + strconv.FormatInt(id, 10)
	if v, ok := r.cache.Get(key); ok {
		role := v.(entity.Role)
		return &role, nil
	}
	role, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(*role)
	return role, nil
}

func (r *RoleRepository) GetByDescription(ctx context.Context, description string) (*entity.Role, error) {
	if v, ok := r.cache.Get("desc:" + description); ok {
		role := v.(entity.Role)
		return &role, nil
	}
	role, err := r.next.GetByDescription(ctx, description)
	if err != nil {
		return nil, err
	}
	r.store(*role)
	return role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]entity.Role, error) {
	if v, ok := r.cache.Get(listKey); ok {
		return append([]entity.Role(nil), v.([]entity.Role)...), nil
	}
	roles, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(listKey, append([]entity.Role(nil), roles...))
	for _, role := range roles {
		r.store(role)
	}
	return roles, nil
}

func (r *RoleRepository) store(role entity.Role) {
	r.cache.SetDefault("id:"+strconv.FormatInt(role.ID, 10), role)
	r.cache.SetDefault("desc:"+role.Description, role)
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
