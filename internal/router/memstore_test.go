package router

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

// memStore is a single-lock in-memory database for wiring tests. Units of
// work run against a copy that replaces the live tables on success.
type memStore struct {
	mu           sync.Mutex
	identities   map[string]entity.Identity
	credentials  []entity.Credential
	profiles     map[int64]entity.Profile
	roles        map[int64]entity.Role
	transactions []entity.Transaction
	seq          int64
}

func newMemStore() *memStore {
	return &memStore{
		identities: map[string]entity.Identity{},
		profiles:   map[int64]entity.Profile{},
		roles: map[int64]entity.Role{
			1: {ID: 1, Description: entity.RoleAdmin},
			2: {ID: 2, Description: entity.RoleUser},
		},
		seq: 2,
	}
}

func (m *memStore) copyTables() *memStore {
	c := &memStore{
		identities:   map[string]entity.Identity{},
		profiles:     map[int64]entity.Profile{},
		roles:        map[int64]entity.Role{},
		credentials:  append([]entity.Credential(nil), m.credentials...),
		transactions: append([]entity.Transaction(nil), m.transactions...),
		seq:          m.seq,
	}
	for k, v := range m.identities {
		c.identities[k] = v
	}
	for k, v := range m.profiles {
		c.profiles[k] = v
	}
	for k, v := range m.roles {
		c.roles[k] = v
	}
	return c
}

func (m *memStore) Repos() repository.Repos { return memRepos(m) }

func memRepos(m *memStore) repository.Repos {
	return repository.Repos{
		Identities:   memIdentities{m},
		Credentials:  memCredentials{m},
		Profiles:     memProfiles{m},
		Roles:        memRoles{m},
		Transactions: memTransactions{m},
	}
}

func (m *memStore) WithinTx(_ context.Context, fn func(tx repository.Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := m.copyTables()
	if err := fn(memRepos(tx)); err != nil {
		return err
	}
	m.identities, m.credentials, m.profiles = tx.identities, tx.credentials, tx.profiles
	m.roles, m.transactions, m.seq = tx.roles, tx.transactions, tx.seq
	return nil
}

func (m *memStore) next() int64 {
	m.seq++
	return m.seq
}

type memIdentities struct{ m *memStore }

func (r memIdentities) Create(_ context.Context, i *entity.Identity) error {
	i.Email = entity.NormalizeEmail(i.Email)
	for _, e := range r.m.identities {
		if e.Email == i.Email {
			return repository.ErrConflict
		}
	}
	i.ID = uuid.NewString()
	i.CreatedAt, i.UpdatedAt = time.Now(), time.Now()
	r.m.identities[i.ID] = *i
	return nil
}

func (r memIdentities) GetByID(_ context.Context, id string) (*entity.Identity, error) {
	if i, ok := r.m.identities[id]; ok {
		return &i, nil
	}
	return nil, repository.ErrNotFound
}

func (r memIdentities) GetByEmail(_ context.Context, email string) (*entity.Identity, error) {
	for _, i := range r.m.identities {
		if i.Email == entity.NormalizeEmail(email) {
			return &i, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memIdentities) UpdateNameAndRole(_ context.Context, email, name, role string) (*entity.Identity, error) {
	for id, i := range r.m.identities {
		if i.Email == entity.NormalizeEmail(email) {
			i.Name, i.Role = name, role
			r.m.identities[id] = i
			return &i, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memCredentials struct{ m *memStore }

func (r memCredentials) Create(_ context.Context, c *entity.Credential) error {
	for _, e := range r.m.credentials {
		if e.ProviderID == c.ProviderID && e.AccountID == c.AccountID {
			return repository.ErrConflict
		}
	}
	c.ID = uuid.NewString()
	r.m.credentials = append(r.m.credentials, *c)
	return nil
}

func (r memCredentials) GetByProvider(_ context.Context, providerID, accountID string) (*entity.Credential, error) {
	for _, c := range r.m.credentials {
		if c.ProviderID == providerID && c.AccountID == accountID {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCredentials) GetByIdentity(_ context.Context, identityID, providerID string) (*entity.Credential, error) {
	for _, c := range r.m.credentials {
		if c.IdentityID == identityID && c.ProviderID == providerID {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memProfiles struct{ m *memStore }

func (r memProfiles) Create(_ context.Context, p *entity.Profile) error {
	p.Email = entity.NormalizeEmail(p.Email)
	for _, e := range r.m.profiles {
		if e.Email == p.Email {
			return repository.ErrConflict
		}
	}
	role, ok := r.m.roles[p.RoleID]
	if !ok {
		return repository.ErrInvalidReference
	}
	p.ID, p.Role, p.CreatedAt = r.m.next(), role.Description, time.Now()
	r.m.profiles[p.ID] = *p
	return nil
}

func (r memProfiles) GetByID(_ context.Context, id int64) (*entity.Profile, error) {
	if p, ok := r.m.profiles[id]; ok {
		return &p, nil
	}
	return nil, repository.ErrNotFound
}

func (r memProfiles) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
	for _, p := range r.m.profiles {
		if p.Email == entity.NormalizeEmail(email) {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memProfiles) List(_ context.Context) ([]entity.Profile, error) {
	out := make([]entity.Profile, 0, len(r.m.profiles))
	for _, p := range r.m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memProfiles) Update(_ context.Context, p *entity.Profile) error {
	if _, ok := r.m.profiles[p.ID]; !ok {
		return repository.ErrNotFound
	}
	role, ok := r.m.roles[p.RoleID]
	if !ok {
		return repository.ErrInvalidReference
	}
	p.Role = role.Description
	r.m.profiles[p.ID] = *p
	return nil
}

type memRoles struct{ m *memStore }

func (r memRoles) Create(_ context.Context, role *entity.Role) error {
	role.ID = r.m.next()
	r.m.roles[role.ID] = *role
	return nil
}

func (r memRoles) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	if role, ok := r.m.roles[id]; ok {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}

func (r memRoles) GetByDescription(_ context.Context, d string) (*entity.Role, error) {
	for _, role := range r.m.roles {
		if role.Description == d {
			return &role, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memRoles) List(_ context.Context) ([]entity.Role, error) {
	out := make([]entity.Role, 0, len(r.m.roles))
	for _, role := range r.m.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memTransactions struct{ m *memStore }

func (r memTransactions) Create(_ context.Context, t *entity.Transaction) error {
	if _, ok := r.m.profiles[t.ProfileID]; !ok {
		return repository.ErrInvalidReference
	}
	t.ID = r.m.next()
	r.m.transactions = append(r.m.transactions, *t)
	return nil
}

func (r memTransactions) List(_ context.Context) ([]entity.Transaction, error) {
	out := append(make([]entity.Transaction, 0, len(r.m.transactions)), r.m.transactions...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memTransactions) ListByProfile(_ context.Context, profileID int64) ([]entity.Transaction, error) {
	p := r.m.profiles[profileID]
	out := []entity.Transaction{}
	for _, t := range r.m.transactions {
		if t.ProfileID == profileID {
			t.OwnerName, t.OwnerEmail = p.FullName, p.Email
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
