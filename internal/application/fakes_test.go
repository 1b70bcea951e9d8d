package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

// memState is a snapshot of every table. Transactions work on a clone and
// swap it in on commit, so a failed unit of work leaves nothing behind.
type memState struct {
	identities   map[string]entity.Identity
	credentials  []entity.Credential
	profiles     map[int64]entity.Profile
	roles        map[int64]entity.Role
	transactions []entity.Transaction
	nextProfile  int64
	nextRole     int64
	nextTx       int64
}

func newMemState() *memState {
	return &memState{
		identities: map[string]entity.Identity{},
		profiles:   map[int64]entity.Profile{},
		roles:      map[int64]entity.Role{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.identities {
		c.identities[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.roles {
		c.roles[k] = v
	}
	c.credentials = append(c.credentials, s.credentials...)
	c.transactions = append(c.transactions, s.transactions...)
	c.nextProfile, c.nextRole, c.nextTx = s.nextProfile, s.nextRole, s.nextTx
	return c
}

type memDB struct {
	mu sync.Mutex
	st *memState

	// hooks for failure injection
	beforeProfileCreate func(st *memState)
	profileGetErr       error
	commits             int
	rollbacks           int
}

func newMemDB() *memDB {
	return &memDB{st: newMemState()}
}

// seedRoles inserts ADMIN=1 and USER=2.
func (db *memDB) seedRoles() *memDB {
	db.st.roles[1] = entity.Role{ID: 1, Description: entity.RoleAdmin}
	db.st.roles[2] = entity.Role{ID: 2, Description: entity.RoleUser}
	db.st.nextRole = 2
	return db
}

func (db *memDB) Repos() repository.Repos {
	return db.reposFor(nil)
}

func (db *memDB) reposFor(tx *memState) repository.Repos {
	r := memRepo{db: db, tx: tx}
	return repository.Repos{
		Identities:   memIdentities{r},
		Credentials:  memCredentials{r},
		Profiles:     memProfiles{r},
		Roles:        memRoles{r},
		Transactions: memTransactions{r},
	}
}

func (db *memDB) WithinTx(ctx context.Context, fn func(tx repository.Repos) error) error {
	db.mu.Lock()
	tx := db.st.clone()
	db.mu.Unlock()
	if err := fn(db.reposFor(tx)); err != nil {
		db.rollbacks++
		return err
	}
	db.mu.Lock()
	db.st = tx
	db.commits++
	db.mu.Unlock()
	return nil
}

func (db *memDB) identityByEmail(email string) (entity.Identity, bool) {
	for _, i := range db.st.identities {
		if i.Email == entity.NormalizeEmail(email) {
			return i, true
		}
	}
	return entity.Identity{}, false
}

func (db *memDB) profileByEmail(email string) (entity.Profile, bool) {
	for _, p := range db.st.profiles {
		if p.Email == entity.NormalizeEmail(email) {
			return p, true
		}
	}
	return entity.Profile{}, false
}

func (db *memDB) credentialsFor(identityID string) []entity.Credential {
	var out []entity.Credential
	for _, c := range db.st.credentials {
		if c.IdentityID == identityID {
			out = append(out, c)
		}
	}
	return out
}

type memRepo struct {
	db *memDB
	tx *memState
}

func (r memRepo) st() *memState {
	if r.tx != nil {
		return r.tx
	}
	return r.db.st
}

type memIdentities struct{ memRepo }

func (r memIdentities) Create(_ context.Context, i *entity.Identity) error {
	st := r.st()
	i.Email = entity.NormalizeEmail(i.Email)
	for _, existing := range st.identities {
		if existing.Email == i.Email {
			return repository.ErrConflict
		}
	}
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	i.CreatedAt, i.UpdatedAt = time.Now(), time.Now()
	st.identities[i.ID] = *i
	return nil
}

func (r memIdentities) GetByID(_ context.Context, id string) (*entity.Identity, error) {
	i, ok := r.st().identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &i, nil
}

func (r memIdentities) GetByEmail(_ context.Context, email string) (*entity.Identity, error) {
	for _, i := range r.st().identities {
		if i.Email == entity.NormalizeEmail(email) {
			i := i
			return &i, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memIdentities) UpdateNameAndRole(_ context.Context, email, name, role string) (*entity.Identity, error) {
	st := r.st()
	for id, i := range st.identities {
		if i.Email == entity.NormalizeEmail(email) {
			i.Name, i.Role, i.UpdatedAt = name, role, time.Now()
			st.identities[id] = i
			return &i, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memCredentials struct{ memRepo }

func (r memCredentials) Create(_ context.Context, c *entity.Credential) error {
	st := r.st()
	if _, ok := st.identities[c.IdentityID]; !ok {
		return repository.ErrInvalidReference
	}
	for _, existing := range st.credentials {
		if existing.ProviderID == c.ProviderID && existing.AccountID == c.AccountID {
			return repository.ErrConflict
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	st.credentials = append(st.credentials, *c)
	return nil
}

func (r memCredentials) GetByProvider(_ context.Context, providerID, accountID string) (*entity.Credential, error) {
	for _, c := range r.st().credentials {
		if c.ProviderID == providerID && c.AccountID == accountID {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCredentials) GetByIdentity(_ context.Context, identityID, providerID string) (*entity.Credential, error) {
	for _, c := range r.st().credentials {
		if c.IdentityID == identityID && c.ProviderID == providerID {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memProfiles struct{ memRepo }

func (r memProfiles) Create(_ context.Context, p *entity.Profile) error {
	if r.db.beforeProfileCreate != nil {
		hook := r.db.beforeProfileCreate
		r.db.beforeProfileCreate = nil
		hook(r.st())
	}
	st := r.st()
	p.Email = entity.NormalizeEmail(p.Email)
	for _, existing := range st.profiles {
		if existing.Email == p.Email {
			return repository.ErrConflict
		}
	}
	role, ok := st.roles[p.RoleID]
	if !ok {
		return repository.ErrInvalidReference
	}
	st.nextProfile++
	p.ID = st.nextProfile
	p.Role = role.Description
	p.CreatedAt = time.Now().Add(time.Duration(p.ID) * time.Millisecond)
	st.profiles[p.ID] = *p
	return nil
}

func (r memProfiles) GetByID(_ context.Context, id int64) (*entity.Profile, error) {
	p, ok := r.st().profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memProfiles) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
	if r.db.profileGetErr != nil {
		return nil, r.db.profileGetErr
	}
	for _, p := range r.st().profiles {
		if p.Email == entity.NormalizeEmail(email) {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memProfiles) List(_ context.Context) ([]entity.Profile, error) {
	out := make([]entity.Profile, 0, len(r.st().profiles))
	for _, p := range r.st().profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memProfiles) Update(_ context.Context, p *entity.Profile) error {
	st := r.st()
	if _, ok := st.profiles[p.ID]; !ok {
		return repository.ErrNotFound
	}
	role, ok := st.roles[p.RoleID]
	if !ok {
		return repository.ErrInvalidReference
	}
	p.Role = role.Description
	st.profiles[p.ID] = *p
	return nil
}

type memRoles struct{ memRepo }

func (r memRoles) Create(_ context.Context, role *entity.Role) error {
	st := r.st()
	for _, existing := range st.roles {
		if existing.Description == role.Description {
			return repository.ErrConflict
		}
	}
	st.nextRole++
	role.ID = st.nextRole
	st.roles[role.ID] = *role
	return nil
}

func (r memRoles) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	role, ok := r.st().roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &role, nil
}

func (r memRoles) GetByDescription(_ context.Context, description string) (*entity.Role, error) {
	for _, role := range r.st().roles {
		if role.Description == description {
			role := role
			return &role, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memRoles) List(_ context.Context) ([]entity.Role, error) {
	out := make([]entity.Role, 0, len(r.st().roles))
	for _, role := range r.st().roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memTransactions struct{ memRepo }

func (r memTransactions) Create(_ context.Context, t *entity.Transaction) error {
	st := r.st()
	if _, ok := st.profiles[t.ProfileID]; !ok {
		return repository.ErrInvalidReference
	}
	st.nextTx++
	t.ID = st.nextTx
	st.transactions = append(st.transactions, *t)
	return nil
}

func (r memTransactions) List(_ context.Context) ([]entity.Transaction, error) {
	out := append([]entity.Transaction(nil), r.st().transactions...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r memTransactions) ListByProfile(_ context.Context, profileID int64) ([]entity.Transaction, error) {
	st := r.st()
	p := st.profiles[profileID]
	var out []entity.Transaction
	for _, t := range st.transactions {
		if t.ProfileID == profileID {
			t.OwnerName, t.OwnerEmail = p.FullName, p.Email
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// fakeHasher marks secrets instead of hashing them.
type fakeHasher struct{ err error }

func (h fakeHasher) Hash(secret string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + secret, nil
}

func (h fakeHasher) Compare(hash, secret string) bool {
	return hash == "hashed:"+secret
}

type fakeSessions struct {
	verify    *entity.Session
	verifyErr error
	issued    []entity.Identity
	revoked   []string
	synced    []entity.Identity
}

func (f *fakeSessions) Verify(context.Context, map[string]string) (*entity.Session, error) {
	return f.verify, f.verifyErr
}

func (f *fakeSessions) Issue(_ context.Context, i *entity.Identity) (string, *entity.Session, error) {
	f.issued = append(f.issued, *i)
	return "token-" + i.ID, &entity.Session{
		Authenticated: true,
		ID:            "sid-" + i.ID,
		IdentityID:    i.ID,
		Email:         i.Email,
		Name:          i.Name,
		Role:          i.Role,
		ExpiresAt:     time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeSessions) Revoke(_ context.Context, sid string) error {
	f.revoked = append(f.revoked, sid)
	return nil
}

func (f *fakeSessions) SyncIdentity(_ context.Context, i *entity.Identity) error {
	f.synced = append(f.synced, *i)
	return nil
}

type fakePublisher struct {
	types []string
	err   error
}

func (p *fakePublisher) PublishJSON(_ context.Context, msgType string, _ any) error {
	p.types = append(p.types, msgType)
	return p.err
}

type fakeSearcher struct {
	result []entity.Profile
	err    error
	query  string
}

func (s *fakeSearcher) Search(_ context.Context, q string, _ int) ([]entity.Profile, error) {
	s.query = q
	return s.result, s.err
}

var errStoreDown = errors.New("store down")

func session(email string) *entity.Session {
	return &entity.Session{Authenticated: true, IdentityID: "id-" + strings.Split(email, "@")[0], Email: email}
}
