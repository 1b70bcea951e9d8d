package repository

import "context"

// Repos groups repositories that share one connection or transaction.
type Repos struct {
	Identities   IdentityRepository
	Credentials  CredentialRepository
	Profiles     ProfileRepository
	Roles        RoleRepository
	Transactions TransactionRepository
}

// UnitOfWork runs fn inside a single transaction. The transaction commits
// only when fn returns nil; any error rolls back every write made through
// the supplied Repos.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx Repos) error) error
}
