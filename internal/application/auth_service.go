package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

const minPasswordLen = 8

// AuthService signs identities in and out. Every successful sign-in runs
// EnsureProfile before a session is issued.
type AuthService struct {
	UoW         repository.UnitOfWork
	Identities  repository.IdentityRepository
	Credentials repository.CredentialRepository
	Hasher      PasswordHasher
	Sessions    SessionIssuer
	Sync        *Synchronizer
	DefaultRole string
	Logger      logrus.FieldLogger
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type SignInResult struct {
	Token   string
	Session *entity.Session
	Profile *entity.Profile
}

// SignUp creates a password identity with the default role and signs it in.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*SignInResult, error) {
	in.Email = entity.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" {
		return nil, validationErr("email is required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, validationErr(fmt.Sprintf("password must be at least %d characters long", minPasswordLen))
	}

	if _, err := s.Identities.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	identity := &entity.Identity{Email: in.Email, Name: in.Name, Role: s.DefaultRole}
	err = s.UoW.WithinTx(ctx, func(tx repository.Repos) error {
		if err := tx.Identities.Create(ctx, identity); err != nil {
			return err
		}
		return tx.Credentials.Create(ctx, &entity.Credential{
			IdentityID:   identity.ID,
			ProviderID:   entity.ProviderCredential,
			AccountID:    in.Email,
			PasswordHash: hash,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}
	return s.complete(ctx, "sign_up", identity)
}

// SignIn verifies a password credential. Unknown emails and wrong passwords
// are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationErr("email and password are required")
	}
	identity, err := s.Identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}
	cred, err := s.Credentials.GetByIdentity(ctx, identity.ID, entity.ProviderCredential)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if cred.PasswordHash == "" || !s.Hasher.Compare(cred.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.complete(ctx, "sign_in", identity)
}

// SignInExternal signs in through an external provider, linking the
// provider account to an existing identity with the same email or creating
// a new identity with the default role.
func (s *AuthService) SignInExternal(ctx context.Context, acct entity.ExternalAccount) (*SignInResult, error) {
	acct.Email = entity.NormalizeEmail(acct.Email)
	if acct.ProviderID == "" || acct.AccountID == "" {
		return nil, validationErr("provider account is required")
	}

	cred, err := s.Credentials.GetByProvider(ctx, acct.ProviderID, acct.AccountID)
	switch {
	case err == nil:
		identity, err := s.Identities.GetByID(ctx, cred.IdentityID)
		if err != nil {
			return nil, fmt.Errorf("load identity: %w", err)
		}
		return s.complete(ctx, "sign_in_external", identity)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("load credential: %w", err)
	}

	if acct.Email == "" {
		return nil, validationErr("provider did not return a verified email")
	}

	var identity *entity.Identity
	err = s.UoW.WithinTx(ctx, func(tx repository.Repos) error {
		existing, err := tx.Identities.GetByEmail(ctx, acct.Email)
		switch {
		case err == nil:
			identity = existing
		case errors.Is(err, repository.ErrNotFound):
			identity = &entity.Identity{
				Email:         acct.Email,
				Name:          strings.TrimSpace(acct.Name),
				Role:          s.DefaultRole,
				EmailVerified: acct.EmailVerified,
			}
			if err := tx.Identities.Create(ctx, identity); err != nil {
				return err
			}
		default:
			return err
		}
		return tx.Credentials.Create(ctx, &entity.Credential{
			IdentityID: identity.ID,
			ProviderID: acct.ProviderID,
			AccountID:  acct.AccountID,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("link %s account: %w", acct.ProviderID, err)
	}
	return s.complete(ctx, "sign_in_external", identity)
}

func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.Revoke(ctx, sessionID)
}

// complete is the post-authentication hook: bootstrap the profile, bring
// the identity role tag in line with it, then issue the session.
func (s *AuthService) complete(ctx context.Context, op string, identity *entity.Identity) (*SignInResult, error) {
	logger := s.log().WithFields(logrus.Fields{"op": op, "email": identity.Email})

	profile, err := s.Sync.EnsureProfile(ctx, identity)
	if err != nil {
		logger.WithError(err).Error("ensure profile failed")
		return nil, err
	}
	identity, err = s.Sync.AlignIdentity(ctx, identity, profile)
	if err != nil {
		logger.WithError(err).Error("align identity failed")
		return nil, err
	}

	token, sess, err := s.Sessions.Issue(ctx, identity)
	if err != nil {
		logger.WithError(err).Error("issue session failed")
		return nil, fmt.Errorf("issue session: %w", err)
	}
	logger.Info("signed in")
	return &SignInResult{Token: token, Session: sess, Profile: profile}, nil
}

func (s *AuthService) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
