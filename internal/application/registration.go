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

type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
	RoleID   int64
}

// Registrar creates an identity, its password credential and its profile
// as one unit.
type Registrar struct {
	UoW        repository.UnitOfWork
	Identities repository.IdentityRepository
	Hasher     PasswordHasher
	Events     EventPublisher
	Logger     logrus.FieldLogger
}

// Register returns the new profile. The identity role tag is taken from the
// selected role so the pair agrees from the start.
func (r *Registrar) Register(ctx context.Context, in RegisterInput) (*entity.Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = entity.NormalizeEmail(in.Email)
	if in.FullName == "" || in.RoleID <= 0 || in.Email == "" || in.Password == "" {
		return nil, validationErr("nombrecompleto, rolid, email and password are required")
	}
	logger := r.log().WithFields(logrus.Fields{"op": "register", "email": in.Email})

	if _, err := r.Identities.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := r.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var profile *entity.Profile
	err = r.UoW.WithinTx(ctx, func(tx repository.Repos) error {
		role, err := tx.Roles.GetByID(ctx, in.RoleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return validationErr(fmt.Sprintf("unknown role id %d", in.RoleID))
			}
			return fmt.Errorf("load role: %w", err)
		}

		identity := &entity.Identity{Email: in.Email, Name: in.FullName, Role: role.Description}
		if err := tx.Identities.Create(ctx, identity); err != nil {
			return fmt.Errorf("create identity: %w", err)
		}
		cred := &entity.Credential{
			IdentityID:   identity.ID,
			ProviderID:   entity.ProviderCredential,
			AccountID:    in.Email,
			PasswordHash: hash,
		}
		if err := tx.Credentials.Create(ctx, cred); err != nil {
			return fmt.Errorf("create credential: %w", err)
		}
		p := &entity.Profile{
			FullName: in.FullName,
			Email:    in.Email,
			Phone:    strings.TrimSpace(in.Phone),
			RoleID:   role.ID,
			Role:     role.Description,
			Active:   true,
		}
		if err := tx.Profiles.Create(ctx, p); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		profile = p
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		if !errors.Is(err, ErrValidation) {
			logger.WithError(err).Error("register failed")
		}
		return nil, err
	}

	logger.WithField("profile_id", profile.ID).Info("account registered")
	publishEvent(ctx, r.Events, r.Logger, EventAccountRegistered, profile)
	return profile, nil
}

func (r *Registrar) log() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}
