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

// Synchronizer keeps the identity and profile for an email in agreement.
// It is the only writer of the identity role tag outside registration.
type Synchronizer struct {
	UoW         repository.UnitOfWork
	Profiles    repository.ProfileRepository
	Roles       repository.RoleRepository
	DefaultRole string
	Sessions    SessionIssuer
	Events      EventPublisher
	Logger      logrus.FieldLogger
}

type UpdateProfileInput struct {
	FullName string
	RoleID   int64
}

// EnsureProfile returns the profile paired with identity, creating it with
// the default role on first sight. Safe to call repeatedly.
func (s *Synchronizer) EnsureProfile(ctx context.Context, identity *entity.Identity) (*entity.Profile, error) {
	if identity == nil || strings.TrimSpace(identity.Email) == "" {
		return nil, validationErr("identity email is required")
	}
	email := entity.NormalizeEmail(identity.Email)

	p, err := s.Profiles.GetByEmail(ctx, email)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	role, err := s.defaultRole(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = entity.DefaultProfileName
	}
	p = &entity.Profile{
		FullName: name,
		Email:    email,
		RoleID:   role.ID,
		Active:   true,
	}
	if err := s.Profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// lost a concurrent first sign-in; the other insert won
			return s.Profiles.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	if p.Role == "" {
		p.Role = role.Description
	}
	s.log().WithFields(logrus.Fields{"op": "ensure_profile", "email": email, "profile_id": p.ID}).Info("profile created")
	publishEvent(ctx, s.Events, s.Logger, EventProfileCreated, p)
	return p, nil
}

func (s *Synchronizer) defaultRole(ctx context.Context) (*entity.Role, error) {
	if s.DefaultRole == "" {
		return nil, errors.New("default role is not configured")
	}
	role, err := s.Roles.GetByDescription(ctx, s.DefaultRole)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load default role: %w", err)
	}
	role = &entity.Role{Description: s.DefaultRole}
	if err := s.Roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return s.Roles.GetByDescription(ctx, s.DefaultRole)
		}
		return nil, fmt.Errorf("create default role: %w", err)
	}
	return role, nil
}

// UpdateProfile changes a profile's name and role and mirrors both onto the
// identity with the same email in one transaction.
func (s *Synchronizer) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*entity.Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" || in.RoleID <= 0 {
		return nil, validationErr("nombrecompleto and rolid are required")
	}

	var (
		updated  *entity.Profile
		identity *entity.Identity
	)
	err := s.UoW.WithinTx(ctx, func(tx repository.Repos) error {
		p, err := tx.Profiles.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFoundErr("profile")
			}
			return fmt.Errorf("load profile: %w", err)
		}
		role, err := tx.Roles.GetByID(ctx, in.RoleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return validationErr(fmt.Sprintf("unknown role id %d", in.RoleID))
			}
			return fmt.Errorf("load role: %w", err)
		}

		p.FullName = in.FullName
		p.RoleID = role.ID
		p.Role = role.Description
		if err := tx.Profiles.Update(ctx, p); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFoundErr("profile")
			}
			return fmt.Errorf("update profile: %w", err)
		}

		identity, err = tx.Identities.UpdateNameAndRole(ctx, p.Email, p.FullName, role.Description)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrIdentityNotFound
			}
			return fmt.Errorf("update identity: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		s.log().WithError(err).WithFields(logrus.Fields{"op": "update_profile", "profile_id": id}).Warn("update profile failed")
		return nil, err
	}

	if s.Sessions != nil {
		if err := s.Sessions.SyncIdentity(ctx, identity); err != nil {
			s.log().WithError(err).WithFields(logrus.Fields{"op": "update_profile", "email": identity.Email}).Warn("refresh live sessions failed")
		}
	}
	publishEvent(ctx, s.Events, s.Logger, EventProfileUpdated, updated)
	return updated, nil
}

// AlignIdentity copies the profile role onto the identity's role tag when
// the two disagree and refreshes the identity's live sessions.
func (s *Synchronizer) AlignIdentity(ctx context.Context, identity *entity.Identity, profile *entity.Profile) (*entity.Identity, error) {
	if identity.Role == profile.Role {
		return identity, nil
	}
	var synced *entity.Identity
	err := s.UoW.WithinTx(ctx, func(tx repository.Repos) error {
		var err error
		synced, err = tx.Identities.UpdateNameAndRole(ctx, identity.Email, identity.Name, profile.Role)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrIdentityNotFound
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("align identity role: %w", err)
	}

	if s.Sessions != nil {
		if err := s.Sessions.SyncIdentity(ctx, synced); err != nil {
			s.log().WithError(err).WithFields(logrus.Fields{"op": "align_identity", "email": synced.Email}).Warn("refresh live sessions failed")
		}
	}
	return synced, nil
}

func (s *Synchronizer) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
