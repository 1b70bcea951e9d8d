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

const defaultSearchLimit = 20

type ProfileService struct {
	Profiles repository.ProfileRepository
	Roles    repository.RoleRepository
	Searcher ProfileSearcher
	Events   EventPublisher
	Logger   logrus.FieldLogger
}

type CreateProfileInput struct {
	FullName string
	Email    string
	Phone    string
	RoleID   int64
}

// List returns every profile, newest first.
func (s *ProfileService) List(ctx context.Context) ([]entity.Profile, error) {
	return s.Profiles.List(ctx)
}

func (s *ProfileService) Create(ctx context.Context, in CreateProfileInput) (*entity.Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = entity.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.FullName == "" || in.RoleID <= 0 || in.Email == "" || in.Phone == "" {
		return nil, validationErr("nombrecompleto, rolid, email and telefono are required")
	}
	role, err := s.Roles.GetByID(ctx, in.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationErr(fmt.Sprintf("unknown role id %d", in.RoleID))
		}
		return nil, fmt.Errorf("load role: %w", err)
	}

	p := &entity.Profile{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		RoleID:   role.ID,
		Role:     role.Description,
		Active:   true,
	}
	if err := s.Profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	publishEvent(ctx, s.Events, s.Logger, EventProfileCreated, p)
	return p, nil
}

// Search matches profiles by name or email. Without a search index it falls
// back to filtering the full list.
func (s *ProfileService) Search(ctx context.Context, query string) ([]entity.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	if s.Searcher != nil {
		res, err := s.Searcher.Search(ctx, query, defaultSearchLimit)
		if err == nil {
			return res, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("op", "search_profiles").Warn("search index unavailable, filtering in memory")
		}
	}

	all, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]entity.Profile, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.FullName), q) || strings.Contains(p.Email, q) {
			out = append(out, p)
			if len(out) == defaultSearchLimit {
				break
			}
		}
	}
	return out, nil
}
