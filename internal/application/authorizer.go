package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

// Principal is the authorized caller handed to protected handlers.
// Profile is nil when the gate required no roles.
type Principal struct {
	Session *entity.Session
	Profile *entity.Profile
}

// Authorizer composes session resolution with the profile role check.
type Authorizer struct {
	Resolver *SessionResolver
	Profiles repository.ProfileRepository
}

func NewAuthorizer(resolver *SessionResolver, profiles repository.ProfileRepository) *Authorizer {
	return &Authorizer{Resolver: resolver, Profiles: profiles}
}

// Authorize admits the caller when required is empty or the caller's profile
// role equals one of required. Role tags are compared exactly.
func (a *Authorizer) Authorize(ctx context.Context, headers map[string]string, required []string) (*Principal, error) {
	sess, err := a.Resolver.ResolveSession(ctx, headers)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrUnauthenticated
	}
	if len(required) == 0 {
		return &Principal{Session: sess}, nil
	}

	p, err := a.Profiles.GetByEmail(ctx, sess.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	for _, r := range required {
		if p.Role == r {
			return &Principal{Session: sess, Profile: p}, nil
		}
	}
	return nil, forbiddenErr(required)
}

type principalKey struct{}

// WithPrincipal stores p on ctx for code below the HTTP layer.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
