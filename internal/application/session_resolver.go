package application

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/noxven/gestion-ie/internal/domain/entity"
)

// SessionResolver answers "who is calling" for a set of request headers.
// It has no side effects and may be called any number of times.
type SessionResolver struct {
	Verifier SessionVerifier
}

func NewSessionResolver(v SessionVerifier) *SessionResolver {
	return &SessionResolver{Verifier: v}
}

// ResolveSession returns (nil, nil) for anonymous callers. Verifier failures
// are reported as ErrSessionBackend.
func (r *SessionResolver) ResolveSession(ctx context.Context, headers map[string]string) (*entity.Session, error) {
	s, err := r.Verifier.Verify(ctx, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionBackend, err)
	}
	if s == nil || !s.Authenticated || s.Email == "" {
		return nil, nil
	}
	return s, nil
}

// NormalizeHeaders flattens h into lower-cased keys with multiple values
// joined by ",".
func NormalizeHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		out[strings.ToLower(k)] = strings.Join(vals, ",")
	}
	return out
}
