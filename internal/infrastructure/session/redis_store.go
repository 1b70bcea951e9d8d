package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/pkg/helpers"
)

func sessionKey(sid string) string {
	return "session:" + sid
}

func identitySessionsKey(identityID string) string {
	return "identity:sessions:" + identityID
}

// updateIfExists refreshes name and role without resurrecting an expired
// session hash.
var updateIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  redis.call("HSET", KEYS[1], "name", ARGV[1], "role", ARGV[2])
  return 1
end
return 0
`)

// Store keeps sessions as Redis hashes keyed by session id. Clients hold a
// signed token naming the session, delivered as a cookie or bearer token.
type Store struct {
	rdb        *redis.Client
	jwt        *helpers.JWTManager
	cookieName string
	now        func() time.Time
}

func NewStore(rdb *redis.Client, jwt *helpers.JWTManager, cookieName string) *Store {
	return &Store{rdb: rdb, jwt: jwt, cookieName: cookieName, now: time.Now}
}

// Issue creates a session for identity and returns the signed token.
func (s *Store) Issue(ctx context.Context, identity *entity.Identity) (string, *entity.Session, error) {
	sid := uuid.NewString()
	token, exp, err := s.jwt.GenerateSessionToken(identity.ID, sid)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	key := sessionKey(sid)
	idx := identitySessionsKey(identity.ID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"identity_id": identity.ID,
		"email":       identity.Email,
		"name":        identity.Name,
		"role":        identity.Role,
		"expires_at":  exp.UTC().Format(time.RFC3339Nano),
		"created_at":  s.now().UTC().Format(time.RFC3339Nano),
	})
	pipe.ExpireAt(ctx, key, exp)
	pipe.SAdd(ctx, idx, sid)
	pipe.ExpireAt(ctx, idx, exp)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return token, &entity.Session{
		Authenticated: true,
		ID:            sid,
		IdentityID:    identity.ID,
		Email:         identity.Email,
		Name:          identity.Name,
		Role:          identity.Role,
		ExpiresAt:     exp.UTC(),
	}, nil
}

// Verify resolves normalized request headers to a session. Missing, forged
// or expired tokens yield (nil, nil); only Redis failures are errors.
func (s *Store) Verify(ctx context.Context, headers map[string]string) (*entity.Session, error) {
	token := TokenFromHeaders(headers, s.cookieName)
	if token == "" {
		return nil, nil
	}
	claims, err := s.jwt.ParseSessionToken(token)
	if err != nil {
		return nil, nil
	}

	data, err := s.rdb.HGetAll(ctx, sessionKey(claims.SessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(data) == 0 || data["identity_id"] != claims.UserID {
		return nil, nil
	}
	exp, err := time.Parse(time.RFC3339Nano, data["expires_at"])
	if err != nil || !exp.After(s.now()) {
		return nil, nil
	}
	return &entity.Session{
		Authenticated: true,
		ID:            claims.SessionID,
		IdentityID:    data["identity_id"],
		Email:         data["email"],
		Name:          data["name"],
		Role:          data["role"],
		ExpiresAt:     exp,
	}, nil
}

func (s *Store) Revoke(ctx context.Context, sid string) error {
	key := sessionKey(sid)
	identityID, err := s.rdb.HGet(ctx, key, "identity_id").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("load session: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	if identityID != "" {
		pipe.SRem(ctx, identitySessionsKey(identityID), sid)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// SyncIdentity copies the identity's current name and role into each of
// its live sessions and drops index entries for expired ones.
func (s *Store) SyncIdentity(ctx context.Context, identity *entity.Identity) error {
	idx := identitySessionsKey(identity.ID)
	sids, err := s.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, sid := range sids {
		n, err := updateIfExists.Run(ctx, s.rdb, []string{sessionKey(sid)}, identity.Name, identity.Role).Int()
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		if n == 0 {
			if err := s.rdb.SRem(ctx, idx, sid).Err(); err != nil {
				return fmt.Errorf("drop expired session: %w", err)
			}
		}
	}
	return nil
}

// TokenFromHeaders reads the session token from the named cookie, falling
// back to an Authorization bearer token. Keys must be lower-cased.
func TokenFromHeaders(headers map[string]string, cookieName string) string {
	if raw := headers["cookie"]; raw != "" {
		req := &http.Request{Header: http.Header{"Cookie": strings.Split(raw, ",")}}
		if c, err := req.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}
	auth := strings.TrimSpace(headers["authorization"])
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
