package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/pkg/helpers"
)

const (
	defaultAPIBase = "https://api.github.com"
	stateTTL       = 10 * time.Minute
)

var ErrInvalidState = errors.New("oauth state is missing or expired")

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and APIBase default to github.com.
	Endpoint oauth2.Endpoint
	APIBase  string
}

// GitHub drives the authorization code flow and reports the signed-in
// account. States are single use and kept in Redis.
type GitHub struct {
	cfg     *oauth2.Config
	apiBase string
	rdb     *redis.Client
}

type pendingState struct {
	CreatedAt time.Time `json:"created_at"`
}

func NewGitHub(c GitHubConfig, rdb *redis.Client) *GitHub {
	endpoint := c.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = github.Endpoint
	}
	apiBase := strings.TrimRight(c.APIBase, "/")
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &GitHub{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		apiBase: apiBase,
		rdb:     rdb,
	}
}

func stateKey(state string) string {
	return "oauth:state:" + state
}

// AuthURL returns the provider consent URL bound to a fresh state.
func (g *GitHub) AuthURL(ctx context.Context) (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(b)
	if err := helpers.RedisSetJSON(ctx, g.rdb, stateKey(state), pendingState{CreatedAt: time.Now().UTC()}, stateTTL); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return g.cfg.AuthCodeURL(state), nil
}

// Exchange consumes state, trades code for a token and loads the account.
func (g *GitHub) Exchange(ctx context.Context, state, code string) (entity.ExternalAccount, error) {
	if state == "" || code == "" {
		return entity.ExternalAccount{}, ErrInvalidState
	}
	var pending pendingState
	ok, err := helpers.RedisTakeJSON(ctx, g.rdb, stateKey(state), &pending)
	if err != nil {
		return entity.ExternalAccount{}, fmt.Errorf("load oauth state: %w", err)
	}
	if !ok {
		return entity.ExternalAccount{}, ErrInvalidState
	}

	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return entity.ExternalAccount{}, fmt.Errorf("exchange code: %w", err)
	}
	client := g.cfg.Client(ctx, tok)

	var user struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := g.getJSON(client, "/user", &user); err != nil {
		return entity.ExternalAccount{}, err
	}

	acct := entity.ExternalAccount{
		ProviderID: entity.ProviderGitHub,
		AccountID:  strconv.FormatInt(user.ID, 10),
		Name:       user.Name,
	}
	if acct.Name == "" {
		acct.Name = user.Login
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := g.getJSON(client, "/user/emails", &emails); err != nil {
		return entity.ExternalAccount{}, err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			acct.Email, acct.EmailVerified = e.Email, true
			break
		}
	}
	if acct.Email == "" {
		for _, e := range emails {
			if e.Verified {
				acct.Email, acct.EmailVerified = e.Email, true
				break
			}
		}
	}
	return acct, nil
}

func (g *GitHub) getJSON(client *http.Client, path string, dest any) error {
	resp, err := client.Get(g.apiBase + path)
	if err != nil {
		return fmt.Errorf("github %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github %s: status %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
