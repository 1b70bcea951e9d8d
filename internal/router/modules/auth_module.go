package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/noxven/gestion-ie/internal/interface/http"
	"github.com/noxven/gestion-ie/internal/interface/middleware"
)

// AuthModule serves the public sign-up, sign-in and session endpoints.
// GitHub routes are only mounted when a provider is configured.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   redis.Cmdable
	Allow   middleware.AllowFunc
}

func NewAuthModule(h *handlers.AuthHandler, rdb redis.Cmdable, allow middleware.AllowFunc) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb, Allow: allow}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signInLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), m.Allow)
	signUpLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), m.Allow)
	probeLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), m.Allow)

	handlers.Methods(rg, "/auth/sign-up/email", map[string][]gin.HandlerFunc{
		"POST": handlers.Chain(signUpLimiter, m.Handler.SignUp),
	})
	handlers.Methods(rg, "/auth/sign-in/email", map[string][]gin.HandlerFunc{
		"POST": handlers.Chain(signInLimiter, m.Handler.SignIn),
	})
	handlers.Methods(rg, "/auth/sign-out", map[string][]gin.HandlerFunc{
		"POST": handlers.Chain(m.Handler.SignOut),
	})
	handlers.Methods(rg, "/auth/session", map[string][]gin.HandlerFunc{
		"GET": handlers.Chain(probeLimiter, m.Handler.Session),
	})

	if m.Handler.GitHub != nil {
		rg.GET("/auth/github", signInLimiter, m.Handler.GitHubLogin)
		rg.GET("/auth/github/callback", signInLimiter, m.Handler.GitHubCallback)
	}
}
