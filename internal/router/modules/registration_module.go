package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/noxven/gestion-ie/internal/interface/http"
	"github.com/noxven/gestion-ie/internal/interface/middleware"
)

type RegistrationModule struct {
	Handler *handlers.RegistrationHandler
	Redis   redis.Cmdable
	Allow   middleware.AllowFunc
}

func NewRegistrationModule(h *handlers.RegistrationHandler, rdb redis.Cmdable, allow middleware.AllowFunc) *RegistrationModule {
	return &RegistrationModule{Handler: h, Redis: rdb, Allow: allow}
}

func (m *RegistrationModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIP(), m.Allow)
	handlers.Methods(rg, "/registrar", map[string][]gin.HandlerFunc{
		"POST": handlers.Chain(limiter, m.Handler.Register),
	})
}
