package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	handlers "github.com/noxven/gestion-ie/internal/interface/http"
	"github.com/noxven/gestion-ie/internal/interface/middleware"
)

type TransactionModule struct {
	Handler *handlers.TransactionHandler
	Gate    *middleware.Gate
	Redis   redis.Cmdable
}

func NewTransactionModule(h *handlers.TransactionHandler, gate *middleware.Gate, rdb redis.Cmdable) *TransactionModule {
	return &TransactionModule{Handler: h, Gate: gate, Redis: rdb}
}

func (m *TransactionModule) Register(rg *gin.RouterGroup) {
	members := m.Gate.Authorize(entity.RoleAdmin, entity.RoleUser)
	admin := m.Gate.Authorize(entity.RoleAdmin)
	// keyed on the identity the gate stored, so it must run after it
	perUser := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil)

	handlers.Methods(rg, "/transacciones", map[string][]gin.HandlerFunc{
		"GET":  handlers.Chain(members, m.Handler.List),
		"POST": handlers.Chain(members, perUser, m.Handler.Create),
	})
	handlers.Methods(rg, "/transacciones/:id", map[string][]gin.HandlerFunc{
		"GET": handlers.Chain(admin, m.Handler.ListByProfile),
	})
}
