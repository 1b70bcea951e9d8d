package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	handlers "github.com/noxven/gestion-ie/internal/interface/http"
	"github.com/noxven/gestion-ie/internal/interface/middleware"
)

// ProfileModule: admin-only profile management under /usuarios.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Gate    *middleware.Gate
}

func NewProfileModule(h *handlers.ProfileHandler, gate *middleware.Gate) *ProfileModule {
	return &ProfileModule{Handler: h, Gate: gate}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	admin := m.Gate.Authorize(entity.RoleAdmin)

	handlers.Methods(rg, "/usuarios", map[string][]gin.HandlerFunc{
		"GET":  handlers.Chain(admin, m.Handler.List),
		"POST": handlers.Chain(admin, m.Handler.Create),
	})
	handlers.Methods(rg, "/usuarios/:id", map[string][]gin.HandlerFunc{
		"PUT": handlers.Chain(admin, m.Handler.Update),
	})
}
