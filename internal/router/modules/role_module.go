package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/noxven/gestion-ie/internal/interface/http"
	"github.com/noxven/gestion-ie/internal/interface/middleware"
)

type RoleModule struct {
	Handler *handlers.RoleHandler
	Gate    *middleware.Gate
}

func NewRoleModule(h *handlers.RoleHandler, gate *middleware.Gate) *RoleModule {
	return &RoleModule{Handler: h, Gate: gate}
}

// Register mounts GET /roles for any signed-in caller.
func (m *RoleModule) Register(rg *gin.RouterGroup) {
	handlers.Methods(rg, "/roles", map[string][]gin.HandlerFunc{
		"GET": handlers.Chain(m.Gate.Authorize(), m.Handler.List),
	})
}
