package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/application"
	"github.com/noxven/gestion-ie/pkg/response"
)

type RoleHandler struct {
	Svc    *application.RoleService
	Logger logrus.FieldLogger
}

func NewRoleHandler(svc *application.RoleService, logger logrus.FieldLogger) *RoleHandler {
	return &RoleHandler{Svc: svc, Logger: logger}
}

func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, "list_roles", err)
		return
	}
	response.JSON(c, http.StatusOK, roles)
}
