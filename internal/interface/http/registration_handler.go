package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/application"
	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/pkg/response"
)

type RegistrationHandler struct {
	Registrar *application.Registrar
	Logger    logrus.FieldLogger
}

func NewRegistrationHandler(r *application.Registrar, logger logrus.FieldLogger) *RegistrationHandler {
	return &RegistrationHandler{Registrar: r, Logger: logger}
}

type registerRequest struct {
	FullName string `json:"nombrecompleto" binding:"required"`
	RoleID   int64  `json:"rolid" binding:"required,gt=0"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"telefono"`
	Password string `json:"password" binding:"required"`
}

type registerResponse struct {
	Message string          `json:"message"`
	Usuario *entity.Profile `json:"usuario"`
}

// Register creates identity, credential and profile in one step.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Registrar.Register(c.Request.Context(), application.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		writeError(c, h.Logger, "register", err)
		return
	}
	response.JSON(c, http.StatusCreated, registerResponse{Message: "Usuario registrado exitosamente", Usuario: p})
}
