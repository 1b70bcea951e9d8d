package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/application"
	"github.com/noxven/gestion-ie/pkg/response"
)

type TransactionHandler struct {
	Svc    *application.TransactionService
	Logger logrus.FieldLogger
}

func NewTransactionHandler(svc *application.TransactionService, logger logrus.FieldLogger) *TransactionHandler {
	return &TransactionHandler{Svc: svc, Logger: logger}
}

type createTransactionRequest struct {
	Amount    int64      `json:"monto" binding:"required,gt=0"`
	Type      string     `json:"tipo" binding:"required,txtype"`
	ProfileID int64      `json:"usuarioId" binding:"omitempty,gt=0"`
	Concept   string     `json:"concepto" binding:"max=255"`
	Date      *time.Time `json:"fecha"`
}

func (h *TransactionHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, "list_transactions", err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *TransactionHandler) Create(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), application.CreateTransactionInput{
		Amount:    req.Amount,
		Type:      req.Type,
		ProfileID: req.ProfileID,
		Concept:   req.Concept,
		Date:      req.Date,
	})
	if err != nil {
		writeError(c, h.Logger, "create_transaction", err)
		return
	}
	response.Created(c, t)
}

// ListByProfile returns the transactions owned by the profile in :id.
func (h *TransactionHandler) ListByProfile(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	out, err := h.Svc.ListByProfile(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, "list_profile_transactions", err)
		return
	}
	response.JSON(c, http.StatusOK, out)
}
