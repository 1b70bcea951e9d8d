package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/interface/middleware"
	"github.com/noxven/gestion-ie/pkg/helpers"
	"github.com/noxven/gestion-ie/pkg/response"
	"github.com/noxven/gestion-ie/pkg/validation"
)

// writeError maps err onto the error envelope. Internal failures are logged
// with op and never reach the client.
func writeError(c *gin.Context, logger logrus.FieldLogger, op string, err error) {
	status, msg := middleware.ErrorStatus(err)
	if status == http.StatusInternalServerError && logger != nil {
		helpers.LogError(logger, op, "request failed", err, logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestIDKey),
		})
	}
	response.Error(c, status, msg)
}

func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, validation.ToMessage(err))
}
