package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the envelope for every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// Message wraps a payload with a human-readable message.
type Message[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// JSON writes data with status, defaulting to 200.
func JSON(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func WithMessage[T any](c *gin.Context, status int, message string, data T) {
	JSON(c, status, Message[T]{Message: message, Data: data})
}

// Error aborts the chain and writes {"error": message}.
func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}
