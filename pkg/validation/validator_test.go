package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name   string `json:"nombrecompleto" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Amount int64  `json:"monto" binding:"gt=0"`
}

func bindSample(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Init()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var s sample
	return c.ShouldBindJSON(&s)
}

func TestToMessage_UsesJSONFieldNames(t *testing.T) {
	err := bindSample(t, `{"email":"nope","monto":0}`)
	msg := ToMessage(err)
	assert.Contains(t, msg, "nombrecompleto is required")
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "monto must be greater than 0")
}

func TestToMessage_InvalidJSON(t *testing.T) {
	err := bindSample(t, `{"email":`)
	assert.NotEmpty(t, ToMessage(err))
}

func TestToMessage_EmptyBody(t *testing.T) {
	err := bindSample(t, ``)
	assert.Equal(t, "request body is required", ToMessage(err))
}

func TestToMessage_Nil(t *testing.T) {
	assert.Equal(t, "", ToMessage(nil))
}
