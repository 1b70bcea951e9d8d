package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noxven/gestion-ie/internal/application"
)

func TestMethods_AllowHeaderAndEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	Methods(r, "/things", map[string][]gin.HandlerFunc{
		http.MethodPost: Chain(ok),
		http.MethodGet:  Chain(ok),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/things", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":"Método PUT no permitido"}`, w.Body.String())
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		code int
		body string
	}{
		{application.ErrDuplicateEmail, http.StatusBadRequest, `{"error":"email already registered"}`},
		{errors.New("dial tcp 10.0.0.5:5432: connection refused"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		writeError(c, nil, "test", tc.err)
		assert.Equal(t, tc.code, w.Code)
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}
