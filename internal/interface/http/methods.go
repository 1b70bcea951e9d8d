package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noxven/gestion-ie/pkg/response"
)

var routableMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Methods registers handlers for path and answers every other method with
// 405, an Allow header and the error envelope.
func Methods(rg gin.IRoutes, path string, routes map[string][]gin.HandlerFunc) {
	allowed := make([]string, 0, len(routes))
	for method, chain := range routes {
		rg.Handle(method, path, chain...)
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	for _, method := range routableMethods {
		if _, ok := routes[method]; ok {
			continue
		}
		rg.Handle(method, path, methodNotAllowed(allow))
	}
}

func methodNotAllowed(allow string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		response.Error(c, http.StatusMethodNotAllowed, fmt.Sprintf("Método %s no permitido", c.Request.Method))
	}
}

// Chain is shorthand for building a Methods entry.
func Chain(h ...gin.HandlerFunc) []gin.HandlerFunc { return h }
