package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/application"
	"github.com/noxven/gestion-ie/pkg/helpers"
	"github.com/noxven/gestion-ie/pkg/response"
)

// CtxUserIDKey holds the identity id of an admitted caller.
const CtxUserIDKey = "userID"

// Gate wraps handlers with the role check. Page navigations that fail
// authentication are redirected to LoginPath instead of receiving JSON.
type Gate struct {
	Authz     *application.Authorizer
	LoginPath string
	Logger    logrus.FieldLogger
}

func NewGate(authz *application.Authorizer, loginPath string, logger logrus.FieldLogger) *Gate {
	return &Gate{Authz: authz, LoginPath: loginPath, Logger: logger}
}

// Authorize admits callers whose profile role is one of roles. With no
// roles any authenticated caller is admitted.
func (g *Gate) Authorize(roles ...string) gin.HandlerFunc {
	required := append([]string(nil), roles...)
	return func(c *gin.Context) {
		headers := application.NormalizeHeaders(c.Request.Header)
		p, err := g.Authz.Authorize(c.Request.Context(), headers, required)
		if err != nil {
			g.deny(c, err, required)
			return
		}
		observeDecision("allowed")

		c.Set(CtxUserIDKey, p.Session.IdentityID)
		c.Request = c.Request.WithContext(application.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func (g *Gate) deny(c *gin.Context, err error, required []string) {
	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		observeDecision("unauthenticated")
		if g.LoginPath != "" && wantsHTML(c.Request) {
			target := g.LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
	case errors.Is(err, application.ErrForbidden):
		observeDecision("forbidden")
	default:
		observeDecision("error")
		if g.Logger != nil {
			helpers.LogError(g.Logger, "authorize", "authorization failed", err, logrus.Fields{
				"path":     c.FullPath(),
				"required": strings.Join(required, ","),
			})
		}
	}
	status, msg := ErrorStatus(err)
	response.Error(c, status, msg)
}

// wantsHTML reports a browser page navigation rather than an API call.
func wantsHTML(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
