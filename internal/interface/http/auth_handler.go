package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/noxven/gestion-ie/internal/application"
	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/infrastructure/oauth"
	"github.com/noxven/gestion-ie/pkg/helpers"
	"github.com/noxven/gestion-ie/pkg/response"
)

// ExternalProvider is an OAuth sign-in provider.
type ExternalProvider interface {
	AuthURL(ctx context.Context) (string, error)
	Exchange(ctx context.Context, state, code string) (entity.ExternalAccount, error)
}

type AuthHandler struct {
	Auth     *application.AuthService
	Resolver *application.SessionResolver
	Cookies  *helpers.CookieManager
	GitHub   ExternalProvider
	// AfterExternalLogin is where the browser lands after a provider callback.
	AfterExternalLogin string
	Logger             logrus.FieldLogger
}

func NewAuthHandler(auth *application.AuthService, resolver *application.SessionResolver, cookies *helpers.CookieManager, github ExternalProvider, afterLogin string, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		Auth:               auth,
		Resolver:           resolver,
		Cookies:            cookies,
		GitHub:             github,
		AfterExternalLogin: afterLogin,
		Logger:             logger,
	}
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	OK      bool            `json:"ok"`
	Session *entity.Session `json:"session,omitempty"`
	Profile *entity.Profile `json:"profile,omitempty"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Auth.SignUp(c.Request.Context(), application.SignUpInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(c, h.Logger, "sign_up", err)
		return
	}
	h.Cookies.SetSession(c, res.Token, res.Session.ExpiresAt)
	response.JSON(c, http.StatusOK, sessionResponse{OK: true, Session: res.Session, Profile: res.Profile})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, "sign_in", err)
		return
	}
	h.Cookies.SetSession(c, res.Token, res.Session.ExpiresAt)
	response.JSON(c, http.StatusOK, sessionResponse{OK: true, Session: res.Session, Profile: res.Profile})
}

// SignOut revokes the caller's session if any and always clears the cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	sess, err := h.Resolver.ResolveSession(c.Request.Context(), application.NormalizeHeaders(c.Request.Header))
	if err != nil {
		writeError(c, h.Logger, "sign_out", err)
		return
	}
	if sess != nil {
		if err := h.Auth.SignOut(c.Request.Context(), sess.ID); err != nil {
			writeError(c, h.Logger, "sign_out", err)
			return
		}
	}
	h.Cookies.Clear(c)
	response.JSON(c, http.StatusOK, sessionResponse{OK: true})
}

// Session reports the caller's session, 401 with ok=false when anonymous.
func (h *AuthHandler) Session(c *gin.Context) {
	sess, err := h.Resolver.ResolveSession(c.Request.Context(), application.NormalizeHeaders(c.Request.Header))
	if err != nil {
		writeError(c, h.Logger, "session", err)
		return
	}
	if sess == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, sessionResponse{OK: false})
		return
	}
	response.JSON(c, http.StatusOK, sessionResponse{OK: true, Session: sess})
}

func (h *AuthHandler) GitHubLogin(c *gin.Context) {
	url, err := h.GitHub.AuthURL(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, "github_login", err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	acct, err := h.GitHub.Exchange(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidState) {
			response.Error(c, http.StatusBadRequest, "invalid oauth state")
			return
		}
		writeError(c, h.Logger, "github_callback", err)
		return
	}
	res, err := h.Auth.SignInExternal(c.Request.Context(), acct)
	if err != nil {
		writeError(c, h.Logger, "github_callback", err)
		return
	}
	h.Cookies.SetSession(c, res.Token, res.Session.ExpiresAt)
	c.Redirect(http.StatusFound, h.AfterExternalLogin)
}
