package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/invoicedash/backend/internal/application/identity"
	"github.com/invoicedash/backend/internal/domain/identity"
	"github.com/invoicedash/backend/internal/infrastructure/config"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Authenticator runs the login form action
type Authenticator interface {
	Authenticate(ctx context.Context, prevMessage string, form identity.FormValues) (appidentity.AuthOutcome, error)
}

// SessionEnder ends a session
type SessionEnder interface {
	SignOut(ctx context.Context, token string) error
}

// AuthHandler serves /login and /logout
type AuthHandler struct {
	BaseHandler
	authenticator Authenticator
	sessions      SessionEnder
	cookie        config.CookieConfig
	now           func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authenticator Authenticator, sessions SessionEnder, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		sessions:      sessions,
		cookie:        cookie,
		now:           time.Now,
	}
}

// Login handles POST /login.
// A session sets the cookie and redirects with 303; a rejected sign-in is 401 {message}.
func (h *AuthHandler) Login(c *gin.Context) {
	form, err := formValues(c)
	if err != nil {
		h.BadRequest(c, "Invalid form body")
		return
	}

	outcome, err := h.authenticator.Authenticate(c.Request.Context(), "", form)
	if err != nil {
		_ = c.Error(err)
		h.HandleError(c, err)
		return
	}
	if outcome.Session == nil {
		h.Message(c, http.StatusUnauthorized, outcome.Message)
		return
	}

	maxAge := int(outcome.Session.ExpiresAt.Sub(h.now()).Seconds())
	h.setSessionCookie(c, outcome.Session.Token, maxAge)
	h.SeeOther(c, outcome.Session.RedirectTo)
}

// Logout handles POST /logout. The cookie is cleared even if revocation fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.sessions.SignOut(c.Request.Context(), token); err != nil {
			logger.GetGinLogger(c).Warn("Sign-out could not revoke session", zap.Error(err))
		}
	}

	h.setSessionCookie(c, "", -1)
	h.SeeOther(c, middleware.DefaultLoginPath)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, value, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(policy string) http.SameSite {
	switch strings.ToLower(policy) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
