package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/infrastructure/auth"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionUserIDKey = "user_id"
	SessionEmailKey  = "user_email"
)

// DefaultLoginPath is where unauthenticated requests are sent
const DefaultLoginPath = "/login"

// SessionVerifier checks a session token
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// SessionConfig holds configuration for RequireSession
type SessionConfig struct {
	Verifier   SessionVerifier
	CookieName string
	LoginPath  string
	Logger     *zap.Logger
}

// RequireSession only lets requests with a valid session cookie through.
// Requests without one are sent to the login page with 303 See Other; a GET
// carries its own URL in redirectTo so the user returns after signing in.
func RequireSession(cfg SessionConfig) gin.HandlerFunc {
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.CookieName)
		if err != nil || token == "" {
			redirectToLogin(c, cfg.LoginPath)
			return
		}

		ctx := c.Request.Context()
		claims, err := cfg.Verifier.Verify(ctx, token)
		if err != nil {
			if auth.IsRejected(err) {
				logger.WithLogger(ctx, cfg.Logger).Debug("Session rejected", zap.Error(err))
				redirectToLogin(c, cfg.LoginPath)
				return
			}
			logger.WithLogger(ctx, cfg.Logger).Error("Session verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeServiceUnavailable,
				"Unable to verify session",
				c.GetString(RequestIDKey),
			))
			return
		}

		c.Set(SessionUserIDKey, claims.Subject)
		c.Set(SessionEmailKey, claims.Email)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, claims.Subject))

		c.Next()
	}
}

func redirectToLogin(c *gin.Context, loginPath string) {
	target := loginPath
	if c.Request.Method == http.MethodGet {
		target += "?" + url.Values{"redirectTo": {c.Request.URL.RequestURI()}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}
