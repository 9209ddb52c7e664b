package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/invoicedash/backend/internal/domain/identity"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"github.com/invoicedash/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Sign-in form fields
const (
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldRedirectTo = "redirectTo"
)

// TokenIssuer signs a session token for an authenticated user
type TokenIssuer interface {
	Issue(user *identity.User) (token string, expiresAt time.Time, err error)
}

// CredentialsProvider signs users in with email and password
type CredentialsProvider struct {
	users  identity.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

// NewCredentialsProvider creates a new credentials provider
func NewCredentialsProvider(users identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *CredentialsProvider {
	return &CredentialsProvider{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// SignIn authorizes the form with the named strategy and issues a session
func (p *CredentialsProvider) SignIn(ctx context.Context, strategy string, form identity.FormValues) (*identity.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "identity", "SignIn", telemetry.SpanAttrStrategy, strategy)
	defer span.End()
	log := logger.WithLogger(ctx, p.logger)

	if strategy != identity.StrategyCredentials {
		err := identity.NewAuthError(identity.ErrorConfiguration, fmt.Errorf("unknown sign-in strategy %q", strategy))
		telemetry.RecordError(span, err)
		log.Error("Sign-in strategy not configured", zap.String("strategy", strategy))
		return nil, err
	}

	user, err := p.authorize(ctx, form)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	token, expiresAt, err := p.tokens.Issue(user)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("Failed to issue session token", zap.Error(err))
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	log.Info("User signed in", zap.String("user_id", user.ID.String()))
	return &identity.Session{
		Token:      token,
		ExpiresAt:  expiresAt,
		RedirectTo: SafeRedirect(form.Get(FieldRedirectTo)),
	}, nil
}

// authorize resolves the form to a user. Rejected credentials are CredentialsSignin.
func (p *CredentialsProvider) authorize(ctx context.Context, form identity.FormValues) (*identity.User, error) {
	log := logger.WithLogger(ctx, p.logger)

	email := identity.NormalizeEmail(form.Get(FieldEmail))
	password := form.Get(FieldPassword)
	if identity.ValidateEmail(email) != nil || identity.ValidatePassword(password) != nil {
		log.Debug("Sign-in form rejected")
		return nil, identity.NewAuthError(identity.ErrorCredentialsSignin, nil)
	}

	user, err := p.users.FindByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		log.Info("Sign-in for unknown email")
		return nil, identity.NewAuthError(identity.ErrorCredentialsSignin, nil)
	}
	if err != nil {
		log.Error("Failed to fetch user", zap.Error(err))
		return nil, identity.NewAuthError(identity.ErrorCallbackRoute, fmt.Errorf("failed to fetch user: %w", err))
	}

	if !user.VerifyPassword(password) {
		log.Info("Sign-in with wrong password", zap.String("user_id", user.ID.String()))
		return nil, identity.NewAuthError(identity.ErrorCredentialsSignin, nil)
	}

	return user, nil
}

// SafeRedirect returns target when it is a path on this site, otherwise the default landing page
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return identity.DefaultRedirect
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return identity.DefaultRedirect
	}
	return target
}

var _ identity.Provider = (*CredentialsProvider)(nil)
