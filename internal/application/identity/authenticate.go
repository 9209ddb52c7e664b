package identity

import (
	"context"

	"github.com/invoicedash/backend/internal/domain/identity"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Messages shown on the login form
const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgSomethingWentWrong = "Something went wrong."
)

// AuthOutcome is the result of the authentication action.
// Exactly one of Session and Message is set.
type AuthOutcome struct {
	Session *identity.Session
	Message string
}

// AuthenticateAction signs a user in from the login form
type AuthenticateAction struct {
	provider identity.Provider
	logger   *zap.Logger
}

// NewAuthenticateAction creates a new authenticate action
func NewAuthenticateAction(provider identity.Provider, logger *zap.Logger) *AuthenticateAction {
	return &AuthenticateAction{provider: provider, logger: logger}
}

// Authenticate delegates to the credentials strategy. Typed provider failures
// become a form message; any other error is returned to the caller unchanged.
// The previous message is not consulted.
func (a *AuthenticateAction) Authenticate(ctx context.Context, _ string, form identity.FormValues) (AuthOutcome, error) {
	session, err := a.provider.SignIn(ctx, identity.StrategyCredentials, form)
	if err == nil {
		return AuthOutcome{Session: session}, nil
	}

	authErr, ok := identity.AsAuthError(err)
	if !ok {
		return AuthOutcome{}, err
	}

	logger.WithLogger(ctx, a.logger).Info("Sign-in failed", zap.String("error_type", string(authErr.Type)))
	if authErr.Type == identity.ErrorCredentialsSignin {
		return AuthOutcome{Message: MsgInvalidCredentials}, nil
	}
	return AuthOutcome{Message: MsgSomethingWentWrong}, nil
}
