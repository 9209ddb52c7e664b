package identity

import (
	"context"
	"errors"
	"time"
)

// StrategyCredentials is the email and password sign-in strategy
const StrategyCredentials = "credentials"

// DefaultRedirect is where a user lands after signing in
const DefaultRedirect = "/dashboard"

// ErrorType classifies sign-in failures
type ErrorType string

const (
	// ErrorCredentialsSignin means the submitted credentials were rejected
	ErrorCredentialsSignin ErrorType = "CredentialsSignin"
	// ErrorCallbackRoute means the provider failed while authorizing the user
	ErrorCallbackRoute ErrorType = "CallbackRouteError"
	// ErrorAccessDenied means the user is known but not allowed to sign in
	ErrorAccessDenied ErrorType = "AccessDenied"
	// ErrorConfiguration means the provider is misconfigured
	ErrorConfiguration ErrorType = "Configuration"
)

// AuthError is a typed failure raised by an identity provider
type AuthError struct {
	Type ErrorType
	Err  error
}

// NewAuthError creates an AuthError of the given type
func NewAuthError(t ErrorType, err error) *AuthError {
	return &AuthError{Type: t, Err: err}
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Err.Error()
	}
	return string(e.Type)
}

// Unwrap returns the underlying cause
func (e *AuthError) Unwrap() error {
	return e.Err
}

// AsAuthError reports whether err is, or wraps, an AuthError
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// FormValues is the raw sign-in form. url.Values satisfies it.
type FormValues interface {
	Get(key string) string
}

// Session is the result of a successful sign-in
type Session struct {
	Token      string
	ExpiresAt  time.Time
	RedirectTo string
}

// Provider signs a user in with the named strategy.
// Failures the user can act on are returned as *AuthError.
type Provider interface {
	SignIn(ctx context.Context, strategy string, form FormValues) (*Session, error)
}
