package identity

import (
	"context"
	"fmt"

	"github.com/invoicedash/backend/internal/infrastructure/auth"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TokenValidator parses a session token
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Sessions verifies and ends sessions issued by the credentials provider
type Sessions struct {
	tokens      TokenValidator
	revocations auth.RevocationList
	logger      *zap.Logger
}

// NewSessions creates a new session manager
func NewSessions(tokens TokenValidator, revocations auth.RevocationList, logger *zap.Logger) *Sessions {
	return &Sessions{
		tokens:      tokens,
		revocations: revocations,
		logger:      logger,
	}
}

// Verify returns the claims of a valid, unrevoked session token
func (s *Sessions) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if revoked {
		return nil, auth.ErrTokenRevoked
	}
	return claims, nil
}

// SignOut revokes the session token. Invalid or expired tokens need no revocation.
func (s *Sessions) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to revoke session", zap.Error(err))
		return err
	}

	logger.WithLogger(ctx, s.logger).Info("User signed out", zap.String("user_id", claims.Subject))
	return nil
}
