package persistence

import (
	"context"
	"testing"

	"github.com/invoicedash/backend/internal/domain/identity"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newSQLiteDatabase(t).DB)

	user, err := identity.NewUser("User", "user@nextmail.com", "123456")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("finds by normalized email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  USER@nextmail.com ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "User", found.Name)
		assert.True(t, found.VerifyPassword("123456"))
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@nextmail.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup, err := identity.NewUser("Other", "user@nextmail.com", "abcdef")
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, dup))
	})
}
