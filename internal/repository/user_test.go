package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "lookup")

	t.Run("GetByID returns the user", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
	})

	t.Run("GetByID for unknown id returns ErrRecordNotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("Exists reflects presence", func(t *testing.T) {
		ok, err := repo.Exists(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
