package bootstrap

import (
	"testing"

	"github.com/Galomer310/ManisR-backend/internal/config"
	"github.com/Galomer310/ManisR-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestEnsureDevAdmin(t *testing.T) {
	devCfg := &config.Config{Env: "development"}

	t.Run("no users is a no-op", func(t *testing.T) {
		db := setupDB(t)
		require.NoError(t, ensureDevAdmin(devCfg, db))
	})

	t.Run("promotes user 1 in development", func(t *testing.T) {
		db := setupDB(t)
		require.NoError(t, db.Create(&models.User{Username: "first", Email: "first@example.com"}).Error)

		require.NoError(t, ensureDevAdmin(devCfg, db))

		var user models.User
		require.NoError(t, db.First(&user, 1).Error)
		require.True(t, user.IsAdmin)
	})

	t.Run("leaves production untouched", func(t *testing.T) {
		db := setupDB(t)
		require.NoError(t, db.Create(&models.User{Username: "first", Email: "first@example.com"}).Error)

		require.NoError(t, ensureDevAdmin(&config.Config{Env: "production"}, db))

		var user models.User
		require.NoError(t, db.First(&user, 1).Error)
		require.False(t, user.IsAdmin)
	})
}
