// Package bootstrap wires shared process startup for the server and CLI tools.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Galomer310/ManisR-backend/internal/cache"
	"github.com/Galomer310/ManisR-backend/internal/config"
	"github.com/Galomer310/ManisR-backend/internal/database"
	"github.com/Galomer310/ManisR-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Redis controls whether a Redis client is established. CLI tools that
	// only touch the database skip it.
	Redis bool
}

// InitRuntime connects to the database, optionally to Redis, and ensures the
// development admin account exists.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	var r *redis.Client
	if opts.Redis {
		// May resolve to nil when Redis is unreachable; callers degrade
		// to polling-only operation.
		cache.InitRedis(cfg.RedisURL)
		r = cache.GetClient()
	}

	if err := ensureDevAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	return db, r, nil
}

// ensureDevAdmin promotes user ID 1 to admin in development so the meal
// status override endpoint is reachable without an operator step. Identity
// itself comes from the external auth provider.
func ensureDevAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	var admin models.User
	err := db.First(&admin, 1).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No users yet; nothing to promote.
		return nil
	case err != nil:
		return err
	}

	if admin.IsAdmin {
		return nil
	}
	if err := db.Model(&admin).Update("is_admin", true).Error; err != nil {
		return err
	}
	log.Printf("development admin ensured for user ID 1 (%s)", admin.Username)
	return nil
}
