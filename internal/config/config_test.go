package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:       "5000",
			JWTSecret:  "secure-secret-at-least-32-chars-long",
			DBPassword: "secure-password",
			DBSSLMode:  "require",
			Env:        "development",
		}
	}

	t.Run("valid development config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		c := base()
		c.Port = ""
		assert.Error(t, c.Validate())
	})

	t.Run("missing JWT secret", func(t *testing.T) {
		c := base()
		c.JWTSecret = ""
		assert.Error(t, c.Validate())
	})

	t.Run("default JWT secret rejected in production", func(t *testing.T) {
		c := base()
		c.Env = "production"
		c.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, c.Validate())
	})

	t.Run("short JWT secret rejected in production", func(t *testing.T) {
		c := base()
		c.Env = "prod"
		c.JWTSecret = "too-short"
		assert.Error(t, c.Validate())
	})

	t.Run("weak DB password rejected in production", func(t *testing.T) {
		c := base()
		c.Env = "production"
		c.DBPassword = "password"
		assert.Error(t, c.Validate())
	})

	t.Run("short JWT secret tolerated outside production", func(t *testing.T) {
		c := base()
		c.JWTSecret = "short-dev-secret"
		assert.NoError(t, c.Validate())
	})
}
