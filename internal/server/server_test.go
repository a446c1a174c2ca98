package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Galomer310/ManisR-backend/internal/config"
	"github.com/Galomer310/ManisR-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type serverTestEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	redis  *redis.Client
}

func setupTestServer(t *testing.T) *serverTestEnv {
	return setupTestServerWithFlags(t, "")
}

func setupTestServerWithFlags(t *testing.T, flags string) *serverTestEnv {
	t.Helper()
	os.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.MealListing{},
		&models.ConversationMessage{},
		&models.MealHistoryRecord{},
		&models.MealReview{},
	))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:    testJWTSecret,
		Env:          "test",
		UploadDir:    t.TempDir(),
		FeatureFlags: flags,
	}

	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)

	return &serverTestEnv{server: srv, app: app, db: db, redis: rdb}
}

func (e *serverTestEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *serverTestEnv) createAdmin(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", IsAdmin: true}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func makeToken(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
		"iss": "manisr-api",
		"aud": "manisr-client",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// doJSON performs an authenticated JSON request and decodes the response body.
func (e *serverTestEnv) doJSON(t *testing.T, method, path string, userID uint, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+makeToken(t, userID))
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestHealthEndpoints(t *testing.T) {
	env := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	env := setupTestServer(t)
	user := env.createUser(t, "authuser")

	t.Run("missing token is rejected", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodGet, "/api/meals/available", 0, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/meals/available", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong issuer is rejected", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "1",
			"iss": "someone-else",
			"aud": "manisr-client",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/meals/available", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token passes", func(t *testing.T) {
		status, _ := env.doJSON(t, http.MethodGet, "/api/meals/available", user.ID, nil)
		require.Equal(t, http.StatusOK, status)
	})
}
