package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Galomer310/ManisR-backend/internal/cache"

	"github.com/stretchr/testify/require"
)

func TestIssueWSTicket(t *testing.T) {
	env := setupTestServer(t)
	user := env.createUser(t, "wsuser")

	status, body := env.doJSON(t, http.MethodPost, "/api/ws/ticket", user.ID, nil)
	require.Equal(t, http.StatusOK, status)

	ticket, ok := body["ticket"].(string)
	require.True(t, ok)
	require.NotEmpty(t, ticket)
	require.EqualValues(t, int(cache.WSTicketTTL.Seconds()), body["expires_in"])

	// The ticket maps back to the issuing user in Redis.
	stored, err := env.redis.Get(context.Background(), cache.WSTicketKey(ticket)).Result()
	require.NoError(t, err)
	require.Equal(t, "1", stored)
}

func TestWSTicketSingleUse(t *testing.T) {
	env := setupTestServer(t)
	user := env.createUser(t, "wsuser")

	_, body := env.doJSON(t, http.MethodPost, "/api/ws/ticket", user.ID, nil)
	ticket := body["ticket"].(string)

	// First use consumes the ticket.
	req := httptest.NewRequest(http.MethodGet, "/api/meals/available?ticket="+ticket, nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Ticket is gone from Redis, so a replay falls through to JWT auth and fails.
	_, err = env.redis.Get(context.Background(), cache.WSTicketKey(ticket)).Result()
	require.Error(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/ws/meals?ticket="+ticket, nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
