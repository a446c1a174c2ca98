package cache

import (
	"fmt"
	"time"
)

// Redis key formats used across the application. Keeping them in one place
// avoids prefix collisions between features.
const (
	WSTicketKeyPrefix  = "ws_ticket:%s"
	RateLimitKeyPrefix = "rl:%s:%s"
)

// WSTicketTTL is how long an issued websocket ticket stays valid.
const WSTicketTTL = 30 * time.Second

// WSTicketKey is the key under which a single-use websocket ticket is stored.
func WSTicketKey(ticket string) string {
	return fmt.Sprintf(WSTicketKeyPrefix, ticket)
}

// RateLimitKey is the counter key for one caller against one rate-limited resource.
func RateLimitKey(resource, id string) string {
	return fmt.Sprintf(RateLimitKeyPrefix, resource, id)
}
