package server

import (
	"fmt"

	"github.com/Galomer310/ManisR-backend/internal/cache"
	"github.com/Galomer310/ManisR-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IssueWSTicket handles POST /api/ws/ticket. WebSocket upgrades cannot carry
// an Authorization header from browsers, so the client exchanges its JWT for a
// short-lived single-use ticket and passes it as a query parameter.
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("ticket store unavailable")))
	}

	ticket := uuid.NewString()
	key := cache.WSTicketKey(ticket)
	if err := s.redis.Set(c.Context(), key, fmt.Sprintf("%d", userID), cache.WSTicketTTL).Err(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(cache.WSTicketTTL.Seconds()),
	})
}
