// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Galomer310/ManisR-backend/internal/middleware"
	"github.com/Galomer310/ManisR-backend/internal/notifications"
	"github.com/Galomer310/ManisR-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketMealHandler handles WebSocket connections for real-time meal
// conversation rooms and lifecycle events.
func (s *Server) WebSocketMealHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		// Get userID from context locals (set by AuthRequired middleware)
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.mealHub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.mealHub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		client.IncomingHandler = func(c *notifications.Client, message []byte) {
			var incomingMsg map[string]interface{}
			if err := json.Unmarshal(message, &incomingMsg); err != nil {
				log.Printf("WebSocket: Invalid message format from user %d", userID)
				return
			}

			msgType, ok := incomingMsg["type"].(string)
			if !ok {
				return
			}

			switch msgType {
			case "join":
				// Join a meal room. Only the giver or the current taker may listen in.
				if mealIDFloat, ok := incomingMsg["meal_id"].(float64); ok {
					mealID := uint(mealIDFloat)
					if s.isMealParticipant(ctx, userID, mealID) {
						s.mealHub.JoinRoom(c, mealID)

						response := notifications.Event{
							Type:    "joined",
							MealID:  mealID,
							Payload: map[string]interface{}{"meal_id": mealID},
						}
						responseJSON, _ := json.Marshal(response)
						c.TrySend(responseJSON)
					}
				}

			case "leave":
				if mealIDFloat, ok := incomingMsg["meal_id"].(float64); ok {
					s.mealHub.LeaveRoom(c, uint(mealIDFloat))
				}

			case "sendMessage":
				// Append a chat line over the socket (alternative to the HTTP endpoint)
				mealIDFloat, ok := incomingMsg["meal_id"].(float64)
				if !ok {
					return
				}
				mealID := uint(mealIDFloat)
				text, _ := incomingMsg["message"].(string)
				receiverFloat, _ := incomingMsg["receiver_id"].(float64)

				if text == "" || !s.isMealParticipant(ctx, userID, mealID) {
					return
				}

				// Same rate limit as the HTTP endpoint (15 per minute)
				id := fmt.Sprintf("user:%d", userID)
				allowed, _ := middleware.CheckRateLimit(ctx, s.redis, "send_meal_message", id, 15, time.Minute)
				if !allowed {
					response := notifications.Event{
						Type: "error",
						Payload: map[string]string{
							"message": "Rate limit exceeded. Please wait a moment.",
						},
					}
					if respJSON, err := json.Marshal(response); err == nil {
						c.TrySend(respJSON)
					}
					return
				}

				// Send persists the message and publishes it into the room
				if _, serr := s.convService.Send(ctx, service.SendMessageInput{
					MealID:     mealID,
					SenderID:   userID,
					ReceiverID: uint(receiverFloat),
					Message:    text,
				}); serr != nil {
					response := notifications.Event{
						Type:    "error",
						MealID:  mealID,
						Payload: map[string]string{"message": serr.Error()},
					}
					if respJSON, err := json.Marshal(response); err == nil {
						c.TrySend(respJSON)
					}
				}
			}
		}

		// Send welcome message
		welcomeMsg := notifications.Event{
			Type:    "connected",
			Payload: map[string]interface{}{"user_id": userID},
		}
		if welcomeJSON, err := json.Marshal(welcomeMsg); err == nil {
			client.TrySend(welcomeJSON)
		}

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the main handler goroutine (blocking)
		client.ReadPump()
	})
}

// isMealParticipant checks whether the user is the giver or current taker of
// the meal.
func (s *Server) isMealParticipant(ctx context.Context, userID, mealID uint) bool {
	listing, err := s.listingRepo.GetByID(ctx, mealID)
	if err != nil {
		return false
	}
	return listing.IsParticipant(userID)
}
