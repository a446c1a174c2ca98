package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/Galomer310/ManisR-backend/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per user
	maxConnsPerUser = 8
	// Max total connections
	maxTotalConns = 10000
)

// MealHub manages websocket connections grouped into per-meal rooms. Room
// membership is decided by the websocket handler, which verifies the joining
// user participates in the meal before calling JoinRoom; the hub itself only
// tracks connections and fans events out.
type MealHub struct {
	mu sync.RWMutex

	// mealID -> userID -> client set
	rooms map[uint]map[uint]map[*Client]struct{}

	// userID -> set of active clients (multi-device support)
	userConns map[uint]map[*Client]struct{}

	// userID -> set of mealIDs they joined
	userRooms map[uint]map[uint]struct{}

	totalConns int
}

// Name returns a human-readable identifier for this hub.
func (h *MealHub) Name() string { return "meal hub" }

// NewMealHub creates a new MealHub instance.
func NewMealHub() *MealHub {
	return &MealHub{
		rooms:     make(map[uint]map[uint]map[*Client]struct{}),
		userConns: make(map[uint]map[*Client]struct{}),
		userRooms: make(map[uint]map[uint]struct{}),
	}
}

// Register registers a user's websocket connection. Returns the Client or an
// error if connection limits are exceeded.
func (h *MealHub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()

	if h.totalConns >= maxTotalConns {
		h.mu.Unlock()
		return nil, errors.New("server connection limit reached")
	}

	if h.userConns[userID] == nil {
		h.userConns[userID] = make(map[*Client]struct{})
	}
	if len(h.userConns[userID]) >= maxConnsPerUser {
		h.mu.Unlock()
		return nil, errors.New("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	h.userConns[userID][client] = struct{}{}
	h.totalConns++
	h.mu.Unlock()

	observability.ActiveWebSockets.Inc()
	return client, nil
}

// UnregisterClient removes a connection and, when it was the user's last one,
// drops the user from all joined rooms.
func (h *MealHub) UnregisterClient(client *Client) {
	h.mu.Lock()

	clients, ok := h.userConns[client.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, exists := clients[client]; !exists {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	h.totalConns--
	observability.ActiveWebSockets.Dec()

	if len(clients) > 0 {
		// User still has other connections; just detach this one from rooms.
		for mealID := range h.userRooms[client.UserID] {
			if users, ok := h.rooms[mealID]; ok {
				if conns, ok := users[client.UserID]; ok {
					delete(conns, client)
				}
			}
		}
		h.mu.Unlock()
		return
	}

	delete(h.userConns, client.UserID)
	for mealID := range h.userRooms[client.UserID] {
		h.removeFromRoomLocked(mealID, client.UserID)
	}
	delete(h.userRooms, client.UserID)
	h.mu.Unlock()
}

func (h *MealHub) removeFromRoomLocked(mealID, userID uint) {
	if users, ok := h.rooms[mealID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(h.rooms, mealID)
		}
		observability.WebSocketRoomConnections.WithLabelValues(roomLabel(mealID)).Dec()
	}
}

// JoinRoom subscribes one of the user's clients to a meal room.
func (h *MealHub) JoinRoom(client *Client, mealID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[mealID] == nil {
		h.rooms[mealID] = make(map[uint]map[*Client]struct{})
	}
	if h.rooms[mealID][client.UserID] == nil {
		h.rooms[mealID][client.UserID] = make(map[*Client]struct{})
	}
	h.rooms[mealID][client.UserID][client] = struct{}{}

	if h.userRooms[client.UserID] == nil {
		h.userRooms[client.UserID] = make(map[uint]struct{})
	}
	h.userRooms[client.UserID][mealID] = struct{}{}

	observability.WebSocketRoomConnections.WithLabelValues(roomLabel(mealID)).Inc()
}

// LeaveRoom removes the user's client from a meal room.
func (h *MealHub) LeaveRoom(client *Client, mealID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if users, ok := h.rooms[mealID]; ok {
		if conns, ok := users[client.UserID]; ok {
			delete(conns, client)
			if len(conns) == 0 {
				h.removeFromRoomLocked(mealID, client.UserID)
			}
		}
	}
	if rooms, ok := h.userRooms[client.UserID]; ok {
		delete(rooms, mealID)
	}
}

// BroadcastRoom sends data to every client joined to the meal's room.
func (h *MealHub) BroadcastRoom(mealID uint, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.rooms[mealID] {
		for c := range conns {
			c.TrySend(data)
		}
	}
}

// BroadcastAll sends data to every connected client.
func (h *MealHub) BroadcastAll(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.userConns {
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// RoomSize reports how many users are joined to a meal room.
func (h *MealHub) RoomSize(mealID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[mealID])
}

// StartWiring connects the Notifier to this hub: per-meal conversation
// channels fan into the matching room, lifecycle events fan out to everyone.
func (h *MealHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartMealSubscriber(ctx, func(channel, payload string) {
		if channel == LifecycleChannel {
			observability.MessageThroughput.WithLabelValues("lifecycle").Inc()
			h.BroadcastAll([]byte(payload))
			return
		}
		if !strings.HasPrefix(channel, "meal:conv:") {
			log.Printf("invalid meal channel: %s", channel)
			return
		}
		mealID, err := strconv.ParseUint(strings.TrimPrefix(channel, "meal:conv:"), 10, 32)
		if err != nil {
			log.Printf("invalid meal channel: %s", channel)
			return
		}
		observability.MessageThroughput.WithLabelValues("conversation").Inc()
		h.BroadcastRoom(uint(mealID), []byte(payload))
	})
}

// Shutdown gracefully closes all websocket connections
func (h *MealHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	for userID, userConns := range h.userConns {
		for client := range userConns {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("failed to write close message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", userID, err)
			}
		}
	}
	h.rooms = make(map[uint]map[uint]map[*Client]struct{})
	h.userConns = make(map[uint]map[*Client]struct{})
	h.userRooms = make(map[uint]map[uint]struct{})
	h.totalConns = 0
	h.mu.Unlock()

	return nil
}

func roomLabel(mealID uint) string {
	return fmt.Sprintf("meal:%d", mealID)
}
