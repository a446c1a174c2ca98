package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types fanned out to connected clients. Delivery is best-effort: there
// is no acknowledgment and no replay for clients that connect after the event.
const (
	EventNewMessage    = "newMessage"
	EventMealReserved  = "mealReserved"
	EventMealCollected = "mealCollected"
	EventMealArchived  = "mealArchived"
	EventMealAvailable = "mealAvailable"
)

// Event is the envelope broadcast to websocket clients.
type Event struct {
	Type    string      `json:"type"`
	MealID  uint        `json:"meal_id,omitempty"`
	Payload interface{} `json:"payload"`
}

// NewMessagePayload carries one chat line into a meal room.
type NewMessagePayload struct {
	SenderID  uint      `json:"sender_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// LifecyclePayload carries a meal state-change event.
type LifecyclePayload struct {
	MealID     uint       `json:"meal_id"`
	GiverID    uint       `json:"giver_id"`
	TakerID    *uint      `json:"taker_id,omitempty"`
	ReservedAt *time.Time `json:"reserved_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Notifier provides helpers to publish meal events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishConversation sends a payload to a meal's conversation channel.
func (n *Notifier) PublishConversation(ctx context.Context, mealID uint, event Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, MealChannel(mealID), payload).Err()
}

// PublishLifecycle sends a meal state-change event to the global lifecycle channel.
func (n *Notifier) PublishLifecycle(ctx context.Context, event Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, LifecycleChannel, payload).Err()
}

// StartMealSubscriber subscribes to the per-meal conversation pattern and the
// global lifecycle channel, calling onMessage for each incoming message.
func (n *Notifier) StartMealSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "meal:conv:*", LifecycleChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in MealSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// LifecycleChannel is the global fan-out channel for meal state changes.
const LifecycleChannel = "meal:lifecycle"

// MealChannel derives the Redis channel name for a meal's conversation.
func MealChannel(mealID uint) string {
	return "meal:conv:" + strconv.FormatUint(uint64(mealID), 10)
}
