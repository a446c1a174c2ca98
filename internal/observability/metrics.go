package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manisr_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ListingTransitions counts meal lifecycle transitions by outcome.
	ListingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manisr_listing_transitions_total",
		Help: "Total meal listing lifecycle transitions by type and outcome",
	}, []string{"transition", "outcome"})

	// ReservationsExpired counts reservations reverted by the lease sweeper.
	ReservationsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "manisr_reservations_expired_total",
		Help: "Total reservations reverted to available after their hold lapsed",
	})

	// ActiveWebSockets is the gauge of open websocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "manisr_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketRoomConnections is the gauge of connections per meal room.
	WebSocketRoomConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "manisr_websocket_room_connections",
		Help: "Number of WebSocket connections per meal room",
	}, []string{"room_id"})

	// MessageThroughput counts broadcast messages by event type.
	MessageThroughput = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manisr_broadcast_messages_total",
		Help: "Total number of broadcast messages by event type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to slow clients.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manisr_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// RecordTransition increments the lifecycle transition counter.
func RecordTransition(transition, outcome string) {
	ListingTransitions.WithLabelValues(transition, outcome).Inc()
}
