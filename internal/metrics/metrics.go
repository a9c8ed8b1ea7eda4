package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry metrics
var (
	// RegistryConnectedClients tracks the number of registered live connections
	RegistryConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_connected_clients",
			Help: "Number of authenticated WebSocket connections currently registered",
		},
	)

	// RegistryReplacedConnections counts registrations that superseded an existing entry
	RegistryReplacedConnections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registry_replaced_connections_total",
			Help: "Total registrations that replaced a prior connection for the same user",
		},
	)

	// RegistryCommandChannelDepth tracks the registry actor's command backlog
	RegistryCommandChannelDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_command_channel_depth",
			Help: "Current depth of the registry command channel",
		},
	)
)

// Dispatcher metrics
var (
	// PushesTotal tracks push attempts by outcome (delivered/miss/failed)
	PushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_pushes_total",
			Help: "Push attempts by outcome",
		},
		[]string{"outcome"},
	)

	// SlowClientsEvicted counts clients dropped because their send buffer was full
	SlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_slow_clients_evicted_total",
			Help: "Clients evicted because their send buffer was full on push",
		},
	)
)

// WebSocket connection metrics
var (
	// WebSocketMessageSendDuration tracks how long a single frame write takes
	WebSocketMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	// WebSocketPingFailures counts failed keepalive pings
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Total failed WebSocket keepalive pings",
		},
	)

	// WebSocketAuthFailures counts rejected handshake attempts
	WebSocketAuthFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_auth_failures_total",
			Help: "Total WebSocket handshake auth failures",
		},
	)

	// WebSocketAuthTimeouts counts connections closed without a valid handshake
	WebSocketAuthTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_auth_timeouts_total",
			Help: "Connections closed because no valid auth arrived within the grace period",
		},
	)

	// WebSocketMalformedMessages counts ignored inbound frames
	WebSocketMalformedMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_malformed_messages_total",
			Help: "Inbound frames ignored as malformed or of unknown type",
		},
	)

	// WebSocketConnectionsRejected counts upgrades refused by connection limits
	WebSocketConnectionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_rejected_total",
			Help: "WebSocket connections rejected by limit type",
		},
		[]string{"reason"},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
