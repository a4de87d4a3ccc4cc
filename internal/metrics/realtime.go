package metrics

import "github.com/prometheus/client_golang/prometheus"

// RealtimeMetrics holds Prometheus metrics for the WebSocket relay.
type RealtimeMetrics struct {
	ActiveConnections prometheus.Gauge
	ActiveRooms       prometheus.Gauge
	MessagesRelayed   *prometheus.CounterVec
	SlowClients       prometheus.Counter
	BridgeErrors      prometheus.Counter
}

// NewRealtimeMetrics creates and registers relay metrics on the given registry.
func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	m := &RealtimeMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active WebSocket connections.",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_rooms",
			Help:      "Number of board rooms with at least one local client.",
		}),
		MessagesRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_relayed_total",
			Help:      "Total number of frames delivered to board rooms, by origin.",
		}, []string{"origin"}),
		SlowClients: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "slow_clients_dropped_total",
			Help:      "Total number of clients disconnected because their send buffer was full.",
		}),
		BridgeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "errors_total",
			Help:      "Total number of failed cross-instance publishes or decodes.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.ActiveRooms, m.MessagesRelayed, m.SlowClients, m.BridgeErrors)
	return m
}
