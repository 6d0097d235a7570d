package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InteractionsTotal counts engagement operations by action and outcome.
	InteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptly_interactions_total",
		Help: "Total engagement operations by action and result",
	}, []string{"action", "result"})

	// InteractionRetries counts transient conflicts that were retried.
	InteractionRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptly_interaction_retries_total",
		Help: "Transient storage conflicts retried by operation",
	}, []string{"action"})

	// PromptsCreated counts committed prompt creations.
	PromptsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptly_prompts_created_total",
		Help: "Total number of prompts created",
	})

	// AssetUploadLatency records asset host call latency by backend and result.
	AssetUploadLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptly_asset_upload_seconds",
		Help:    "Asset upload latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "result"})

	// EventsPublished counts outbound domain events by backend, type and result.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptly_events_published_total",
		Help: "Domain events published by backend, type and result",
	}, []string{"backend", "event_type", "result"})

	// DatabaseQueryLatency records query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptly_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedConnections is the number of open realtime feed sockets.
	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "promptly_feed_connections",
		Help: "Number of active realtime feed connections",
	})

	// WebSocketBackpressureDrops counts feed messages dropped for slow or closed clients.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptly_websocket_backpressure_drops_total",
		Help: "Feed messages dropped by hub and reason",
	}, []string{"hub", "reason"})
)

// Result labels an outcome as "ok" or "error".
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// TrackQuery returns a func that records query latency when called, for use with defer.
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
