package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat-Server Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chat",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Chat turn counter
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "server",
			Name:      "turns_total",
			Help:      "Total chat turns processed",
		},
		[]string{"status"},
	)

	// Generation duration histogram
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chat",
			Subsystem: "server",
			Name:      "generation_duration_seconds",
			Help:      "Response generation duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordChatTurn records a completed or failed chat turn
func RecordChatTurn(status string) {
	ChatTurnsTotal.WithLabelValues(status).Inc()
}

// ObserveGeneration records one response generation duration
func ObserveGeneration(durationSec float64) {
	GenerationDuration.Observe(durationSec)
}
