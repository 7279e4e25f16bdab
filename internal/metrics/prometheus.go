// Package metrics exposes Prometheus collectors for the complaint server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ComplaintsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "railsahayak_complaints_total",
			Help: "Complaint submissions by outcome",
		},
		[]string{"outcome"},
	)

	AssistantIntents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "railsahayak_assistant_intents_total",
			Help: "Assistant replies by detected intent and language",
		},
		[]string{"intent", "language"},
	)

	AssistantSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "railsahayak_assistant_sessions",
			Help: "Open assistant sessions",
		},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "railsahayak_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "status"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "railsahayak_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// Outcome labels for ComplaintsTotal
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeMalformed = "malformed"
)

// Init registers every collector with the default registry
func Init() {
	prometheus.MustRegister(ComplaintsTotal)
	prometheus.MustRegister(AssistantIntents)
	prometheus.MustRegister(AssistantSessions)
	prometheus.MustRegister(HTTPDuration)
	prometheus.MustRegister(RateLimited)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
