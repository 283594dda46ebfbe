// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SharesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkshare_shares_total",
		Help: "Share requests by outcome.",
	}, []string{"result"})

	ShowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkshare_shows_total",
		Help: "Show requests by format and outcome.",
	}, []string{"format", "result"})

	KeySpaceExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkshare_key_space_exhausted_total",
		Help: "Shares that ran out of candidate keys.",
	})

	EventPublishErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkshare_event_publish_errors_total",
		Help: "Analytics events that could not be published.",
	}, []string{"topic"})

	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkshare_events_consumed_total",
		Help: "Analytics events taken off a topic, by outcome.",
	}, []string{"topic", "result"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkshare_http_request_duration_seconds",
		Help:    "Time from request receipt to response.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route", "status"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
