package translate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

var (
	translationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "announcer_translation_requests_total",
			Help: "Total number of translation engine requests",
		},
		[]string{"engine", "status"},
	)

	translationRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "announcer_translation_request_duration_seconds",
			Help:    "Duration of translation engine requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"engine", "status"},
	)

	translationFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "announcer_translation_fallbacks_total",
			Help: "Translations that fell back to the source text",
		},
		[]string{"engine", "target_lang"},
	)
)

func observeRequest(engine, status string, d time.Duration) {
	translationRequestsTotal.WithLabelValues(engine, status).Inc()
	translationRequestDuration.WithLabelValues(engine, status).Observe(d.Seconds())
}
