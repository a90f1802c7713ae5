package speech

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
	statusEmpty   = "empty"
)

var (
	synthesisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "announcer_synthesis_requests_total",
			Help: "Total number of speech synthesis requests",
		},
		[]string{"engine", "status"},
	)

	synthesisRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "announcer_synthesis_request_duration_seconds",
			Help:    "Duration of speech synthesis requests in seconds",
			Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		},
		[]string{"engine", "status"},
	)

	synthesisAudioBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "announcer_synthesis_audio_bytes",
			Help:    "Size of synthesized WAV clips in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 8),
		},
		[]string{"engine"},
	)

	pacingWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "announcer_synthesis_pacing_wait_seconds",
			Help:    "Time spent waiting between synthesis requests",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
		},
	)
)

func observeSynthesis(engine, status string, d time.Duration) {
	synthesisRequestsTotal.WithLabelValues(engine, status).Inc()
	synthesisRequestDuration.WithLabelValues(engine, status).Observe(d.Seconds())
}
