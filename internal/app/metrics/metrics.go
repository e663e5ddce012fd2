// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "whisper_api"

// Transcription outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeRejected         = "rejected"
	OutcomeModelUnavailable = "model_unavailable"
	OutcomeFailed           = "failed"
)

// Metrics groups every collector. The zero value is not usable; call New.
type Metrics struct {
	httpRequests          *prometheus.CounterVec
	transcriptions        *prometheus.CounterVec
	transcriptionDuration prometheus.Histogram
	modelLoads            *prometheus.CounterVec
	modelLoadDuration     prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "path", "status"}),
		transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Transcription requests by outcome.",
		}, []string{"outcome"}),
		transcriptionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_duration_seconds",
			Help:      "Wall time of successful transcriptions.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		modelLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_loads_total",
			Help:      "Speech model load attempts by result.",
		}, []string{"result"}),
		modelLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_load_duration_seconds",
			Help:      "Wall time of speech model load attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.transcriptions,
		m.transcriptionDuration,
		m.modelLoads,
		m.modelLoadDuration,
	)
	return m
}

// ObserveHTTPRequest counts one finished request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// ObserveTranscription counts a transcription by outcome. Only successful
// runs contribute to the duration histogram.
func (m *Metrics) ObserveTranscription(outcome string, elapsed time.Duration) {
	m.transcriptions.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.transcriptionDuration.Observe(elapsed.Seconds())
	}
}

// ObserveModelLoad implements speech.LoadObserver.
func (m *Metrics) ObserveModelLoad(err error, elapsed time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.modelLoads.WithLabelValues(result).Inc()
	m.modelLoadDuration.Observe(elapsed.Seconds())
}
