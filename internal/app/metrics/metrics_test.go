package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTPRequest("POST", "/api/v1/transcribe", 200)
	m.ObserveHTTPRequest("POST", "/api/v1/transcribe", 200)
	m.ObserveHTTPRequest("GET", "/api/v1/health", 200)

	m.ObserveTranscription(OutcomeSuccess, 2*time.Second)
	m.ObserveTranscription(OutcomeRejected, 0)

	m.ObserveModelLoad(errors.New("boom"), time.Second)
	m.ObserveModelLoad(nil, 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/transcribe", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transcriptions.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transcriptions.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelLoads.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelLoads.WithLabelValues("success")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
		if f.GetName() == "whisper_api_transcription_duration_seconds" {
			// only the successful transcription is timed
			assert.Equal(t, uint64(1), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.Contains(t, names, "whisper_api_transcription_duration_seconds")
	assert.Contains(t, names, "whisper_api_http_requests_total")
	assert.Contains(t, names, "whisper_api_model_loads_total")
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
