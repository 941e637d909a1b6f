package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) *dto.Metric {
	t.Helper()
	out := &dto.Metric{}
	require.NoError(t, m.Write(out))
	return out
}

func TestSubmissionCollectors(t *testing.T) {
	counter := SubmissionsTotal.WithLabelValues("batch", "failed")
	before := value(t, counter).GetCounter().GetValue()
	counter.Inc()
	assert.Equal(t, before+1, value(t, counter).GetCounter().GetValue())

	SubmissionsInFlight.Inc()
	SubmissionsInFlight.Dec()
	assert.Equal(t, float64(0), value(t, SubmissionsInFlight).GetGauge().GetValue())
}

func TestCollectorsOnDefaultRegistry(t *testing.T) {
	SessionTransitions.WithLabelValues("SelectingMode", "CapturingInput").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["search_session_transitions_total"])
	assert.True(t, names["search_submissions_in_flight"])
}
