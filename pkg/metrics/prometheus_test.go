package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordFragmentSent("demo")
	r.RecordFragmentSent("demo")
	r.RecordStream("demo", "aborted")
	r.RecordError("pipeline_send")
	r.RecordLatency("valuation_compute", 0.001)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.fragmentsSent.WithLabelValues("demo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.streamsTotal.WithLabelValues("demo", "aborted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("pipeline_send")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "finstream_operation_duration_seconds")
}
