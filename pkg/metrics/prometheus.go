package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fragmentsSent *prometheus.CounterVec
	streamsTotal  *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		fragmentsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finstream_fragments_sent_total",
				Help: "Total number of fragments pushed to clients",
			},
			[]string{"flow"},
		),
		streamsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finstream_streams_total",
				Help: "Total number of finished streams by outcome",
			},
			[]string{"flow", "outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finstream_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finstream_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFragmentSent records one fragment delivered on a flow.
func (r *Recorder) RecordFragmentSent(flow string) {
	r.fragmentsSent.WithLabelValues(flow).Inc()
}

// RecordStream records a finished stream and how it ended.
func (r *Recorder) RecordStream(flow, outcome string) {
	r.streamsTotal.WithLabelValues(flow, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
