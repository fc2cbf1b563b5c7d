package middleware

import (
	"context"
	"fmt"
	"time"

	"FinStream/internal/domain/models"
	domrepo "FinStream/internal/domain/repository"
	applogger "FinStream/pkg/logger"
)

// Stream outcomes reported to metrics.
const (
	OutcomeCompleted = "completed"
	OutcomeAborted   = "aborted"
)

// FragmentPipeline is a middleware between the stream scheduler and a
// transport sink. It forwards fragments one at a time and stops the
// producer as soon as the client is gone.
type FragmentPipeline struct {
	metrics  domrepo.Metrics
	logger   *applogger.Logger
	slowSend time.Duration
}

type PipelineOption func(*FragmentPipeline)

// WithLogger sets the logger used for send failures and slow sends.
func WithLogger(l *applogger.Logger) PipelineOption {
	return func(p *FragmentPipeline) { p.logger = l }
}

// WithSlowSend logs sends that take longer than d. Zero disables it.
func WithSlowSend(d time.Duration) PipelineOption {
	return func(p *FragmentPipeline) {
		if d >= 0 {
			p.slowSend = d
		}
	}
}

// NewFragmentPipeline creates a new pipeline.
func NewFragmentPipeline(metrics domrepo.Metrics, opts ...PipelineOption) *FragmentPipeline {
	p := &FragmentPipeline{
		metrics:  metrics,
		slowSend: time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Drain forwards every fragment from ch to sink until ch is closed. On a
// send failure or a cancelled ctx it calls cancel, stops sending and keeps
// reading until the producer closes ch. The stream counts as aborted when
// fewer than expected fragments reached the sink. Aborts are not errors.
func (p *FragmentPipeline) Drain(ctx context.Context, cancel context.CancelFunc, flow string, expected int, ch <-chan models.Fragment, sink domrepo.FragmentSink) models.StreamResult {
	var res models.StreamResult
	stopped := false
	stop := func() {
		stopped = true
		cancel()
	}

	for f := range ch {
		if stopped {
			continue
		}
		if ctx.Err() != nil {
			stop()
			continue
		}
		if err := validateFragment(f); err != nil {
			p.recordError("pipeline_validate")
			p.debug("fragment rejected", flow, err)
			stop()
			continue
		}

		start := time.Now()
		if err := sink.Send(f); err != nil {
			p.recordError("pipeline_send")
			p.debug("fragment send failed", flow, err)
			stop()
			continue
		}
		elapsed := time.Since(start)
		res.Sent++

		if p.metrics != nil {
			p.metrics.RecordFragmentSent(flow)
			p.metrics.RecordLatency("fragment_send", elapsed.Seconds())
		}
		if p.logger != nil && p.slowSend > 0 && elapsed >= p.slowSend {
			p.logger.Warn("fragment send slow",
				applogger.String("flow", flow),
				applogger.String("mount_id", f.MountID),
				applogger.Duration("duration_ms", elapsed),
			)
		}
	}

	res.Aborted = stopped || res.Sent < expected
	if p.metrics != nil {
		outcome := OutcomeCompleted
		if res.Aborted {
			outcome = OutcomeAborted
		}
		p.metrics.RecordStream(flow, outcome)
	}
	return res
}

func (p *FragmentPipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}

func (p *FragmentPipeline) debug(msg, flow string, err error) {
	if p.logger != nil {
		p.logger.Debug(msg, applogger.String("flow", flow), applogger.Error(err))
	}
}

func validateFragment(f models.Fragment) error {
	if f.MountID == "" {
		return fmt.Errorf("fragment mount id empty")
	}
	if f.Markup == "" {
		return fmt.Errorf("fragment %s markup empty", f.MountID)
	}
	return nil
}
