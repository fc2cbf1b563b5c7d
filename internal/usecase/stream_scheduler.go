package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"FinStream/internal/domain/models"
	drepo "FinStream/internal/domain/repository"
	"FinStream/internal/services/render"
	"FinStream/internal/services/valuation"
)

// Mount points the pages expose.
const (
	MountMessage    = "message"
	MountTotalValue = "total-value"
	MountCashFlows  = "cash-flow-table"
)

// Flow names used in logs and metrics.
const (
	FlowDemo      = "demo"
	FlowValuation = "valuation"
)

// DefaultDemoMessage is streamed one character at a time by the demo flow.
const DefaultDemoMessage = "Hello, world!"

// Step is one fragment plus the pause before the next one.
type Step struct {
	Fragment models.Fragment
	Wait     time.Duration
}

// StreamScheduler plans fragment sequences and emits them in order.
type StreamScheduler struct {
	renderer *render.Renderer
	metrics  drepo.Metrics
	message  []rune
}

// NewStreamScheduler creates a scheduler. An empty message falls back to
// DefaultDemoMessage.
func NewStreamScheduler(renderer *render.Renderer, metrics drepo.Metrics, message string) *StreamScheduler {
	if message == "" {
		message = DefaultDemoMessage
	}
	return &StreamScheduler{renderer: renderer, metrics: metrics, message: []rune(message)}
}

// ValuationPlan runs the engine once and renders the headline followed by
// the full table. Both are emitted back to back.
func (s *StreamScheduler) ValuationPlan(req models.ValuationRequest) ([]Step, error) {
	start := time.Now()
	res := valuation.ComputeValuation(req)
	if s.metrics != nil {
		s.metrics.RecordLatency("valuation_compute", time.Since(start).Seconds())
	}

	headline, err := s.renderer.RenderHeadline(MountTotalValue, res)
	if err != nil {
		return nil, fmt.Errorf("valuation headline: %w", err)
	}
	table, err := s.renderer.Render(MountCashFlows, res)
	if err != nil {
		return nil, fmt.Errorf("valuation table: %w", err)
	}
	return []Step{{Fragment: headline}, {Fragment: table}}, nil
}

// DemoPlan renders every prefix of the demo message, one rune longer each
// time, with the requested delay between consecutive fragments.
func (s *StreamScheduler) DemoPlan(sig models.PacingSignal) ([]Step, error) {
	wait := delay(sig.DelayMilliseconds)
	steps := make([]Step, 0, len(s.message))
	for i := 1; i <= len(s.message); i++ {
		f, err := s.renderer.Render(MountMessage, string(s.message[:i]))
		if err != nil {
			return nil, fmt.Errorf("demo fragment %d: %w", i, err)
		}
		steps = append(steps, Step{Fragment: f, Wait: wait})
	}
	return steps, nil
}

// Start emits steps on the returned channel from a single goroutine. The
// channel is unbuffered and closed exactly once, after the last fragment or
// as soon as ctx is cancelled. No wait follows the last fragment.
func (s *StreamScheduler) Start(ctx context.Context, steps []Step) <-chan models.Fragment {
	out := make(chan models.Fragment)
	go func() {
		defer close(out)
		for i, st := range steps {
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- st.Fragment:
			case <-ctx.Done():
				return
			}
			if i < len(steps)-1 && !sleep(ctx, st.Wait) {
				return
			}
		}
	}()
	return out
}

// delay converts milliseconds to a Duration, saturating instead of
// overflowing.
func delay(ms uint64) time.Duration {
	if ms > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

// sleep waits for d unless ctx is cancelled first. It reports whether the
// caller should continue.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return ctx.Err() == nil
	}
}
