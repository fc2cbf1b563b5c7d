package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"FinStream/internal/domain/models"
	domrepo "FinStream/internal/domain/repository"
	"FinStream/internal/middleware"
	"FinStream/internal/services/valuation"
	"FinStream/internal/usecase"
	xhttp "FinStream/pkg/http"
	applogger "FinStream/pkg/logger"
	"FinStream/pkg/sse"
	"FinStream/pkg/ws"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// StreamHandler serves the demo and valuation flows over SSE and WebSocket.
type StreamHandler struct {
	logger          *applogger.Logger
	scheduler       *usecase.StreamScheduler
	pipeline        *middleware.FragmentPipeline
	metrics         domrepo.Metrics
	wsWriteTimeout  time.Duration
	allowDegenerate bool
}

type StreamOption func(*StreamHandler)

// WithWSWriteTimeout bounds each WebSocket frame write.
func WithWSWriteTimeout(d time.Duration) StreamOption {
	return func(h *StreamHandler) { h.wsWriteTimeout = d }
}

// WithAllowDegenerate streams valuations whose discount rate does not
// exceed the terminal growth rate instead of rejecting them.
func WithAllowDegenerate(allow bool) StreamOption {
	return func(h *StreamHandler) { h.allowDegenerate = allow }
}

func NewStreamHandler(
	l *applogger.Logger,
	scheduler *usecase.StreamScheduler,
	pipeline *middleware.FragmentPipeline,
	metrics domrepo.Metrics,
	opts ...StreamOption,
) *StreamHandler {
	if l == nil {
		l = applogger.Nop()
	}
	h := &StreamHandler{
		logger:         l,
		scheduler:      scheduler,
		pipeline:       pipeline,
		metrics:        metrics,
		wsWriteTimeout: ws.DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// streamRun pushes one planned stream into sink.
type streamRun func(ctx context.Context, cancel context.CancelFunc, sink domrepo.FragmentSink) models.StreamResult

// serveFunc opens a transport and hands it to run.
type serveFunc func(c echo.Context, run streamRun) error

// DemoSSE streams the demo message one character at a time.
func (h *StreamHandler) DemoSSE(c echo.Context) error {
	return h.demo(c, h.serveSSE)
}

// DemoWS is DemoSSE over a WebSocket.
func (h *StreamHandler) DemoWS(c echo.Context) error {
	return h.demo(c, h.serveWS)
}

// ValuationSSE streams the intrinsic value headline and the cash flow table.
func (h *StreamHandler) ValuationSSE(c echo.Context) error {
	return h.valuation(c, h.serveSSE)
}

// ValuationWS is ValuationSSE over a WebSocket.
func (h *StreamHandler) ValuationWS(c echo.Context) error {
	return h.valuation(c, h.serveWS)
}

func (h *StreamHandler) demo(c echo.Context, serve serveFunc) error {
	raw, err := ReadSignals(c)
	if err != nil {
		return h.reject(c, usecase.FlowDemo, err)
	}
	sig, err := DecodePacing(raw)
	if err != nil {
		return h.reject(c, usecase.FlowDemo, err)
	}
	steps, err := h.scheduler.DemoPlan(sig)
	if err != nil {
		return h.reject(c, usecase.FlowDemo, err)
	}
	return h.stream(c, usecase.FlowDemo, steps, serve)
}

func (h *StreamHandler) valuation(c echo.Context, serve serveFunc) error {
	raw, err := ReadSignals(c)
	if err != nil {
		return h.reject(c, usecase.FlowValuation, err)
	}
	req, err := DecodeValuation(c.Request().Context(), raw)
	if err != nil {
		return h.reject(c, usecase.FlowValuation, err)
	}
	if !h.allowDegenerate {
		if err := valuation.CheckValuation(req); err != nil {
			return h.reject(c, usecase.FlowValuation, err)
		}
	}
	steps, err := h.scheduler.ValuationPlan(req)
	if err != nil {
		return h.reject(c, usecase.FlowValuation, err)
	}
	return h.stream(c, usecase.FlowValuation, steps, serve)
}

func (h *StreamHandler) stream(c echo.Context, flow string, steps []usecase.Step, serve serveFunc) error {
	l := h.logger.With(
		applogger.String("stream_id", uuid.NewString()),
		applogger.String("flow", flow),
	)

	return serve(c, func(ctx context.Context, cancel context.CancelFunc, sink domrepo.FragmentSink) models.StreamResult {
		start := time.Now()
		l.Debug("stream started", applogger.Int("fragments", len(steps)))

		res := h.pipeline.Drain(ctx, cancel, flow, len(steps), h.scheduler.Start(ctx, steps), sink)

		fields := []applogger.Field{
			applogger.Int("sent", res.Sent),
			applogger.Duration("duration_ms", time.Since(start)),
		}
		if res.Aborted {
			l.Debug("stream ended early", append(fields, applogger.Error(models.ErrStreamAborted))...)
		} else {
			l.Info("stream completed", fields...)
		}
		return res
	})
}

func (h *StreamHandler) serveSSE(c echo.Context, run streamRun) error {
	w, err := sse.NewWriter(c.Response())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("streaming unsupported").WithError(err))
	}
	w.Open()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()
	run(ctx, cancel, w)
	return nil
}

func (h *StreamHandler) serveWS(c echo.Context, run streamRun) error {
	sink, err := ws.Upgrade(c.Response(), c.Request(), h.wsWriteTimeout)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", applogger.Error(err))
		return nil
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()
	sink.Watch(cancel)

	res := run(ctx, cancel, sink)
	code := websocket.CloseNormalClosure
	if res.Aborted {
		code = websocket.CloseGoingAway
	}
	if err := sink.Close(code, ""); err != nil {
		h.logger.Debug("websocket close failed", applogger.Error(err))
	}
	return nil
}

// reject answers before any stream is opened.
func (h *StreamHandler) reject(c echo.Context, flow string, err error) error {
	var mie *MalformedInputError
	switch {
	case errors.As(err, &mie):
		h.recordError("malformed_input")
		h.logger.Debug("signals rejected",
			applogger.String("flow", flow),
			applogger.String("path", c.Path()),
			applogger.Error(err),
		)
		return xhttp.BadRequestResponse(c, mie.Details)

	case errors.Is(err, models.ErrMalformedInput):
		h.recordError("malformed_input")
		return xhttp.BadRequestResponse(c, xhttp.BadRequestError(err.Error()).Validation())

	case errors.Is(err, models.ErrDegenerateValuation):
		h.recordError("degenerate_valuation")
		h.logger.Debug("valuation rejected", applogger.String("flow", flow), applogger.Error(err))
		appErr := xhttp.UnprocessableError("ERR_DEGENERATE_VALUATION",
			"discount rate must exceed terminal growth rate").WithError(err)
		return xhttp.AppErrorResponse(c, appErr)

	default:
		h.recordError("internal")
		h.logger.Error("stream setup failed", applogger.String("flow", flow), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError(http.StatusText(http.StatusInternalServerError)).WithError(err))
	}
}

func (h *StreamHandler) recordError(kind string) {
	if h.metrics != nil {
		h.metrics.RecordError(kind)
	}
}
