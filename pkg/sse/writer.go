package sse

import (
	"errors"
	"net/http"
	"strings"

	"FinStream/internal/domain/models"

	ginsse "github.com/gin-contrib/sse"
)

// EventMergeFragments is the datastar event that morphs markup into the
// element with the same id.
const EventMergeFragments = "datastar-merge-fragments"

const fragmentsPrefix = "fragments "

var ErrNotFlushable = errors.New("response writer does not support flushing")

// Writer writes fragments as datastar server-sent events.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	headers bool
}

// NewWriter wraps w. Headers are written with the first event.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrNotFlushable
	}
	return &Writer{w: w, flusher: f}, nil
}

// Open writes the event-stream headers and flushes them.
func (s *Writer) Open() {
	if s.headers {
		return
	}
	h := s.w.Header()
	h.Set("Content-Type", ginsse.ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
	s.flusher.Flush()
	s.headers = true
}

// Send writes one merge-fragments event and flushes it.
func (s *Writer) Send(f models.Fragment) error {
	s.Open()
	ev := ginsse.Event{
		Event: EventMergeFragments,
		Data:  fragmentData(f.Markup),
	}
	if err := ginsse.Encode(s.w, ev); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// fragmentData prefixes every markup line so the client reassembles the
// fragment from the data lines.
func fragmentData(markup string) string {
	lines := strings.Split(lineBreaks.Replace(markup), "\n")
	for i, l := range lines {
		lines[i] = fragmentsPrefix + l
	}
	return strings.Join(lines, "\n")
}
