package sse

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FinStream/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	name string
	data []string
}

// parseEvents reads a text/event-stream body. The space after the field
// colon is optional, as in the event-stream grammar.
func parseEvents(t *testing.T, body string) []event {
	t.Helper()
	var (
		out []event
		cur event
	)
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if cur.name != "" || len(cur.data) > 0 {
				out = append(out, cur)
			}
			cur = event{}
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			cur.name = value
		case "data":
			cur.data = append(cur.data, value)
		}
	}
	require.NoError(t, sc.Err())
	return out
}

func TestWriter_Headers(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	w.Open()
	w.Open()

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.True(t, rec.Flushed)
	assert.Empty(t, rec.Body.String())
}

func TestWriter_SendSingleLine(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.Send(models.Fragment{MountID: "message", Markup: `<div id="message">H</div>`}))
	require.NoError(t, w.Send(models.Fragment{MountID: "message", Markup: `<div id="message">He</div>`}))

	events := parseEvents(t, rec.Body.String())
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, EventMergeFragments, ev.name)
	}
	assert.Equal(t, []string{`fragments <div id="message">H</div>`}, events[0].data)
	assert.Equal(t, []string{`fragments <div id="message">He</div>`}, events[1].data)
}

func TestWriter_SendMultiLine(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	markup := "<table id=\"t\">\n<tr><td>1</td></tr>\r\n<tr><td>2</td></tr>\r</table>"
	require.NoError(t, w.Send(models.Fragment{MountID: "t", Markup: markup}))

	events := parseEvents(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, []string{
		`fragments <table id="t">`,
		`fragments <tr><td>1</td></tr>`,
		`fragments <tr><td>2</td></tr>`,
		`fragments </table>`,
	}, events[0].data)
	assert.NotContains(t, rec.Body.String(), `\r`)
}

type plainWriter struct{ http.ResponseWriter }

func TestNewWriter_RequiresFlusher(t *testing.T) {
	_, err := NewWriter(plainWriter{httptest.NewRecorder()})
	assert.ErrorIs(t, err, ErrNotFlushable)
}
