package ws

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"FinStream/internal/domain/models"

	"github.com/gorilla/websocket"
)

// DefaultWriteTimeout bounds a single frame write.
const DefaultWriteTimeout = 10 * time.Second

const readLimit = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Sink sends fragments to one WebSocket client as JSON text frames.
// Send and Close must be called from a single goroutine.
type Sink struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

// Upgrade switches the connection to WebSocket. On failure the upgrader has
// already written an HTTP error response.
func Upgrade(w http.ResponseWriter, r *http.Request, writeTimeout time.Duration) (*Sink, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket upgrade: %w", err)
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	conn.SetReadLimit(readLimit)
	return &Sink{conn: conn, writeTimeout: writeTimeout}, nil
}

// Send writes f as {"mountId": ..., "markup": ...}.
func (s *Sink) Send(f models.Fragment) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(f)
}

// Watch reads from the peer in the background and calls cancel once the
// connection is closed or broken. Inbound messages are ignored.
func (s *Sink) Watch(cancel context.CancelFunc) {
	go func() {
		defer cancel()
		for {
			if _, _, err := s.conn.NextReader(); err != nil {
				return
			}
		}
	}()
}

// Close sends a close frame with the given code and releases the connection.
func (s *Sink) Close(code int, text string) error {
	msg := websocket.FormatCloseMessage(code, text)
	werr := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.writeTimeout))
	cerr := s.conn.Close()
	if werr != nil && werr != websocket.ErrCloseSent {
		return werr
	}
	return cerr
}
