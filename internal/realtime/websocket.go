// internal/realtime/websocket.go
package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const writeWait = 10 * time.Second

var errConnClosed = errors.New("realtime: connection closed")

// WebSocketConn serializes writes to a websocket.Conn, which allows only
// one concurrent writer.
type WebSocketConn struct {
	Conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

func (w *WebSocketConn) WriteText(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errConnClosed
	}
	_ = w.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.Conn.WriteMessage(websocket.TextMessage, data)
}

func (w *WebSocketConn) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errConnClosed
	}
	_ = w.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.Conn.WriteJSON(v)
}

// Close sends a close frame and closes the socket. Later calls are no-ops.
func (w *WebSocketConn) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return w.Conn.Close()
}

// WritePump forwards queued frames to the socket until the hub closes
// client.Send or a write fails, then closes the socket and done. The
// caller owns the connection and must not return before done is closed.
func (c *Client) WritePump(done chan<- struct{}) {
	defer close(done)
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteText(msg); err != nil {
			return
		}
	}
}
