package ws

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket wraps a gorilla connection with a cancellable lifetime and
// the read/write discipline the relay expects.
type WebSocket struct {
	*websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

func NewWebSocket(parent context.Context, conn *websocket.Conn) *WebSocket {
	ctx, cancel := context.WithCancel(parent)
	return &WebSocket{Conn: conn, ctx: ctx, cancel: cancel}
}

func (w *WebSocket) WriteMessage(data []byte) error {
	w.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.Conn.WriteMessage(websocket.TextMessage, data)
}

// ReadLoop feeds inbound frames to onMsg until the connection breaks.
// Frames are handed over in arrival order; the relay relies on this for
// its per-connection ordering guarantee.
func (w *WebSocket) ReadLoop(onMsg func([]byte)) {
	defer w.Close()

	// SDP offers stay well under this.
	w.Conn.SetReadLimit(64 * 1024)

	for {
		_, data, err := w.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("ws - read loop - unexpected close", "err", err)
			}
			break
		}
		if len(data) > 0 {
			onMsg(data)
		}
	}
}

func (w *WebSocket) Close() {
	w.cancel()
	_ = w.Conn.Close()
}
