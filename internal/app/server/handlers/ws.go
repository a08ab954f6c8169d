package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/eric-kaloki/server-medconnect/internal/app/server/ws"
	"github.com/eric-kaloki/server-medconnect/internal/core/services"
	"github.com/eric-kaloki/server-medconnect/pkg/logging"
)

// WSHandler upgrades signaling connections and runs their read loop.
// Connections are not authenticated here: a room id is the only access
// control, which matches the trust model of short-lived, server-issued
// call channels.
type WSHandler struct {
	relay *services.RelayService
}

func NewWSHandler(relay *services.RelayService) *WSHandler {
	return &WSHandler{relay: relay}
}

func (s *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	span := trace.SpanFromContext(r.Context())

	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)
	defer cancel()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten later
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetCloseHandler(func(code int, text string) error {
		cancel()
		return nil
	})

	connID := uuid.NewString()
	span.SetAttributes(attribute.String("signaling.conn_id", connID))
	sock := ws.NewWebSocket(ctx, conn)
	client := ws.NewClient(ctx, sock, connID)

	s.relay.HandleConnect(client)
	defer s.relay.HandleDisconnect(client)
	defer client.Close()
	log.InfoContext(r.Context(), "ws handler - signaling connection established", "conn_id", connID)

	// Events are handled inline, not in per-message goroutines: the
	// relay's ordering guarantee is exactly the read order of this loop.
	sock.ReadLoop(func(data []byte) {
		s.relay.HandleEvent(ctx, client, data)
	})
}
