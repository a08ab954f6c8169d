package ws

import (
	"context"
	"errors"
	"sync"
)

// RuntimeClient is one live signaling connection. Outbound messages go
// through a buffered channel drained by a single write loop, so many
// broadcasts may target the client concurrently without interleaving
// writes on the socket.
type RuntimeClient struct {
	ctx    context.Context
	cancel context.CancelFunc
	ws     *WebSocket
	id     string
	out    chan []byte
	once   sync.Once
}

func NewClient(parent context.Context, ws *WebSocket, id string) *RuntimeClient {
	ctx, cancel := context.WithCancel(parent)
	c := &RuntimeClient{
		ctx:    ctx,
		cancel: cancel,
		ws:     ws,
		id:     id,
		out:    make(chan []byte, 256),
	}
	go c.writeLoop()
	return c
}

func (c *RuntimeClient) ID() string { return c.id }

// Send never blocks: a slow consumer whose buffer is full loses the
// message rather than stalling a room broadcast.
func (c *RuntimeClient) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.ctx.Done():
		return errors.New("client closed")
	case c.out <- data:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Close is safe to call concurrently with Send; the out channel is
// never closed, the write loop exits through the context instead.
func (c *RuntimeClient) Close() {
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *RuntimeClient) writeLoop() {
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			_ = c.ws.WriteMessage(data)
		}
	}
}
