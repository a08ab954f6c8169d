package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

type fakeClient struct {
	id string

	mu   sync.Mutex
	sent [][]byte
}

func newFakeClient(id string) *fakeClient {
	return &fakeClient{id: id}
}

func (c *fakeClient) ID() string { return c.id }

func (c *fakeClient) Send(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeClient) Close() {}

func (c *fakeClient) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func TestJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	a := newFakeClient("a")
	r.Register(a)

	r.Join(a, "room-1")
	r.Join(a, "room-1")

	if got := r.RoomSize("room-1"); got != 1 {
		t.Errorf("RoomSize = %d, want 1", got)
	}
}

func TestBroadcastSkipsSender(t *testing.T) {
	r := NewRegistry()
	a := newFakeClient("a")
	b := newFakeClient("b")
	c := newFakeClient("c")
	for _, cl := range []*fakeClient{a, b, c} {
		r.Register(cl)
		r.Join(cl, "room-1")
	}

	r.Broadcast(context.Background(), "room-1", "a", []byte(`{"event":"offer"}`))

	if got := a.sentCount(); got != 0 {
		t.Errorf("sender received %d messages, want 0", got)
	}
	for _, cl := range []*fakeClient{b, c} {
		if got := cl.sentCount(); got != 1 {
			t.Errorf("client %s received %d messages, want 1", cl.id, got)
		}
	}
}

func TestBroadcastEmptyExceptReachesAll(t *testing.T) {
	r := NewRegistry()
	a := newFakeClient("a")
	b := newFakeClient("b")
	for _, cl := range []*fakeClient{a, b} {
		r.Register(cl)
		r.Join(cl, "room-1")
	}

	r.Broadcast(context.Background(), "room-1", "", []byte("x"))

	for _, cl := range []*fakeClient{a, b} {
		if got := cl.sentCount(); got != 1 {
			t.Errorf("client %s received %d messages, want 1", cl.id, got)
		}
	}
}

func TestBroadcastUnknownRoomIsNoop(t *testing.T) {
	r := NewRegistry()
	a := newFakeClient("a")
	r.Register(a)
	r.Join(a, "room-1")

	r.Broadcast(context.Background(), "no-such-room", "", []byte("x"))

	if got := a.sentCount(); got != 0 {
		t.Errorf("client received %d messages, want 0", got)
	}
}

func TestLeaveRemovesOnlyThatRoom(t *testing.T) {
	r := NewRegistry()
	a := newFakeClient("a")
	r.Register(a)
	r.Join(a, "room-1")
	r.Join(a, "room-2")

	r.Leave(a, "room-1")

	if got := r.RoomSize("room-1"); got != 0 {
		t.Errorf("room-1 size = %d, want 0", got)
	}
	if got := r.RoomSize("room-2"); got != 1 {
		t.Errorf("room-2 size = %d, want 1", got)
	}
	if got := r.Rooms("a"); got != 1 {
		t.Errorf("Rooms(a) = %d, want 1", got)
	}
}

func TestLeaveAbsentIsNoop(t *testing.T) {
	r := NewRegistry()
	a := newFakeClient("a")
	r.Register(a)

	r.Leave(a, "room-1")

	if got := r.RoomSize("room-1"); got != 0 {
		t.Errorf("RoomSize = %d, want 0", got)
	}
}

func TestEmptyRoomIsGarbageCollected(t *testing.T) {
	r := NewRegistry()
	a := newFakeClient("a")
	b := newFakeClient("b")
	r.Register(a)
	r.Register(b)
	r.Join(a, "room-1")
	r.Join(b, "room-1")

	r.Leave(a, "room-1")
	r.Leave(b, "room-1")

	r.mu.RLock()
	_, exists := r.rooms["room-1"]
	r.mu.RUnlock()
	if exists {
		t.Error("empty room still present after last member left")
	}
}

func TestUnregisterPurgesAllRooms(t *testing.T) {
	r := NewRegistry()
	a := newFakeClient("a")
	b := newFakeClient("b")
	r.Register(a)
	r.Register(b)
	r.Join(a, "room-1")
	r.Join(a, "room-2")
	r.Join(b, "room-1")

	r.Unregister(a)

	if got := r.RoomSize("room-1"); got != 1 {
		t.Errorf("room-1 size = %d, want 1", got)
	}
	if got := r.RoomSize("room-2"); got != 0 {
		t.Errorf("room-2 size = %d, want 0", got)
	}
	if got := r.Rooms("a"); got != 0 {
		t.Errorf("Rooms(a) = %d, want 0", got)
	}

	// No stale membership left behind: a broadcast must not reach the
	// unregistered connection.
	r.Broadcast(context.Background(), "room-1", "", []byte("x"))
	if got := a.sentCount(); got != 0 {
		t.Errorf("unregistered client received %d messages, want 0", got)
	}
}

func TestConcurrentJoinLeaveBroadcast(t *testing.T) {
	r := NewRegistry()
	const n = 32
	clients := make([]*fakeClient, n)
	for i := range clients {
		clients[i] = newFakeClient(fmt.Sprintf("c%d", i))
		r.Register(clients[i])
	}

	var wg sync.WaitGroup
	for i, cl := range clients {
		wg.Add(1)
		go func(i int, cl *fakeClient) {
			defer wg.Done()
			r.Join(cl, "room-1")
			r.Broadcast(context.Background(), "room-1", cl.ID(), []byte("x"))
			if i%2 == 0 {
				r.Leave(cl, "room-1")
			}
		}(i, cl)
	}
	wg.Wait()

	if got := r.RoomSize("room-1"); got != n/2 {
		t.Errorf("RoomSize = %d, want %d", got, n/2)
	}
}
