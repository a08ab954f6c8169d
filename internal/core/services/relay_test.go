package services

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/eric-kaloki/server-medconnect/internal/app/registry"
)

type memClient struct {
	id string

	mu   sync.Mutex
	sent [][]byte
}

func newMemClient(id string) *memClient {
	return &memClient{id: id}
}

func (c *memClient) ID() string { return c.id }

func (c *memClient) Send(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, data)
	return nil
}

func (c *memClient) Close() {}

func (c *memClient) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}

func newTestRelay(push *stubPush) (*RelayService, *registry.Registry) {
	rooms := registry.NewRegistry()
	invites := newTestInvitationService(&stubDoctors{}, &stubPatients{}, push, &stubQueue{})
	return NewRelayService(testLogger(), rooms, invites), rooms
}

func joinEvent(room string) []byte {
	return []byte(fmt.Sprintf(`{"event":"join-room","data":%q}`, room))
}

func TestRelayForwardsOfferToRoomPeers(t *testing.T) {
	relay, _ := newTestRelay(&stubPush{})
	ctx := context.Background()

	a := newMemClient("a")
	b := newMemClient("b")
	c := newMemClient("c")
	for _, cl := range []*memClient{a, b, c} {
		relay.HandleConnect(cl)
		relay.HandleEvent(ctx, cl, joinEvent("call-1"))
	}

	offer := []byte(`{"event":"offer","data":{"room":"call-1","sdp":"v=0"}}`)
	relay.HandleEvent(ctx, a, offer)

	if got := len(a.received()); got != 0 {
		t.Errorf("sender received %d messages, want 0", got)
	}
	for _, cl := range []*memClient{b, c} {
		msgs := cl.received()
		if len(msgs) != 1 {
			t.Fatalf("client %s received %d messages, want 1", cl.id, len(msgs))
		}
		// Peers get the original bytes, untouched.
		if !bytes.Equal(msgs[0], offer) {
			t.Errorf("client %s received %s, want %s", cl.id, msgs[0], offer)
		}
	}
}

func TestRelayJoinAcceptsObjectForm(t *testing.T) {
	relay, rooms := newTestRelay(&stubPush{})
	ctx := context.Background()

	a := newMemClient("a")
	relay.HandleConnect(a)
	relay.HandleEvent(ctx, a, []byte(`{"event":"join-room","data":{"room":"call-1"}}`))

	if got := rooms.RoomSize("call-1"); got != 1 {
		t.Errorf("RoomSize = %d, want 1", got)
	}
}

func TestRelayLeaveStopsDelivery(t *testing.T) {
	relay, _ := newTestRelay(&stubPush{})
	ctx := context.Background()

	a := newMemClient("a")
	b := newMemClient("b")
	for _, cl := range []*memClient{a, b} {
		relay.HandleConnect(cl)
		relay.HandleEvent(ctx, cl, joinEvent("call-1"))
	}
	relay.HandleEvent(ctx, b, []byte(`{"event":"leave-room","data":"call-1"}`))

	relay.HandleEvent(ctx, a, []byte(`{"event":"candidate","data":{"room":"call-1"}}`))

	if got := len(b.received()); got != 0 {
		t.Errorf("departed client received %d messages, want 0", got)
	}
}

func TestRelayDisconnectPurgesMembership(t *testing.T) {
	relay, rooms := newTestRelay(&stubPush{})
	ctx := context.Background()

	a := newMemClient("a")
	relay.HandleConnect(a)
	relay.HandleEvent(ctx, a, joinEvent("call-1"))
	relay.HandleEvent(ctx, a, joinEvent("call-2"))

	relay.HandleDisconnect(a)

	if got := rooms.RoomSize("call-1"); got != 0 {
		t.Errorf("call-1 size = %d, want 0", got)
	}
	if got := rooms.RoomSize("call-2"); got != 0 {
		t.Errorf("call-2 size = %d, want 0", got)
	}
}

func TestRelayDropsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"malformed json", []byte(`{"event":`)},
		{"unknown event", []byte(`{"event":"mystery","data":{}}`)},
		{"join without room", []byte(`{"event":"join-room","data":""}`)},
		{"offer without room", []byte(`{"event":"offer","data":{"sdp":"v=0"}}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay, _ := newTestRelay(&stubPush{})
			ctx := context.Background()

			a := newMemClient("a")
			b := newMemClient("b")
			for _, cl := range []*memClient{a, b} {
				relay.HandleConnect(cl)
				relay.HandleEvent(ctx, cl, joinEvent("call-1"))
			}

			relay.HandleEvent(ctx, a, tt.raw)

			if got := len(b.received()); got != 0 {
				t.Errorf("peer received %d messages, want 0", got)
			}
		})
	}
}

func TestRelayCallInitiationRingsDevice(t *testing.T) {
	push := &stubPush{}
	relay, _ := newTestRelay(push)
	ctx := context.Background()

	a := newMemClient("a")
	relay.HandleConnect(a)
	relay.HandleEvent(ctx, a, []byte(`{"event":"call-initiation","data":{"recipientDeviceToken":"dev-1","room":"call-1","callerName":"Jane"}}`))

	if push.callCount() != 1 {
		t.Fatalf("push called %d times, want 1", push.callCount())
	}
	msg := push.lastCall()
	if msg.Token != "dev-1" {
		t.Errorf("token = %q, want dev-1", msg.Token)
	}
	if msg.Data["channelName"] != "call-1" {
		t.Errorf("channelName = %q, want call-1", msg.Data["channelName"])
	}
	if got := len(a.received()); got != 0 {
		t.Errorf("caller received %d socket messages, want 0", got)
	}
}
