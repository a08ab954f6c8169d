package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/eric-kaloki/server-medconnect/internal/app/registry"
	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

func TestCallBridgeValidation(t *testing.T) {
	bridge := NewCallBridge(testLogger(), registry.NewRegistry())
	ctx := context.Background()

	if err := bridge.AcknowledgeInvitation(ctx, "", "received"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("empty channel err = %v, want ErrInvalidRequest", err)
	}
	if err := bridge.AcknowledgeInvitation(ctx, "ch-1", ""); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("empty status err = %v, want ErrInvalidRequest", err)
	}
	if err := bridge.RespondToCall(ctx, "ch-1", ""); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("empty response err = %v, want ErrInvalidRequest", err)
	}
}

func TestCallBridgeAcknowledgeReachesWholeRoom(t *testing.T) {
	rooms := registry.NewRegistry()
	bridge := NewCallBridge(testLogger(), rooms)

	a := newMemClient("a")
	b := newMemClient("b")
	for _, cl := range []*memClient{a, b} {
		rooms.Register(cl)
		rooms.Join(cl, "ch-1")
	}

	if err := bridge.AcknowledgeInvitation(context.Background(), "ch-1", "received"); err != nil {
		t.Fatalf("AcknowledgeInvitation: %v", err)
	}

	// Published from outside the room, so every member hears it.
	for _, cl := range []*memClient{a, b} {
		msgs := cl.received()
		if len(msgs) != 1 {
			t.Fatalf("client %s received %d messages, want 1", cl.ID(), len(msgs))
		}
		var env domain.Envelope
		if err := json.Unmarshal(msgs[0], &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.Event != domain.EventInvitationStatus {
			t.Errorf("event = %q, want %q", env.Event, domain.EventInvitationStatus)
		}
		var payload domain.CallStatusEvent
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if payload.ChannelName != "ch-1" || payload.Status != "received" {
			t.Errorf("payload = %+v", payload)
		}
	}
}

func TestCallBridgeRespondEmitsCallResponse(t *testing.T) {
	rooms := registry.NewRegistry()
	bridge := NewCallBridge(testLogger(), rooms)

	a := newMemClient("a")
	rooms.Register(a)
	rooms.Join(a, "ch-1")

	if err := bridge.RespondToCall(context.Background(), "ch-1", "accepted"); err != nil {
		t.Fatalf("RespondToCall: %v", err)
	}

	msgs := a.received()
	if len(msgs) != 1 {
		t.Fatalf("received %d messages, want 1", len(msgs))
	}
	var env domain.Envelope
	if err := json.Unmarshal(msgs[0], &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Event != domain.EventCallResponse {
		t.Errorf("event = %q, want %q", env.Event, domain.EventCallResponse)
	}
	var payload domain.CallStatusEvent
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Response != "accepted" {
		t.Errorf("response = %q, want accepted", payload.Response)
	}
}

func TestCallBridgeUnknownRoomIsNoop(t *testing.T) {
	bridge := NewCallBridge(testLogger(), registry.NewRegistry())
	if err := bridge.AcknowledgeInvitation(context.Background(), "nobody-here", "received"); err != nil {
		t.Errorf("AcknowledgeInvitation on empty room: %v", err)
	}
}
