package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/eric-kaloki/server-medconnect/internal/core/contracts"
	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
	"github.com/eric-kaloki/server-medconnect/pkg/logging"
)

// CallBridge publishes call lifecycle events into a room on behalf of
// HTTP callers. It addresses rooms directly, so a publisher does not
// have to hold a socket membership in the room it targets.
type CallBridge struct {
	log      *slog.Logger
	registry contracts.Registry
}

func NewCallBridge(log *slog.Logger, registry contracts.Registry) *CallBridge {
	return &CallBridge{log: log, registry: registry}
}

// AcknowledgeInvitation tells the room the callee has seen the ring.
func (b *CallBridge) AcknowledgeInvitation(ctx context.Context, channelName, status string) error {
	if channelName == "" || status == "" {
		return domain.ErrInvalidRequest
	}
	b.publish(ctx, channelName, domain.EventInvitationStatus, domain.CallStatusEvent{
		ChannelName: channelName,
		Status:      status,
	})
	b.log.InfoContext(ctx, "call bridge - invitation acknowledged", logging.Channel(channelName), "status", status)
	return nil
}

// RespondToCall relays the callee's answer or decline to the room.
func (b *CallBridge) RespondToCall(ctx context.Context, channelName, response string) error {
	if channelName == "" || response == "" {
		return domain.ErrInvalidRequest
	}
	b.publish(ctx, channelName, domain.EventCallResponse, domain.CallStatusEvent{
		ChannelName: channelName,
		Response:    response,
	})
	b.log.InfoContext(ctx, "call bridge - call response relayed", logging.Channel(channelName))
	return nil
}

func (b *CallBridge) publish(ctx context.Context, channelName, event string, payload domain.CallStatusEvent) {
	ctx, span := tracer.Start(ctx, "CallBridge.publish", trace.WithAttributes(
		attribute.String("call.channel", channelName),
		attribute.String("call.event", event),
	))
	defer span.End()

	data, _ := json.Marshal(payload)
	env, _ := json.Marshal(domain.Envelope{Event: event, Data: data})
	b.registry.Broadcast(ctx, channelName, "", env)
}
