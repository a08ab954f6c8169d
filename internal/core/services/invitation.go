package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/eric-kaloki/server-medconnect/internal/core/contracts"
	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

var tracer = otel.Tracer("core-services")

// InvitationService dispatches call invitations: it resolves the
// recipient's push token, submits the notification through the provider
// and guards against concurrent invitations for the same channel.
//
// The active set is keyed by channel name. An entry lives exactly as
// long as one dispatch attempt; release is deferred so no exit path can
// leave a channel permanently blocked.
type InvitationService struct {
	log      *slog.Logger
	doctors  domain.DoctorRepository
	patients domain.PatientRepository
	push     contracts.Push
	queue    contracts.NotificationQueue
	stream   string

	// sendTimeout bounds the provider call so a hung delivery cannot
	// keep the channel's active entry alive indefinitely.
	sendTimeout time.Duration

	mu     sync.Mutex
	active map[string]struct{}
}

func NewInvitationService(
	log *slog.Logger,
	doctors domain.DoctorRepository,
	patients domain.PatientRepository,
	push contracts.Push,
	queue contracts.NotificationQueue,
	stream string,
	sendTimeout time.Duration,
) *InvitationService {
	if sendTimeout <= 0 {
		sendTimeout = 5 * time.Second
	}
	return &InvitationService{
		log:         log,
		doctors:     doctors,
		patients:    patients,
		push:        push,
		queue:       queue,
		stream:      stream,
		sendTimeout: sendTimeout,
		active:      make(map[string]struct{}),
	}
}

// SendInvitation rings the recipient for an incoming call on the given
// channel. Returns the provider's delivery id.
func (s *InvitationService) SendInvitation(ctx context.Context, inv domain.Invitation) (string, error) {
	ctx, span := tracer.Start(ctx, "InvitationService.SendInvitation", trace.WithAttributes(
		attribute.String("call.recipient_id", inv.RecipientID),
		attribute.String("call.channel", inv.ChannelName),
	))
	defer span.End()

	if inv.RecipientID == "" || inv.CallerName == "" || inv.ChannelName == "" {
		span.RecordError(domain.ErrInvalidRequest)
		return "", domain.ErrInvalidRequest
	}
	if !s.tryAcquire(inv.ChannelName) {
		s.log.InfoContext(ctx, "invitation - send - duplicate suppressed", "channel", inv.ChannelName)
		return "", domain.ErrAlreadyInProgress
	}
	defer s.release(inv.ChannelName)

	token, err := s.lookupPushToken(ctx, inv.RecipientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recipient unreachable")
		s.log.ErrorContext(ctx, "invitation - send - recipient lookup failed", "recipient_id", inv.RecipientID, "err", err)
		return "", err
	}

	deliveryID, err := s.deliver(ctx, token, inv.CallerName, inv.ChannelName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		s.log.ErrorContext(ctx, "invitation - send - delivery failed", "channel", inv.ChannelName, "err", err)
		return "", fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	s.recordNotification(ctx, inv)
	span.SetStatus(codes.Ok, "invitation sent")
	s.log.InfoContext(ctx, "invitation - send - delivered", "channel", inv.ChannelName, "delivery_id", deliveryID)
	return deliveryID, nil
}

// DispatchToDevice rings a device token directly, as emitted by the
// socket call-initiation event. The same per-channel guard applies; the
// transport has no response path, so the caller only logs errors.
func (s *InvitationService) DispatchToDevice(ctx context.Context, token, callerName, channelName string) error {
	if token == "" || callerName == "" || channelName == "" {
		return domain.ErrInvalidRequest
	}
	if !s.tryAcquire(channelName) {
		return domain.ErrAlreadyInProgress
	}
	defer s.release(channelName)

	if _, err := s.deliver(ctx, token, callerName, channelName); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

// tryAcquire atomically checks and claims the channel. A concurrent
// request between check and claim observes the entry and fails.
func (s *InvitationService) tryAcquire(channelName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[channelName]; busy {
		return false
	}
	s.active[channelName] = struct{}{}
	return true
}

func (s *InvitationService) release(channelName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, channelName)
}

// InvitationPending reports whether a dispatch is in flight for the
// channel. Used by tests.
func (s *InvitationService) InvitationPending(channelName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.active[channelName]
	return busy
}

// lookupPushToken resolves the recipient's device token, trying the
// doctors table first and falling back to patients, mirroring how the
// clients address either side of a call with one recipient id. The
// fallback fires only when the doctor lookup yields no record; a doctor
// row with no registered token is unreachable, not a patient.
func (s *InvitationService) lookupPushToken(ctx context.Context, recipientID string) (string, error) {
	token, err := s.doctors.GetDoctorPushToken(ctx, recipientID)
	if err != nil {
		token, err = s.patients.GetPatientPushToken(ctx, recipientID)
	}
	if err != nil || token == "" {
		return "", domain.ErrRecipientUnreachable
	}
	return token, nil
}

func (s *InvitationService) deliver(ctx context.Context, token, callerName, channelName string) (string, error) {
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return s.push.Send(sendCtx, contracts.PushMessage{
		Title: "Incoming Call",
		Body:  fmt.Sprintf("Incoming call from %s", callerName),
		Data: map[string]string{
			"type":        "call-invitation",
			"callerName":  callerName,
			"channelName": channelName,
		},
		Token: token,
	})
}

// recordNotification feeds the in-app notification stream. Best effort:
// the call already rang, a feed miss is not worth failing the request.
func (s *InvitationService) recordNotification(ctx context.Context, inv domain.Invitation) {
	if s.queue == nil {
		return
	}
	payload, _ := json.Marshal(domain.Notification{
		UserID: inv.RecipientID,
		Title:  "Incoming Call",
		Body:   fmt.Sprintf("Incoming call from %s", inv.CallerName),
	})
	if err := s.queue.Publish(ctx, s.stream, payload); err != nil {
		s.log.ErrorContext(ctx, "invitation - record notification - publish failed", "stream", s.stream, "err", err)
	}
}
