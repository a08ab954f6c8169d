package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/eric-kaloki/server-medconnect/internal/core/contracts"
	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

// AvailabilityService tracks which doctors are reachable for calls via
// TTL presence entries. The doctor app heartbeats while in foreground;
// patients check before ringing.
type AvailabilityService struct {
	log      *slog.Logger
	presence contracts.PresenceStore
	ttl      time.Duration
}

func NewAvailabilityService(log *slog.Logger, presence contracts.PresenceStore) *AvailabilityService {
	return &AvailabilityService{
		log:      log,
		presence: presence,
		ttl:      90 * time.Second,
	}
}

func (s *AvailabilityService) Heartbeat(ctx context.Context, doctorID string) error {
	if doctorID == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.presence.MarkOnline(ctx, doctorID, s.ttl); err != nil {
		s.log.ErrorContext(ctx, "availability - heartbeat - failed", "doctor_id", doctorID, "err", err)
		return err
	}
	return nil
}

func (s *AvailabilityService) IsOnline(ctx context.Context, doctorID string) (bool, error) {
	if doctorID == "" {
		return false, domain.ErrInvalidRequest
	}
	return s.presence.IsOnline(ctx, doctorID)
}

func (s *AvailabilityService) ListOnline(ctx context.Context) ([]string, error) {
	return s.presence.ListOnline(ctx)
}
