package services

import (
	"context"
	"log/slog"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

// NotificationService reads the in-app notification feed. Writes come
// from the stream worker, not from here.
type NotificationService struct {
	log  *slog.Logger
	repo domain.NotificationRepository
}

func NewNotificationService(log *slog.Logger, repo domain.NotificationRepository) *NotificationService {
	return &NotificationService{log: log, repo: repo}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		s.log.ErrorContext(ctx, "notifications - mark read - failed", "user_id", userID, "err", err)
		return err
	}
	return nil
}
