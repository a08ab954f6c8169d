package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/eric-kaloki/server-medconnect/internal/core/contracts"
	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

// NotificationWorker drains the notification stream and persists each
// entry to the notifications table, so a dispatched call invitation
// also shows up in the recipient's in-app feed.
type NotificationWorker struct {
	log    *slog.Logger
	queue  contracts.NotificationQueue
	repo   domain.NotificationRepository
	stream string
	group  string
}

func NewNotificationWorker(
	log *slog.Logger,
	queue contracts.NotificationQueue,
	repo domain.NotificationRepository,
	stream, group string,
) *NotificationWorker {
	return &NotificationWorker{
		log:    log,
		queue:  queue,
		repo:   repo,
		stream: stream,
		group:  group,
	}
}

func (w *NotificationWorker) Run(ctx context.Context) error {
	w.log.InfoContext(ctx, "worker - run - consuming notification stream", "stream", w.stream, "group", w.group)
	return w.queue.Subscribe(ctx, w.stream, w.group, w.ProcessMessage)
}

func (w *NotificationWorker) ProcessMessage(ctx context.Context, messageID string, raw []byte) error {
	var n domain.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		w.log.Error("worker - process message - wrong payload", "message_id", messageID)
		// Ack anyway: a malformed entry will never parse on retry.
		_ = w.queue.Acknowledge(ctx, w.stream, w.group, messageID)
		return err
	}
	if err := w.repo.CreateNotification(ctx, &n); err != nil {
		w.log.ErrorContext(ctx, "worker - process message - persist failed", "message_id", messageID, "err", err)
		return err
	}
	if err := w.queue.Acknowledge(ctx, w.stream, w.group, messageID); err != nil {
		w.log.ErrorContext(ctx, "worker - process message - acknowledge failed", "message_id", messageID, "err", err)
		return err
	}
	if err := w.queue.Delete(ctx, w.stream, messageID); err != nil {
		// Already processed and acked; losing the delete only costs
		// stream memory.
		w.log.ErrorContext(ctx, "worker - process message - delete failed", "message_id", messageID, "err", err)
	}
	return nil
}
