package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

type fakeQueue struct {
	acked   []string
	deleted []string
}

func (q *fakeQueue) Publish(context.Context, string, []byte) error { return nil }

func (q *fakeQueue) Subscribe(ctx context.Context, _, _ string, _ func(context.Context, string, []byte) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func (q *fakeQueue) Acknowledge(_ context.Context, _, _, messageID string) error {
	q.acked = append(q.acked, messageID)
	return nil
}

func (q *fakeQueue) Delete(_ context.Context, _, messageID string) error {
	q.deleted = append(q.deleted, messageID)
	return nil
}

type fakeNotifications struct {
	created []*domain.Notification
	err     error
}

func (r *fakeNotifications) CreateNotification(_ context.Context, n *domain.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotifications) ListByUser(context.Context, string) ([]domain.Notification, error) {
	return nil, nil
}

func (r *fakeNotifications) MarkAllRead(context.Context, string) error { return nil }

func newTestWorker(queue *fakeQueue, repo *fakeNotifications) *NotificationWorker {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNotificationWorker(log, queue, repo, "notifications", "feed-writers")
}

func TestProcessMessagePersistsAndAcks(t *testing.T) {
	queue := &fakeQueue{}
	repo := &fakeNotifications{}
	w := newTestWorker(queue, repo)

	err := w.ProcessMessage(context.Background(), "1-0", []byte(`{"user_id":"u-1","title":"Incoming Call","body":"Incoming call from Jane"}`))
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if len(repo.created) != 1 || repo.created[0].UserID != "u-1" {
		t.Errorf("created = %+v", repo.created)
	}
	if len(queue.acked) != 1 || queue.acked[0] != "1-0" {
		t.Errorf("acked = %v", queue.acked)
	}
	if len(queue.deleted) != 1 || queue.deleted[0] != "1-0" {
		t.Errorf("deleted = %v", queue.deleted)
	}
}

func TestProcessMessageAcksMalformedPayload(t *testing.T) {
	queue := &fakeQueue{}
	repo := &fakeNotifications{}
	w := newTestWorker(queue, repo)

	if err := w.ProcessMessage(context.Background(), "2-0", []byte("not json")); err == nil {
		t.Error("malformed payload accepted")
	}
	if len(repo.created) != 0 {
		t.Error("malformed payload persisted")
	}
	// Malformed entries are acked so they do not jam the group.
	if len(queue.acked) != 1 {
		t.Errorf("acked = %v, want one entry", queue.acked)
	}
}

func TestProcessMessageKeepsEntryOnPersistFailure(t *testing.T) {
	queue := &fakeQueue{}
	repo := &fakeNotifications{err: errors.New("db down")}
	w := newTestWorker(queue, repo)

	if err := w.ProcessMessage(context.Background(), "3-0", []byte(`{"user_id":"u-1"}`)); err == nil {
		t.Error("persist failure swallowed")
	}
	if len(queue.acked) != 0 {
		t.Errorf("entry acked despite persist failure: %v", queue.acked)
	}
}
