package contracts

import "context"

// NotificationQueue decouples invitation dispatch from notification-feed
// persistence via a Redis stream.
type NotificationQueue interface {
	// Publish appends a payload to the stream.
	Publish(ctx context.Context, stream string, payload []byte) error
	// Subscribe reads the stream through a consumer group and hands each
	// entry to the handler. Blocks until ctx is cancelled.
	Subscribe(ctx context.Context, stream, group string, handler func(ctx context.Context, messageID string, data []byte) error) error
	// Acknowledge marks an entry as processed for the group.
	Acknowledge(ctx context.Context, stream, group, messageID string) error
	// Delete removes a processed entry from the stream.
	Delete(ctx context.Context, stream, messageID string) error
}
