package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/eric-kaloki/server-medconnect/internal/core/domain"
)

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	query := `INSERT INTO notifications (id, user_id, title, body, is_read)
        VALUES ($1, $2, $3, $4, false)`
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Body)
	return err
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	query := `SELECT id, user_id, title, body, is_read, created_at
        FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET is_read = true WHERE user_id = $1`
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query, userID)
	return err
}
