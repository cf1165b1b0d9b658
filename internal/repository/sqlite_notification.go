package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/google/uuid"
)

// SQLiteNotificationRepo is the local inbox. Send stores one row per call.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

func (r *SQLiteNotificationRepo) Send(ctx context.Context, n domain.Notification) error {
	if n.RecipientUserID == "" {
		return fmt.Errorf("storing notification: recipient is required")
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO notifications (id, type, title, message, recipient_user_id, actor_user_id,
		project_id, task_id, sprint_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, string(n.Type), n.Title, n.Message, n.RecipientUserID, n.ActorUserID,
		n.ProjectID, n.TaskID, n.SprintID, boolToInt(n.Read), formatTime(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("storing notification: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepo) ListForRecipient(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	query := `SELECT id, type, title, message, recipient_user_id, actor_user_id, project_id, task_id,
		sprint_id, is_read, created_at FROM notifications WHERE recipient_user_id = ?`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ, createdAt string
		var read int
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Message, &n.RecipientUserID, &n.ActorUserID,
			&n.ProjectID, &n.TaskID, &n.SprintID, &read, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Type = domain.NotificationType(typ)
		n.Read = read != 0
		n.CreatedAt = parseTime(createdAt)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return out, nil
}

func (r *SQLiteNotificationRepo) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return requireAffected(res, "notification", id)
}

var (
	_ ProjectStore      = (*SQLiteProjectRepo)(nil)
	_ SprintStore       = (*SQLiteSprintRepo)(nil)
	_ TaskStore         = (*SQLiteTaskRepo)(nil)
	_ NotificationStore = (*SQLiteNotificationRepo)(nil)
)
