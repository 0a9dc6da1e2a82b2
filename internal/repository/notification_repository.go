package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/swifttax/swifttax-api/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// ListByUser retrieves the most recent notifications for a user
func (r *NotificationRepository) ListByUser(ctx context.Context, userID, limit int) ([]model.Notification, error) {
	query := `
		SELECT * FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var notifications []model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID, limit); err != nil {
		r.logger.Error("failed to list notifications", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}

	return notifications, nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int) (*model.Notification, error) {
	query := `SELECT * FROM notifications WHERE id = $1`

	var notification model.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get notification", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &notification, nil
}

// UnreadCount returns the number of unread notifications for a user
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		r.logger.Error("failed to count unread notifications", zap.Error(err), zap.Int("user_id", userID))
		return 0, err
	}

	return count, nil
}

// MarkRead marks a notification as read. The flag never reverts, so marking
// an already read notification is a no-op that still reports success.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int) (bool, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to mark notification as read", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// Delete removes a notification
func (r *NotificationRepository) Delete(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM notifications WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete notification", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// Create adds a new notification for a user
func (r *NotificationRepository) Create(ctx context.Context, n *model.NotificationCreate) (int, error) {
	query := `
		INSERT INTO notifications (user_id, type, title, message, action_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int
	err := r.db.GetContext(ctx, &id, query, n.UserID, n.Type, n.Title, n.Message, n.ActionURL)
	if err != nil {
		r.logger.Error("failed to create notification", zap.Error(err))
		return 0, err
	}

	return id, nil
}
