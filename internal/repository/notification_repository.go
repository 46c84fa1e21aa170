package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
)

// NotificationRepository handles the append-only delivery logs, the in-app
// inbox and per-user channel preferences
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		pool: pool,
	}
}

// LogEmail appends one email dispatch attempt. Log rows are write-once: the
// outcome is recorded at insert time and never updated afterwards.
func (r *NotificationRepository) LogEmail(ctx context.Context, userID int64, recipient, subject, body string, notifType models.SessionNotificationType, status models.DeliveryStatus, sentAt *time.Time) error {
	query := `
		INSERT INTO email_notifications (user_id, recipient, subject, body, notification_type, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := r.pool.Exec(ctx, query, userID, recipient, subject, body, notifType, status, sentAt); err != nil {
		return fmt.Errorf("failed to log email notification: %w", err)
	}

	return nil
}

// LogSMS appends one SMS dispatch attempt
func (r *NotificationRepository) LogSMS(ctx context.Context, userID int64, recipient, message string, notifType models.SessionNotificationType, status models.DeliveryStatus, sentAt *time.Time) error {
	query := `
		INSERT INTO sms_notifications (user_id, recipient, message, notification_type, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.pool.Exec(ctx, query, userID, recipient, message, notifType, status, sentAt); err != nil {
		return fmt.Errorf("failed to log SMS notification: %w", err)
	}

	return nil
}

// ListEmailHistory fetches the user's email delivery log, newest first
func (r *NotificationRepository) ListEmailHistory(ctx context.Context, userID int64) ([]*models.EmailNotification, error) {
	query := `
		SELECT id, user_id, recipient, subject, body, notification_type, status, created_at, sent_at
		FROM email_notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list email history: %w", err)
	}

	return models.ScanEmailNotifications(rows)
}

// ListSMSHistory fetches the user's SMS delivery log, newest first
func (r *NotificationRepository) ListSMSHistory(ctx context.Context, userID int64) ([]*models.SMSNotification, error) {
	query := `
		SELECT id, user_id, recipient, message, notification_type, status, created_at, sent_at
		FROM sms_notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list SMS history: %w", err)
	}

	return models.ScanSMSNotifications(rows)
}

// CreateInApp inserts an in-app inbox entry
func (r *NotificationRepository) CreateInApp(ctx context.Context, userID int64, message string) error {
	query := `INSERT INTO notifications (user_id, message) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, query, userID, message); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListInApp fetches the user's inbox, newest first
func (r *NotificationRepository) ListInApp(ctx context.Context, userID int64) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return models.ScanNotifications(rows)
}

// MarkInAppRead marks one inbox entry as read
func (r *NotificationRepository) MarkInAppRead(ctx context.Context, userID, notificationID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("notification")
	}

	return nil
}

// GetPreferences fetches the user's channel preferences. A user who never
// saved preferences gets the defaults (email and reminders on, SMS off).
func (r *NotificationRepository) GetPreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error) {
	query := `
		SELECT id, user_id, email_enabled, sms_enabled, reminder_enabled, created_at, updated_at
		FROM notification_preferences
		WHERE user_id = $1
	`

	var p models.NotificationPreferences
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.EmailEnabled,
		&p.SMSEnabled,
		&p.ReminderEnabled,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.NotificationPreferences{
				UserID:          userID,
				EmailEnabled:    true,
				SMSEnabled:      false,
				ReminderEnabled: true,
			}, nil
		}
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}

	return &p, nil
}

// UpdatePreferences upserts the user's channel preferences
func (r *NotificationRepository) UpdatePreferences(ctx context.Context, userID int64, req *models.UpdatePreferencesRequest) (*models.NotificationPreferences, error) {
	query := `
		INSERT INTO notification_preferences (user_id, email_enabled, sms_enabled, reminder_enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			sms_enabled = EXCLUDED.sms_enabled,
			reminder_enabled = EXCLUDED.reminder_enabled,
			updated_at = now()
		RETURNING id, user_id, email_enabled, sms_enabled, reminder_enabled, created_at, updated_at
	`

	var p models.NotificationPreferences
	err := r.pool.QueryRow(ctx, query, userID,
		*req.EmailEnabled, *req.SMSEnabled, *req.ReminderEnabled).Scan(
		&p.ID,
		&p.UserID,
		&p.EmailEnabled,
		&p.SMSEnabled,
		&p.ReminderEnabled,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update notification preferences: %w", err)
	}

	return &p, nil
}
