package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// DeliveryStatus represents the outcome of a single dispatch attempt
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Notification types drive template selection and show up in the delivery log
const (
	NotificationSessionRequested SessionNotificationType = "session_requested"
	NotificationSessionAccepted  SessionNotificationType = "session_accepted"
	NotificationSessionDeclined  SessionNotificationType = "session_declined"
	NotificationPaymentConfirmed SessionNotificationType = "payment_confirmed"
	NotificationPaymentRefunded  SessionNotificationType = "payment_refunded"
	NotificationSessionReminder  SessionNotificationType = "session_reminder"
	NotificationNewMessage       SessionNotificationType = "new_message"
	NotificationPasswordReset    SessionNotificationType = "password_reset"
)

// SessionNotificationType tags a dispatch with its triggering event
type SessionNotificationType string

// EmailNotification is one row of the append-only email delivery log
type EmailNotification struct {
	ID        int64                   `json:"id"`
	UserID    int64                   `json:"userId"`
	Recipient string                  `json:"recipient"`
	Subject   string                  `json:"subject"`
	Body      string                  `json:"body"`
	Type      SessionNotificationType `json:"notificationType"`
	Status    DeliveryStatus          `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
	SentAt    *time.Time              `json:"sentAt"`
}

// SMSNotification is one row of the append-only SMS delivery log
type SMSNotification struct {
	ID        int64                   `json:"id"`
	UserID    int64                   `json:"userId"`
	Recipient string                  `json:"recipient"`
	Message   string                  `json:"message"`
	Type      SessionNotificationType `json:"notificationType"`
	Status    DeliveryStatus          `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
	SentAt    *time.Time              `json:"sentAt"`
}

// NotificationHistoryResponse is the per-user delivery history across both
// channels
type NotificationHistoryResponse struct {
	Emails []*EmailNotification `json:"emails"`
	SMS    []*SMSNotification   `json:"sms"`
}

// Notification is an in-app inbox entry
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationPreferences controls which channels a user receives
type NotificationPreferences struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	EmailEnabled    bool      `json:"emailEnabled"`
	SMSEnabled      bool      `json:"smsEnabled"`
	ReminderEnabled bool      `json:"reminderEnabled"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UpdatePreferencesRequest is the payload for updating notification preferences
type UpdatePreferencesRequest struct {
	EmailEnabled    *bool `json:"emailEnabled" binding:"required"`
	SMSEnabled      *bool `json:"smsEnabled" binding:"required"`
	ReminderEnabled *bool `json:"reminderEnabled" binding:"required"`
}

// ScanEmailNotification scans a single PostgreSQL row into an EmailNotification struct
// Expected columns: id, user_id, recipient, subject, body, notification_type, status, created_at, sent_at
func ScanEmailNotification(row pgx.Row) (*EmailNotification, error) {
	var n EmailNotification

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Recipient,
		&n.Subject,
		&n.Body,
		&n.Type,
		&n.Status,
		&n.CreatedAt,
		&n.SentAt,
	)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// ScanEmailNotifications scans multiple PostgreSQL rows into a slice of EmailNotification structs
func ScanEmailNotifications(rows pgx.Rows) ([]*EmailNotification, error) {
	defer rows.Close()

	notifications := []*EmailNotification{}
	for rows.Next() {
		notification, err := ScanEmailNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// ScanSMSNotification scans a single PostgreSQL row into an SMSNotification struct
// Expected columns: id, user_id, recipient, message, notification_type, status, created_at, sent_at
func ScanSMSNotification(row pgx.Row) (*SMSNotification, error) {
	var n SMSNotification

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Recipient,
		&n.Message,
		&n.Type,
		&n.Status,
		&n.CreatedAt,
		&n.SentAt,
	)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// ScanSMSNotifications scans multiple PostgreSQL rows into a slice of SMSNotification structs
func ScanSMSNotifications(rows pgx.Rows) ([]*SMSNotification, error) {
	defer rows.Close()

	notifications := []*SMSNotification{}
	for rows.Next() {
		notification, err := ScanSMSNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// ScanNotification scans a single PostgreSQL row into a Notification struct
// Expected columns: id, user_id, message, is_read, created_at
func ScanNotification(row pgx.Row) (*Notification, error) {
	var n Notification

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Message,
		&n.IsRead,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// ScanNotifications scans multiple PostgreSQL rows into a slice of Notification structs
func ScanNotifications(rows pgx.Rows) ([]*Notification, error) {
	defer rows.Close()

	notifications := []*Notification{}
	for rows.Next() {
		notification, err := ScanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
