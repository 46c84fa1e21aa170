package repository

import (
	"context"
	"time"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
)

// UserDataSource defines user identity storage
type UserDataSource interface {
	// Create inserts a new user and returns it with the assigned ID
	Create(ctx context.Context, name, email, passwordHash string, role models.Role, phone string) (*models.User, error)

	// GetByID fetches a user by ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail fetches a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePassword replaces the stored credential hash
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// SetActive flips the account's active flag
	SetActive(ctx context.Context, id int64, active bool) error
}

// SessionDataSource defines session booking storage.
// Status transitions run in a single transaction with a row lock so two
// actors racing on the same session surface as a conflict, not a lost update.
type SessionDataSource interface {
	// Create inserts a new session with status=requested
	Create(ctx context.Context, session *models.Session) (*models.Session, error)

	// GetByID fetches a session by ID
	GetByID(ctx context.Context, id int64) (*models.Session, error)

	// ListByUser fetches all sessions where the user is student or mentor
	ListByUser(ctx context.Context, userID int64) ([]*models.Session, error)

	// ListUpcoming fetches accepted/completed sessions in [from, to] for the user
	ListUpcoming(ctx context.Context, userID int64, from, to time.Time) ([]*models.Session, error)

	// Transition moves a session to newStatus, validating the state machine
	// under a row lock
	Transition(ctx context.Context, id int64, newStatus models.SessionStatus) (*models.Session, error)
}

// PaymentDataSource defines payment storage
type PaymentDataSource interface {
	// Create inserts a pending payment keyed by the gateway order ID
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)

	// GetByID fetches a payment by ID
	GetByID(ctx context.Context, id int64) (*models.Payment, error)

	// GetByOrderID fetches a payment by its gateway order ID
	GetByOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error)

	// GetOpenBySessionID fetches the session's pending/completed payment, if any
	GetOpenBySessionID(ctx context.Context, sessionID int64) (*models.Payment, error)

	// Complete stamps the gateway payment ID and moves pending->completed
	// under a row lock. Returns the payment and whether this call performed
	// the transition (false means it was already completed).
	Complete(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*models.Payment, bool, error)

	// MarkRefunded moves a payment to refunded
	MarkRefunded(ctx context.Context, id int64) (*models.Payment, error)

	// MarkFailed moves a pending payment to failed
	MarkFailed(ctx context.Context, id int64) (*models.Payment, error)
}

// ProfileDataSource defines mentor/student profile storage
type ProfileDataSource interface {
	// CreateMentorProfile inserts an empty mentor profile for a new user
	CreateMentorProfile(ctx context.Context, userID int64) error

	// CreateStudentProfile inserts an empty student profile for a new user
	CreateStudentProfile(ctx context.Context, userID int64) error

	// GetMentorProfile fetches a mentor profile by profile ID
	GetMentorProfile(ctx context.Context, id int64) (*models.MentorProfile, error)

	// GetMentorProfileByUserID fetches a mentor profile by the owning user ID
	GetMentorProfileByUserID(ctx context.Context, userID int64) (*models.MentorProfile, error)

	// GetStudentProfileByUserID fetches a student profile by the owning user ID
	GetStudentProfileByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)

	// ListVisibleMentors fetches all visible mentor profiles with rating aggregates
	ListVisibleMentors(ctx context.Context) ([]*models.MentorProfile, error)

	// UpdateMentorProfile applies a mentor profile edit
	UpdateMentorProfile(ctx context.Context, userID int64, req *models.UpdateMentorProfileRequest) (*models.MentorProfile, error)

	// UpdateStudentProfile applies a student profile edit
	UpdateStudentProfile(ctx context.Context, userID int64, req *models.UpdateStudentProfileRequest) (*models.StudentProfile, error)

	// UpdatePictureURL sets the profile picture URL for the user's profile
	UpdatePictureURL(ctx context.Context, userID int64, role models.Role, pictureURL string) error
}

// ReviewDataSource defines review storage
type ReviewDataSource interface {
	// Create inserts a review; fails on duplicate session_id
	Create(ctx context.Context, review *models.Review) (*models.Review, error)

	// ListByMentor fetches all reviews for a mentor with the student name joined
	ListByMentor(ctx context.Context, mentorID int64) ([]*models.Review, float64, error)
}

// MessageDataSource defines direct message storage
type MessageDataSource interface {
	// Create inserts a message
	Create(ctx context.Context, senderID, recipientID int64, body string) (*models.Message, error)

	// GetConversation fetches the two-way thread between two users
	GetConversation(ctx context.Context, userID, otherID int64) ([]*models.Message, error)

	// ListConversations fetches the user's conversation partners with the
	// latest message and unread count per partner, newest first
	ListConversations(ctx context.Context, userID int64) ([]*models.ConversationSummary, error)

	// MarkRead marks all messages from otherID to userID as read
	MarkRead(ctx context.Context, userID, otherID int64) error
}

// NotificationDataSource defines the append-only delivery logs, the in-app
// inbox, and per-user channel preferences
type NotificationDataSource interface {
	// LogEmail appends one email dispatch attempt for the user
	LogEmail(ctx context.Context, userID int64, recipient, subject, body string, notifType models.SessionNotificationType, status models.DeliveryStatus, sentAt *time.Time) error

	// LogSMS appends one SMS dispatch attempt for the user
	LogSMS(ctx context.Context, userID int64, recipient, message string, notifType models.SessionNotificationType, status models.DeliveryStatus, sentAt *time.Time) error

	// ListEmailHistory fetches the user's email delivery log, newest first
	ListEmailHistory(ctx context.Context, userID int64) ([]*models.EmailNotification, error)

	// ListSMSHistory fetches the user's SMS delivery log, newest first
	ListSMSHistory(ctx context.Context, userID int64) ([]*models.SMSNotification, error)

	// CreateInApp inserts an in-app inbox entry
	CreateInApp(ctx context.Context, userID int64, message string) error

	// ListInApp fetches the user's inbox, newest first
	ListInApp(ctx context.Context, userID int64) ([]*models.Notification, error)

	// MarkInAppRead marks one inbox entry as read
	MarkInAppRead(ctx context.Context, userID, notificationID int64) error

	// GetPreferences fetches the user's channel preferences, defaults if absent
	GetPreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error)

	// UpdatePreferences upserts the user's channel preferences
	UpdatePreferences(ctx context.Context, userID int64, req *models.UpdatePreferencesRequest) (*models.NotificationPreferences, error)
}

// AdminDataSource defines aggregate queries for the admin dashboard
type AdminDataSource interface {
	// GetStats fetches platform-wide counts and the most recent sessions
	GetStats(ctx context.Context) (*models.AdminStats, error)
}

// CalendarDataSource defines calendar event storage
type CalendarDataSource interface {
	// Create inserts a calendar event; fails on duplicate (session, user)
	Create(ctx context.Context, event *models.CalendarEvent) (*models.CalendarEvent, error)

	// GetBySessionAndUser fetches one participant's event for a session
	GetBySessionAndUser(ctx context.Context, sessionID, userID int64) (*models.CalendarEvent, error)

	// ListPendingReminders fetches events starting in [from, to] whose
	// notification_sent flag is still false and whose session is accepted
	// or completed
	ListPendingReminders(ctx context.Context, userID int64, from, to time.Time) ([]*models.CalendarEvent, error)

	// MarkNotificationSent flips the notification_sent flag
	MarkNotificationSent(ctx context.Context, eventID int64) error
}
