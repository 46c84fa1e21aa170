package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/repository"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	"go.uber.org/zap"
)

// NotificationService renders and dispatches email/SMS notifications and
// records every attempt in the append-only delivery log. Dispatch is best
// effort: a transport failure is logged as a failed attempt and swallowed.
type NotificationService struct {
	notifRepo repository.NotificationDataSource
	userRepo  repository.UserDataSource
	mailer    EmailSender
	sms       SMSSender
}

// NewNotificationService creates a new notification service. Either channel
// may be nil when the provider is disabled in configuration; attempts on a
// disabled channel are skipped without a log row.
func NewNotificationService(
	notifRepo repository.NotificationDataSource,
	userRepo repository.UserDataSource,
	mailer EmailSender,
	sms SMSSender,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		mailer:    mailer,
		sms:       sms,
	}
}

// SessionRequested notifies the mentor about a new session request
func (s *NotificationService) SessionRequested(ctx context.Context, session *models.Session) {
	mentor, err := s.userRepo.GetByID(ctx, session.MentorID)
	if err != nil {
		logger.Error("Failed to load mentor for notification",
			zap.Int64("session_id", session.ID), zap.Error(err))
		return
	}

	subject := "New session request"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>You have a new session request on <b>%s</b>, scheduled for %s.</p>",
		mentor.Name, session.Topic, session.ScheduledAt.Format("Mon, 02 Jan 2006 15:04 MST"))
	sms := fmt.Sprintf("New session request: %s on %s",
		session.Topic, session.ScheduledAt.Format("02 Jan 15:04"))

	s.dispatch(ctx, mentor, models.NotificationSessionRequested, subject, body, sms)
}

// SessionAccepted notifies the student that the mentor accepted
func (s *NotificationService) SessionAccepted(ctx context.Context, session *models.Session) {
	student, err := s.userRepo.GetByID(ctx, session.StudentID)
	if err != nil {
		logger.Error("Failed to load student for notification",
			zap.Int64("session_id", session.ID), zap.Error(err))
		return
	}

	subject := "Your session was accepted"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your session <b>%s</b> on %s was accepted. You can now proceed to payment.</p>",
		student.Name, session.Topic, session.ScheduledAt.Format("Mon, 02 Jan 2006 15:04 MST"))
	sms := fmt.Sprintf("Session accepted: %s on %s",
		session.Topic, session.ScheduledAt.Format("02 Jan 15:04"))

	s.dispatch(ctx, student, models.NotificationSessionAccepted, subject, body, sms)
}

// SessionDeclined notifies the student that the mentor declined
func (s *NotificationService) SessionDeclined(ctx context.Context, session *models.Session) {
	student, err := s.userRepo.GetByID(ctx, session.StudentID)
	if err != nil {
		logger.Error("Failed to load student for notification",
			zap.Int64("session_id", session.ID), zap.Error(err))
		return
	}

	subject := "Your session request was declined"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Unfortunately your session request <b>%s</b> was declined. You can request a session with another mentor.</p>",
		student.Name, session.Topic)
	sms := fmt.Sprintf("Session request declined: %s", session.Topic)

	s.dispatch(ctx, student, models.NotificationSessionDeclined, subject, body, sms)
}

// PaymentConfirmed notifies the student that the payment settled
func (s *NotificationService) PaymentConfirmed(ctx context.Context, session *models.Session, payment *models.Payment) {
	student, err := s.userRepo.GetByID(ctx, payment.StudentID)
	if err != nil {
		logger.Error("Failed to load student for notification",
			zap.Int64("payment_id", payment.ID), zap.Error(err))
		return
	}

	subject := "Payment confirmed"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your payment of %d %s for session <b>%s</b> was confirmed. See you on %s!</p>",
		student.Name, payment.Amount, payment.Currency, session.Topic,
		session.ScheduledAt.Format("Mon, 02 Jan 2006 15:04 MST"))
	sms := fmt.Sprintf("Payment of %d %s confirmed for session: %s",
		payment.Amount, payment.Currency, session.Topic)

	s.dispatch(ctx, student, models.NotificationPaymentConfirmed, subject, body, sms)
}

// PaymentRefunded notifies the student about a refund
func (s *NotificationService) PaymentRefunded(ctx context.Context, session *models.Session, payment *models.Payment) {
	student, err := s.userRepo.GetByID(ctx, payment.StudentID)
	if err != nil {
		logger.Error("Failed to load student for notification",
			zap.Int64("payment_id", payment.ID), zap.Error(err))
		return
	}

	subject := "Payment refunded"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your payment of %d %s for session <b>%s</b> was refunded. The amount should reach you within a few business days.</p>",
		student.Name, payment.Amount, payment.Currency, session.Topic)
	sms := fmt.Sprintf("Refund issued: %d %s for session %s",
		payment.Amount, payment.Currency, session.Topic)

	s.dispatch(ctx, student, models.NotificationPaymentRefunded, subject, body, sms)
}

// SessionReminder notifies a participant about an upcoming session
func (s *NotificationService) SessionReminder(ctx context.Context, event *models.CalendarEvent, session *models.Session) {
	user, err := s.userRepo.GetByID(ctx, event.UserID)
	if err != nil {
		logger.Error("Failed to load user for reminder",
			zap.Int64("event_id", event.ID), zap.Error(err))
		return
	}

	subject := "Upcoming session reminder"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Reminder: your session <b>%s</b> starts on %s.</p>",
		user.Name, session.Topic, event.StartTime.Format("Mon, 02 Jan 2006 15:04 MST"))
	sms := fmt.Sprintf("Reminder: session %s starts %s",
		session.Topic, event.StartTime.Format("02 Jan 15:04"))

	s.dispatch(ctx, user, models.NotificationSessionReminder, subject, body, sms)
}

// MessageReceived notifies the recipient about a new direct message. The SMS
// channel is skipped: message volume makes per-message texts noise.
func (s *NotificationService) MessageReceived(ctx context.Context, message *models.Message, sender *models.User) {
	recipient, err := s.userRepo.GetByID(ctx, message.RecipientID)
	if err != nil {
		logger.Error("Failed to load recipient for notification",
			zap.Int64("message_id", message.ID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("New message from %s", sender.Name)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s sent you a message. Log in to read and reply.</p>",
		recipient.Name, sender.Name)

	if err := s.notifRepo.CreateInApp(ctx, recipient.ID, subject); err != nil {
		logger.Error("Failed to create in-app notification",
			zap.Int64("user_id", recipient.ID), zap.Error(err))
	}

	prefs, err := s.notifRepo.GetPreferences(ctx, recipient.ID)
	if err != nil {
		logger.Error("Failed to load notification preferences, using defaults",
			zap.Int64("user_id", recipient.ID), zap.Error(err))
		prefs = &models.NotificationPreferences{EmailEnabled: true}
	}

	if prefs.EmailEnabled {
		s.sendEmail(ctx, recipient.ID, recipient.Email, models.NotificationNewMessage, subject, body)
	}
}

// PasswordReset emails a reset link. Sent regardless of channel preferences
// since the user explicitly asked for it.
func (s *NotificationService) PasswordReset(ctx context.Context, user *models.User, resetURL string) {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Follow <a href=\"%s\">this link</a> to reset your password. The link expires in 30 minutes. If you did not ask for a reset, ignore this email.</p>",
		user.Name, resetURL)

	s.sendEmail(ctx, user.ID, user.Email, models.NotificationPasswordReset, subject, body)
}

// dispatch fans one event out to the channels the user has enabled, and
// drops an in-app inbox entry regardless of channel preferences
func (s *NotificationService) dispatch(ctx context.Context, user *models.User, notifType models.SessionNotificationType, subject, htmlBody, smsBody string) {
	if err := s.notifRepo.CreateInApp(ctx, user.ID, subject); err != nil {
		logger.Error("Failed to create in-app notification",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}

	prefs, err := s.notifRepo.GetPreferences(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to load notification preferences, using defaults",
			zap.Int64("user_id", user.ID), zap.Error(err))
		prefs = &models.NotificationPreferences{EmailEnabled: true}
	}

	if prefs.EmailEnabled {
		s.sendEmail(ctx, user.ID, user.Email, notifType, subject, htmlBody)
	}

	if prefs.SMSEnabled && user.Phone != "" {
		s.sendSMS(ctx, user.ID, user.Phone, notifType, smsBody)
	}
}

func (s *NotificationService) sendEmail(ctx context.Context, userID int64, recipient string, notifType models.SessionNotificationType, subject, body string) {
	if s.mailer == nil {
		logger.Debug("Email channel disabled, skipping",
			zap.String("type", string(notifType)))
		return
	}

	status := models.DeliverySent
	var sentAt *time.Time

	if err := s.mailer.Send(ctx, recipient, subject, body); err != nil {
		status = models.DeliveryFailed
		logger.Error("Email dispatch failed",
			zap.String("type", string(notifType)),
			zap.Error(err))
	} else {
		now := time.Now()
		sentAt = &now
	}

	metrics.NotificationsSent.WithLabelValues("email", string(status)).Inc()

	if err := s.notifRepo.LogEmail(ctx, userID, recipient, subject, body, notifType, status, sentAt); err != nil {
		logger.Error("Failed to log email dispatch",
			zap.String("type", string(notifType)),
			zap.Error(err))
	}
}

func (s *NotificationService) sendSMS(ctx context.Context, userID int64, recipient string, notifType models.SessionNotificationType, body string) {
	if s.sms == nil {
		logger.Debug("SMS channel disabled, skipping",
			zap.String("type", string(notifType)))
		return
	}

	status := models.DeliverySent
	var sentAt *time.Time

	if _, err := s.sms.SendSMS(ctx, recipient, body); err != nil {
		status = models.DeliveryFailed
		logger.Error("SMS dispatch failed",
			zap.String("type", string(notifType)),
			zap.Error(err))
	} else {
		now := time.Now()
		sentAt = &now
	}

	metrics.NotificationsSent.WithLabelValues("sms", string(status)).Inc()

	if err := s.notifRepo.LogSMS(ctx, userID, recipient, body, notifType, status, sentAt); err != nil {
		logger.Error("Failed to log SMS dispatch",
			zap.String("type", string(notifType)),
			zap.Error(err))
	}
}

// ListInbox fetches the user's in-app notifications
func (s *NotificationService) ListInbox(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return s.notifRepo.ListInApp(ctx, userID)
}

// GetHistory fetches the user's delivery history across both channels
func (s *NotificationService) GetHistory(ctx context.Context, userID int64) (*models.NotificationHistoryResponse, error) {
	emails, err := s.notifRepo.ListEmailHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	sms, err := s.notifRepo.ListSMSHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.NotificationHistoryResponse{
		Emails: emails,
		SMS:    sms,
	}, nil
}

// MarkRead marks one inbox entry as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return s.notifRepo.MarkInAppRead(ctx, userID, notificationID)
}

// GetPreferences fetches the user's channel preferences
func (s *NotificationService) GetPreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error) {
	return s.notifRepo.GetPreferences(ctx, userID)
}

// UpdatePreferences upserts the user's channel preferences
func (s *NotificationService) UpdatePreferences(ctx context.Context, userID int64, req *models.UpdatePreferencesRequest) (*models.NotificationPreferences, error) {
	return s.notifRepo.UpdatePreferences(ctx, userID, req)
}
