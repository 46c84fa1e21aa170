package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newNotificationService() (*services.NotificationService, *MockNotificationRepository, *MockUserRepository, *MockEmailSender, *MockSMSSender) {
	notifRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	mailer := new(MockEmailSender)
	sms := new(MockSMSSender)

	svc := services.NewNotificationService(notifRepo, userRepo, mailer, sms)
	return svc, notifRepo, userRepo, mailer, sms
}

func TestNotificationService_SessionAccepted(t *testing.T) {
	ctx := context.Background()

	session := &models.Session{
		ID: 10, StudentID: 1, MentorID: 2,
		Topic: "Career advice", ScheduledAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	student := &models.User{ID: 1, Name: "Asha", Email: "asha@example.com", Phone: "+911234567890"}

	t.Run("sends email and logs a sent attempt", func(t *testing.T) {
		svc, notifRepo, userRepo, mailer, _ := newNotificationService()

		userRepo.On("GetByID", ctx, int64(1)).Return(student, nil)
		notifRepo.On("CreateInApp", ctx, int64(1), mock.Anything).Return(nil)
		notifRepo.On("GetPreferences", ctx, int64(1)).
			Return(&models.NotificationPreferences{EmailEnabled: true}, nil)
		mailer.On("Send", ctx, "asha@example.com", mock.Anything, mock.Anything).Return(nil)
		notifRepo.On("LogEmail", ctx, int64(1), "asha@example.com", mock.Anything, mock.Anything,
			models.NotificationSessionAccepted, models.DeliverySent, mock.Anything).Return(nil)

		svc.SessionAccepted(ctx, session)

		mailer.AssertCalled(t, "Send", ctx, "asha@example.com", mock.Anything, mock.Anything)
		notifRepo.AssertCalled(t, "LogEmail", ctx, int64(1), "asha@example.com", mock.Anything, mock.Anything,
			models.NotificationSessionAccepted, models.DeliverySent, mock.Anything)
	})

	t.Run("transport failure logs a failed attempt and does not panic", func(t *testing.T) {
		svc, notifRepo, userRepo, mailer, _ := newNotificationService()

		userRepo.On("GetByID", ctx, int64(1)).Return(student, nil)
		notifRepo.On("CreateInApp", ctx, int64(1), mock.Anything).Return(nil)
		notifRepo.On("GetPreferences", ctx, int64(1)).
			Return(&models.NotificationPreferences{EmailEnabled: true}, nil)
		mailer.On("Send", ctx, "asha@example.com", mock.Anything, mock.Anything).
			Return(errors.New("smtp: connection refused"))
		notifRepo.On("LogEmail", ctx, int64(1), "asha@example.com", mock.Anything, mock.Anything,
			models.NotificationSessionAccepted, models.DeliveryFailed, (*time.Time)(nil)).Return(nil)

		svc.SessionAccepted(ctx, session)

		notifRepo.AssertCalled(t, "LogEmail", ctx, int64(1), "asha@example.com", mock.Anything, mock.Anything,
			models.NotificationSessionAccepted, models.DeliveryFailed, (*time.Time)(nil))
	})

	t.Run("disabled email preference skips the channel", func(t *testing.T) {
		svc, notifRepo, userRepo, mailer, _ := newNotificationService()

		userRepo.On("GetByID", ctx, int64(1)).Return(student, nil)
		notifRepo.On("CreateInApp", ctx, int64(1), mock.Anything).Return(nil)
		notifRepo.On("GetPreferences", ctx, int64(1)).
			Return(&models.NotificationPreferences{EmailEnabled: false}, nil)

		svc.SessionAccepted(ctx, session)

		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifRepo.AssertNotCalled(t, "LogEmail",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifRepo.AssertCalled(t, "CreateInApp", ctx, int64(1), mock.Anything)
	})

	t.Run("sms gated on preference and phone presence", func(t *testing.T) {
		svc, notifRepo, userRepo, _, sms := newNotificationService()

		noPhone := &models.User{ID: 1, Name: "Asha", Email: "asha@example.com"}
		userRepo.On("GetByID", ctx, int64(1)).Return(noPhone, nil)
		notifRepo.On("CreateInApp", ctx, int64(1), mock.Anything).Return(nil)
		notifRepo.On("GetPreferences", ctx, int64(1)).
			Return(&models.NotificationPreferences{SMSEnabled: true}, nil)

		svc.SessionAccepted(ctx, session)

		sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sms failure logs failed attempt", func(t *testing.T) {
		svc, notifRepo, userRepo, _, sms := newNotificationService()

		userRepo.On("GetByID", ctx, int64(1)).Return(student, nil)
		notifRepo.On("CreateInApp", ctx, int64(1), mock.Anything).Return(nil)
		notifRepo.On("GetPreferences", ctx, int64(1)).
			Return(&models.NotificationPreferences{SMSEnabled: true}, nil)
		sms.On("SendSMS", ctx, "+911234567890", mock.Anything).
			Return("", errors.New("twilio: 503"))
		notifRepo.On("LogSMS", ctx, int64(1), "+911234567890", mock.Anything,
			models.NotificationSessionAccepted, models.DeliveryFailed, (*time.Time)(nil)).Return(nil)

		svc.SessionAccepted(ctx, session)

		notifRepo.AssertCalled(t, "LogSMS", ctx, int64(1), "+911234567890", mock.Anything,
			models.NotificationSessionAccepted, models.DeliveryFailed, (*time.Time)(nil))
	})
}

func TestNotificationService_DisabledChannels(t *testing.T) {
	ctx := context.Background()

	session := &models.Session{
		ID: 10, StudentID: 1, MentorID: 2,
		Topic: "Career advice", ScheduledAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	student := &models.User{ID: 1, Name: "Asha", Email: "asha@example.com", Phone: "+911234567890"}

	t.Run("nil channels skip without a log row", func(t *testing.T) {
		notifRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := services.NewNotificationService(notifRepo, userRepo, nil, nil)

		userRepo.On("GetByID", ctx, int64(1)).Return(student, nil)
		notifRepo.On("CreateInApp", ctx, int64(1), mock.Anything).Return(nil)
		notifRepo.On("GetPreferences", ctx, int64(1)).
			Return(&models.NotificationPreferences{EmailEnabled: true, SMSEnabled: true}, nil)

		svc.SessionAccepted(ctx, session)

		notifRepo.AssertNotCalled(t, "LogEmail",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifRepo.AssertNotCalled(t, "LogSMS",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotificationService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: 1, Name: "Asha", Email: "asha@example.com"}

	t.Run("ignores channel preferences", func(t *testing.T) {
		svc, notifRepo, _, mailer, _ := newNotificationService()

		mailer.On("Send", ctx, "asha@example.com", mock.Anything, mock.Anything).Return(nil)
		notifRepo.On("LogEmail", ctx, int64(1), "asha@example.com", mock.Anything, mock.Anything,
			models.NotificationPasswordReset, models.DeliverySent, mock.Anything).Return(nil)

		svc.PasswordReset(ctx, user, "https://mentorconnect.app/reset-password?token=abc")

		mailer.AssertCalled(t, "Send", ctx, "asha@example.com", mock.Anything, mock.Anything)
		notifRepo.AssertNotCalled(t, "GetPreferences", mock.Anything, mock.Anything)
	})

	t.Run("delivery is logged against the requesting user", func(t *testing.T) {
		svc, notifRepo, _, mailer, _ := newNotificationService()

		mailer.On("Send", ctx, "asha@example.com", mock.Anything, mock.Anything).Return(nil)
		notifRepo.On("LogEmail", ctx, int64(1), "asha@example.com", mock.Anything, mock.Anything,
			models.NotificationPasswordReset, models.DeliverySent, mock.Anything).Return(nil)

		svc.PasswordReset(ctx, user, "https://mentorconnect.app/reset-password?token=abc")

		notifRepo.AssertCalled(t, "LogEmail", ctx, int64(1), "asha@example.com", mock.Anything, mock.Anything,
			models.NotificationPasswordReset, models.DeliverySent, mock.Anything)
	})

	t.Run("reset body carries the link", func(t *testing.T) {
		svc, notifRepo, _, mailer, _ := newNotificationService()

		mailer.On("Send", ctx, "asha@example.com", mock.Anything,
			mock.MatchedBy(func(body string) bool {
				return strings.Contains(body, "https://mentorconnect.app/reset-password?token=abc")
			})).Return(nil)
		notifRepo.On("LogEmail", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc.PasswordReset(ctx, user, "https://mentorconnect.app/reset-password?token=abc")

		mailer.AssertExpectations(t)
	})
}

func TestNotificationService_GetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns both delivery logs for the user", func(t *testing.T) {
		svc, notifRepo, _, _, _ := newNotificationService()

		sentAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		emails := []*models.EmailNotification{
			{ID: 1, UserID: 1, Recipient: "asha@example.com",
				Type: models.NotificationSessionAccepted, Status: models.DeliverySent, SentAt: &sentAt},
			{ID: 2, UserID: 1, Recipient: "asha@example.com",
				Type: models.NotificationPaymentConfirmed, Status: models.DeliveryFailed},
		}
		sms := []*models.SMSNotification{
			{ID: 1, UserID: 1, Recipient: "+911234567890",
				Type: models.NotificationSessionAccepted, Status: models.DeliverySent, SentAt: &sentAt},
		}

		notifRepo.On("ListEmailHistory", ctx, int64(1)).Return(emails, nil)
		notifRepo.On("ListSMSHistory", ctx, int64(1)).Return(sms, nil)

		history, err := svc.GetHistory(ctx, 1)

		assert.NoError(t, err)
		assert.Len(t, history.Emails, 2)
		assert.Len(t, history.SMS, 1)
		assert.Equal(t, models.DeliveryFailed, history.Emails[1].Status)
	})

	t.Run("empty history for a fresh user", func(t *testing.T) {
		svc, notifRepo, _, _, _ := newNotificationService()

		notifRepo.On("ListEmailHistory", ctx, int64(7)).Return([]*models.EmailNotification{}, nil)
		notifRepo.On("ListSMSHistory", ctx, int64(7)).Return([]*models.SMSNotification{}, nil)

		history, err := svc.GetHistory(ctx, 7)

		assert.NoError(t, err)
		assert.Empty(t, history.Emails)
		assert.Empty(t, history.SMS)
	})
}
