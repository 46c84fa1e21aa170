package services_test

import (
	"context"
	"time"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/pkg/razorpay"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repository.UserDataSource
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, name, email, passwordHash string, role models.Role, phone string) (*models.User, error) {
	args := m.Called(ctx, name, email, passwordHash, role, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of repository.SessionDataSource
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockSessionRepository) ListUpcoming(ctx context.Context, userID int64, from, to time.Time) ([]*models.Session, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Transition(ctx context.Context, id int64, newStatus models.SessionStatus) (*models.Session, error) {
	args := m.Called(ctx, id, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

// MockPaymentRepository is a mock implementation of repository.PaymentDataSource
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetOpenBySessionID(ctx context.Context, sessionID int64) (*models.Payment, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Complete(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*models.Payment, bool, error) {
	args := m.Called(ctx, gatewayOrderID, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Payment), args.Bool(1), args.Error(2)
}

func (m *MockPaymentRepository) MarkRefunded(ctx context.Context, id int64) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkFailed(ctx context.Context, id int64) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

// MockReviewRepository is a mock implementation of repository.ReviewDataSource
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByMentor(ctx context.Context, mentorID int64) ([]*models.Review, float64, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Review), args.Get(1).(float64), args.Error(2)
}

// MockCalendarRepository is a mock implementation of repository.CalendarDataSource
type MockCalendarRepository struct {
	mock.Mock
}

func (m *MockCalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) (*models.CalendarEvent, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CalendarEvent), args.Error(1)
}

func (m *MockCalendarRepository) GetBySessionAndUser(ctx context.Context, sessionID, userID int64) (*models.CalendarEvent, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CalendarEvent), args.Error(1)
}

func (m *MockCalendarRepository) ListPendingReminders(ctx context.Context, userID int64, from, to time.Time) ([]*models.CalendarEvent, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CalendarEvent), args.Error(1)
}

func (m *MockCalendarRepository) MarkNotificationSent(ctx context.Context, eventID int64) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// MockMessageRepository is a mock implementation of repository.MessageDataSource
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, senderID, recipientID int64, body string) (*models.Message, error) {
	args := m.Called(ctx, senderID, recipientID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) GetConversation(ctx context.Context, userID, otherID int64) ([]*models.Message, error) {
	args := m.Called(ctx, userID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageRepository) ListConversations(ctx context.Context, userID int64) ([]*models.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ConversationSummary), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, userID, otherID int64) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

// MockAdminRepository is a mock implementation of repository.AdminDataSource
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) GetStats(ctx context.Context) (*models.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminStats), args.Error(1)
}

// MockNotificationRepository is a mock implementation of repository.NotificationDataSource
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) LogEmail(ctx context.Context, userID int64, recipient, subject, body string, notifType models.SessionNotificationType, status models.DeliveryStatus, sentAt *time.Time) error {
	args := m.Called(ctx, userID, recipient, subject, body, notifType, status, sentAt)
	return args.Error(0)
}

func (m *MockNotificationRepository) LogSMS(ctx context.Context, userID int64, recipient, message string, notifType models.SessionNotificationType, status models.DeliveryStatus, sentAt *time.Time) error {
	args := m.Called(ctx, userID, recipient, message, notifType, status, sentAt)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListEmailHistory(ctx context.Context, userID int64) ([]*models.EmailNotification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmailNotification), args.Error(1)
}

func (m *MockNotificationRepository) ListSMSHistory(ctx context.Context, userID int64) ([]*models.SMSNotification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SMSNotification), args.Error(1)
}

func (m *MockNotificationRepository) CreateInApp(ctx context.Context, userID int64, message string) error {
	args := m.Called(ctx, userID, message)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListInApp(ctx context.Context, userID int64) ([]*models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkInAppRead(ctx context.Context, userID, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetPreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationPreferences), args.Error(1)
}

func (m *MockNotificationRepository) UpdatePreferences(ctx context.Context, userID int64, req *models.UpdatePreferencesRequest) (*models.NotificationPreferences, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationPreferences), args.Error(1)
}

// MockDispatcher is a mock implementation of services.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) SessionRequested(ctx context.Context, session *models.Session) {
	m.Called(ctx, session)
}

func (m *MockDispatcher) SessionAccepted(ctx context.Context, session *models.Session) {
	m.Called(ctx, session)
}

func (m *MockDispatcher) SessionDeclined(ctx context.Context, session *models.Session) {
	m.Called(ctx, session)
}

func (m *MockDispatcher) PaymentConfirmed(ctx context.Context, session *models.Session, payment *models.Payment) {
	m.Called(ctx, session, payment)
}

func (m *MockDispatcher) PaymentRefunded(ctx context.Context, session *models.Session, payment *models.Payment) {
	m.Called(ctx, session, payment)
}

func (m *MockDispatcher) SessionReminder(ctx context.Context, event *models.CalendarEvent, session *models.Session) {
	m.Called(ctx, event, session)
}

func (m *MockDispatcher) MessageReceived(ctx context.Context, message *models.Message, sender *models.User) {
	m.Called(ctx, message, sender)
}

func (m *MockDispatcher) PasswordReset(ctx context.Context, user *models.User, resetURL string) {
	m.Called(ctx, user, resetURL)
}

// MockGateway is a mock implementation of services.PaymentGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error) {
	args := m.Called(ctx, amountMinor, currency, receipt, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*razorpay.Order), args.Error(1)
}

func (m *MockGateway) CreateRefund(ctx context.Context, gatewayPaymentID string, amountMinor int64) (*razorpay.Refund, error) {
	args := m.Called(ctx, gatewayPaymentID, amountMinor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*razorpay.Refund), args.Error(1)
}

func (m *MockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

// MockEmailSender is a mock implementation of services.EmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// MockSMSSender is a mock implementation of services.SMSSender
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendSMS(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}
