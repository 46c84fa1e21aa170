package services

import (
	"context"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/pkg/razorpay"
)

// PaymentGateway abstracts the payment provider so services can be tested
// with fakes. The production implementation is razorpay.Client.
type PaymentGateway interface {
	// CreateOrder creates a gateway order for the amount in minor units
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*razorpay.Order, error)

	// CreateRefund refunds a captured payment; zero amount means full refund
	CreateRefund(ctx context.Context, gatewayPaymentID string, amountMinor int64) (*razorpay.Refund, error)

	// VerifySignature checks a checkout callback signature
	VerifySignature(orderID, paymentID, signature string) bool
}

// SMSSender abstracts the SMS provider. The production implementation is
// twilio.Client.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// EmailSender abstracts the email transport. The production implementation
// is mailer.SMTPMailer.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Dispatcher fans a business event out to the notification channels. All
// methods are fire-and-forget: delivery failures are logged in the delivery
// log, never returned, so a failed email cannot roll back the triggering
// transaction.
type Dispatcher interface {
	SessionRequested(ctx context.Context, session *models.Session)
	SessionAccepted(ctx context.Context, session *models.Session)
	SessionDeclined(ctx context.Context, session *models.Session)
	PaymentConfirmed(ctx context.Context, session *models.Session, payment *models.Payment)
	PaymentRefunded(ctx context.Context, session *models.Session, payment *models.Payment)
	SessionReminder(ctx context.Context, event *models.CalendarEvent, session *models.Session)
	MessageReceived(ctx context.Context, message *models.Message, sender *models.User)
	PasswordReset(ctx context.Context, user *models.User, resetURL string)
}

// ObjectStorage abstracts the profile picture bucket. The production
// implementation is storage.Client.
type ObjectStorage interface {
	UploadImage(ctx context.Context, imageData, key, contentType string) (string, error)
	ValidateImageType(contentType string) error
	ValidateImageSize(imageData string) error
}
