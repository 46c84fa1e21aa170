package services_test

import (
	"context"
	"testing"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/mentorconnect/mentorconnect-api/pkg/razorpay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newPaymentService() (*services.PaymentService, *MockPaymentRepository, *MockSessionRepository, *MockGateway, *MockDispatcher) {
	paymentRepo := new(MockPaymentRepository)
	sessionRepo := new(MockSessionRepository)
	gateway := new(MockGateway)
	dispatcher := new(MockDispatcher)

	svc := services.NewPaymentService(paymentRepo, sessionRepo, gateway, dispatcher, "rzp_test_key", "INR")
	return svc, paymentRepo, sessionRepo, gateway, dispatcher
}

func TestPaymentService_InitiatePayment(t *testing.T) {
	ctx := context.Background()

	accepted := &models.Session{ID: 10, StudentID: 1, MentorID: 2, Status: models.SessionAccepted}

	t.Run("converts amount to minor units and persists pending payment", func(t *testing.T) {
		svc, paymentRepo, sessionRepo, gateway, _ := newPaymentService()

		sessionRepo.On("GetByID", ctx, int64(10)).Return(accepted, nil)
		paymentRepo.On("GetOpenBySessionID", ctx, int64(10)).Return(nil, apperrors.NotFoundError("payment"))
		gateway.On("CreateOrder", ctx, int64(50000), "INR", "session-10", mock.Anything).
			Return(&razorpay.Order{ID: "order_1", Amount: 50000, Currency: "INR"}, nil)
		paymentRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Payment) bool {
			return p.Amount == 500 && p.GatewayOrderID == "order_1" && p.SessionID == 10 && p.PaymentMethod == "upi"
		})).Return(&models.Payment{ID: 1, SessionID: 10, Amount: 500, Status: models.PaymentPending, GatewayOrderID: "order_1", PaymentMethod: "upi"}, nil)

		resp, err := svc.InitiatePayment(ctx, 1, &models.InitiatePaymentRequest{SessionID: 10, Amount: 500, Method: "upi"})

		assert.NoError(t, err)
		assert.Equal(t, "order_1", resp.OrderID)
		assert.Equal(t, int64(50000), resp.Amount)
		assert.Equal(t, "rzp_test_key", resp.KeyID)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		svc, _, _, _, _ := newPaymentService()

		_, err := svc.InitiatePayment(ctx, 1, &models.InitiatePaymentRequest{SessionID: 10, Amount: 0})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("only the student can pay", func(t *testing.T) {
		svc, _, sessionRepo, gateway, _ := newPaymentService()

		sessionRepo.On("GetByID", ctx, int64(10)).Return(accepted, nil)

		_, err := svc.InitiatePayment(ctx, 2, &models.InitiatePaymentRequest{SessionID: 10, Amount: 500})

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
		gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("declined session cannot be paid", func(t *testing.T) {
		svc, _, sessionRepo, _, _ := newPaymentService()

		declined := &models.Session{ID: 10, StudentID: 1, MentorID: 2, Status: models.SessionDeclined}
		sessionRepo.On("GetByID", ctx, int64(10)).Return(declined, nil)

		_, err := svc.InitiatePayment(ctx, 1, &models.InitiatePaymentRequest{SessionID: 10, Amount: 500})

		assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
	})

	t.Run("second open payment is rejected", func(t *testing.T) {
		svc, paymentRepo, sessionRepo, gateway, _ := newPaymentService()

		sessionRepo.On("GetByID", ctx, int64(10)).Return(accepted, nil)
		paymentRepo.On("GetOpenBySessionID", ctx, int64(10)).
			Return(&models.Payment{ID: 1, SessionID: 10, Status: models.PaymentPending}, nil)

		_, err := svc.InitiatePayment(ctx, 1, &models.InitiatePaymentRequest{SessionID: 10, Amount: 500})

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("gateway failure leaves no payment row", func(t *testing.T) {
		svc, paymentRepo, sessionRepo, gateway, _ := newPaymentService()

		sessionRepo.On("GetByID", ctx, int64(10)).Return(accepted, nil)
		paymentRepo.On("GetOpenBySessionID", ctx, int64(10)).Return(nil, apperrors.NotFoundError("payment"))
		gateway.On("CreateOrder", ctx, int64(50000), "INR", "session-10", mock.Anything).
			Return(nil, assert.AnError)

		_, err := svc.InitiatePayment(ctx, 1, &models.InitiatePaymentRequest{SessionID: 10, Amount: 500})

		assert.ErrorIs(t, err, apperrors.ErrGateway)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_VerifyPayment(t *testing.T) {
	ctx := context.Background()

	req := &models.VerifyPaymentRequest{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: "valid-signature",
	}

	t.Run("valid signature completes payment and notifies", func(t *testing.T) {
		svc, paymentRepo, sessionRepo, gateway, dispatcher := newPaymentService()

		completed := &models.Payment{ID: 1, SessionID: 10, StudentID: 1, Status: models.PaymentCompleted, GatewayPaymentID: "pay_1"}
		session := &models.Session{ID: 10, StudentID: 1, MentorID: 2, Status: models.SessionAccepted}

		gateway.On("VerifySignature", "order_1", "pay_1", "valid-signature").Return(true)
		paymentRepo.On("Complete", ctx, "order_1", "pay_1").Return(completed, true, nil)
		sessionRepo.On("GetByID", ctx, int64(10)).Return(session, nil)
		dispatcher.On("PaymentConfirmed", ctx, session, completed).Return()

		payment, err := svc.VerifyPayment(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, models.PaymentCompleted, payment.Status)
		dispatcher.AssertCalled(t, "PaymentConfirmed", ctx, session, completed)
	})

	t.Run("tampered signature fails and touches nothing", func(t *testing.T) {
		svc, paymentRepo, _, gateway, dispatcher := newPaymentService()

		gateway.On("VerifySignature", "order_1", "pay_1", "tampered").Return(false)

		_, err := svc.VerifyPayment(ctx, &models.VerifyPaymentRequest{
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: "tampered",
		})

		assert.ErrorIs(t, err, apperrors.ErrVerificationFailed)
		paymentRepo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		dispatcher.AssertNotCalled(t, "PaymentConfirmed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate verification is a no-op success", func(t *testing.T) {
		svc, paymentRepo, _, gateway, dispatcher := newPaymentService()

		completed := &models.Payment{ID: 1, SessionID: 10, Status: models.PaymentCompleted, GatewayPaymentID: "pay_1"}

		gateway.On("VerifySignature", "order_1", "pay_1", "valid-signature").Return(true)
		paymentRepo.On("Complete", ctx, "order_1", "pay_1").Return(completed, false, nil)

		payment, err := svc.VerifyPayment(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, models.PaymentCompleted, payment.Status)
		// No second confirmation email on a duplicate callback
		dispatcher.AssertNotCalled(t, "PaymentConfirmed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown order fails verification", func(t *testing.T) {
		svc, paymentRepo, _, gateway, dispatcher := newPaymentService()

		gateway.On("VerifySignature", "order_1", "pay_1", "valid-signature").Return(true)
		paymentRepo.On("Complete", ctx, "order_1", "pay_1").Return(nil, false, apperrors.NotFoundError("payment"))

		_, err := svc.VerifyPayment(ctx, req)

		assert.ErrorIs(t, err, apperrors.ErrVerificationFailed)
		dispatcher.AssertNotCalled(t, "PaymentConfirmed", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPaymentService_RefundPayment(t *testing.T) {
	ctx := context.Background()

	completed := &models.Payment{
		ID: 1, SessionID: 10, StudentID: 1, MentorID: 2,
		Amount: 500, Status: models.PaymentCompleted, GatewayPaymentID: "pay_1",
	}

	t.Run("student refunds their payment", func(t *testing.T) {
		svc, paymentRepo, sessionRepo, gateway, dispatcher := newPaymentService()

		refunded := &models.Payment{ID: 1, SessionID: 10, StudentID: 1, Status: models.PaymentRefunded}
		session := &models.Session{ID: 10, StudentID: 1, MentorID: 2}

		paymentRepo.On("GetByID", ctx, int64(1)).Return(completed, nil)
		gateway.On("CreateRefund", ctx, "pay_1", int64(0)).Return(&razorpay.Refund{ID: "rfnd_1"}, nil)
		paymentRepo.On("MarkRefunded", ctx, int64(1)).Return(refunded, nil)
		sessionRepo.On("GetByID", ctx, int64(10)).Return(session, nil)
		dispatcher.On("PaymentRefunded", ctx, session, refunded).Return()

		payment, err := svc.RefundPayment(ctx, 1, models.RoleStudent, 1, 0)

		assert.NoError(t, err)
		assert.Equal(t, models.PaymentRefunded, payment.Status)
	})

	t.Run("uncaptured payment cannot be refunded", func(t *testing.T) {
		svc, paymentRepo, _, gateway, _ := newPaymentService()

		pending := &models.Payment{ID: 1, StudentID: 1, Amount: 500, Status: models.PaymentPending}
		paymentRepo.On("GetByID", ctx, int64(1)).Return(pending, nil)

		_, err := svc.RefundPayment(ctx, 1, models.RoleStudent, 1, 0)

		assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
		gateway.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("outsider cannot refund", func(t *testing.T) {
		svc, paymentRepo, _, _, _ := newPaymentService()

		paymentRepo.On("GetByID", ctx, int64(1)).Return(completed, nil)

		_, err := svc.RefundPayment(ctx, 99, models.RoleStudent, 1, 0)

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})

	t.Run("admin can refund", func(t *testing.T) {
		svc, paymentRepo, sessionRepo, gateway, dispatcher := newPaymentService()

		refunded := &models.Payment{ID: 1, SessionID: 10, Status: models.PaymentRefunded}
		session := &models.Session{ID: 10}

		paymentRepo.On("GetByID", ctx, int64(1)).Return(completed, nil)
		gateway.On("CreateRefund", ctx, "pay_1", int64(0)).Return(&razorpay.Refund{ID: "rfnd_1"}, nil)
		paymentRepo.On("MarkRefunded", ctx, int64(1)).Return(refunded, nil)
		sessionRepo.On("GetByID", ctx, int64(10)).Return(session, nil)
		dispatcher.On("PaymentRefunded", ctx, session, refunded).Return()

		_, err := svc.RefundPayment(ctx, 99, models.RoleAdmin, 1, 0)

		assert.NoError(t, err)
	})

	t.Run("partial refund above captured amount is rejected", func(t *testing.T) {
		svc, paymentRepo, _, gateway, _ := newPaymentService()

		paymentRepo.On("GetByID", ctx, int64(1)).Return(completed, nil)

		_, err := svc.RefundPayment(ctx, 1, models.RoleStudent, 1, 600)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		gateway.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("partial refund converts to minor units", func(t *testing.T) {
		svc, paymentRepo, sessionRepo, gateway, dispatcher := newPaymentService()

		refunded := &models.Payment{ID: 1, SessionID: 10, Status: models.PaymentRefunded}
		session := &models.Session{ID: 10}

		paymentRepo.On("GetByID", ctx, int64(1)).Return(completed, nil)
		gateway.On("CreateRefund", ctx, "pay_1", int64(20000)).Return(&razorpay.Refund{ID: "rfnd_1"}, nil)
		paymentRepo.On("MarkRefunded", ctx, int64(1)).Return(refunded, nil)
		sessionRepo.On("GetByID", ctx, int64(10)).Return(session, nil)
		dispatcher.On("PaymentRefunded", ctx, session, refunded).Return()

		_, err := svc.RefundPayment(ctx, 1, models.RoleStudent, 1, 200)

		assert.NoError(t, err)
		gateway.AssertCalled(t, "CreateRefund", ctx, "pay_1", int64(20000))
	})
}
