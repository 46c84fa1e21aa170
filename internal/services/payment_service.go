package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/repository"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	"go.uber.org/zap"
)

// PaymentService settles session payments through the payment gateway.
// Amounts are stored in major units and converted to minor units (x100) at
// the gateway boundary.
type PaymentService struct {
	paymentRepo repository.PaymentDataSource
	sessionRepo repository.SessionDataSource
	gateway     PaymentGateway
	dispatcher  Dispatcher
	keyID       string
	currency    string
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentDataSource,
	sessionRepo repository.SessionDataSource,
	gateway PaymentGateway,
	dispatcher Dispatcher,
	keyID, currency string,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		sessionRepo: sessionRepo,
		gateway:     gateway,
		dispatcher:  dispatcher,
		keyID:       keyID,
		currency:    currency,
	}
}

// InitiatePayment creates a gateway order for an accepted session and
// persists the pending payment keyed by the returned order ID. A gateway
// failure leaves no payment row behind.
func (s *PaymentService) InitiatePayment(ctx context.Context, actorID int64, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, apperrors.InvalidInputError("amount", "must be positive")
	}

	session, err := s.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if !canInitiatePayment(actorID, session) {
		return nil, apperrors.AccessDeniedError("only the session's student can pay")
	}

	if session.Status != models.SessionAccepted {
		return nil, apperrors.PreconditionError("session must be accepted before payment")
	}

	if existing, err := s.paymentRepo.GetOpenBySessionID(ctx, req.SessionID); err == nil {
		return nil, fmt.Errorf("session already has a %s payment: %w", existing.Status, apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	amountMinor := req.Amount * 100

	order, err := s.gateway.CreateOrder(ctx, amountMinor, s.currency,
		fmt.Sprintf("session-%d", req.SessionID),
		map[string]string{
			"session_id": fmt.Sprintf("%d", req.SessionID),
			"student_id": fmt.Sprintf("%d", actorID),
		})
	if err != nil {
		metrics.PaymentOrders.WithLabelValues("gateway_error").Inc()
		logger.Error("Gateway order creation failed",
			zap.Int64("session_id", req.SessionID), zap.Error(err))
		return nil, apperrors.GatewayError("razorpay", err)
	}

	payment, err := s.paymentRepo.Create(ctx, &models.Payment{
		SessionID:      req.SessionID,
		StudentID:      session.StudentID,
		MentorID:       session.MentorID,
		Amount:         req.Amount,
		Currency:       s.currency,
		GatewayOrderID: order.ID,
		PaymentMethod:  req.Method,
	})
	if err != nil {
		metrics.PaymentOrders.WithLabelValues("db_error").Inc()
		return nil, err
	}

	metrics.PaymentOrders.WithLabelValues("success").Inc()
	logger.Info("Payment order created",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("session_id", req.SessionID),
		zap.String("order_id", order.ID),
		zap.Int64("amount_minor", amountMinor))

	return &models.InitiatePaymentResponse{
		OrderID:  order.ID,
		Amount:   amountMinor,
		Currency: s.currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifyPayment validates the signed checkout callback and marks the payment
// completed. The signature check runs before any state is touched; a
// tampered callback changes nothing. Re-verifying an already completed
// payment is a no-op success, so duplicate callbacks cannot double-credit or
// resend confirmations.
func (s *PaymentService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.Payment, error) {
	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		metrics.PaymentVerifications.WithLabelValues("signature_mismatch").Inc()
		logger.Warn("Payment signature mismatch",
			zap.String("order_id", req.OrderID),
			zap.String("payment_id", req.PaymentID))
		return nil, fmt.Errorf("payment signature mismatch: %w", apperrors.ErrVerificationFailed)
	}

	payment, transitioned, err := s.paymentRepo.Complete(ctx, req.OrderID, req.PaymentID)
	if err != nil {
		// A callback for an order we never created is indistinguishable from
		// a forged one and fails verification, not lookup.
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.PaymentVerifications.WithLabelValues("unknown_order").Inc()
			logger.Warn("Payment verification for unknown order",
				zap.String("order_id", req.OrderID))
			return nil, fmt.Errorf("no payment for order: %w", apperrors.ErrVerificationFailed)
		}
		metrics.PaymentVerifications.WithLabelValues("error").Inc()
		return nil, err
	}

	if !transitioned {
		metrics.PaymentVerifications.WithLabelValues("duplicate").Inc()
		logger.Info("Duplicate payment verification, already completed",
			zap.String("order_id", req.OrderID))
		return payment, nil
	}

	metrics.PaymentVerifications.WithLabelValues("success").Inc()
	logger.Info("Payment verified",
		zap.Int64("payment_id", payment.ID),
		zap.String("order_id", req.OrderID))

	if session, sErr := s.sessionRepo.GetByID(ctx, payment.SessionID); sErr == nil {
		s.dispatcher.PaymentConfirmed(ctx, session, payment)
	} else {
		logger.Error("Failed to load session for payment confirmation",
			zap.Int64("payment_id", payment.ID), zap.Error(sErr))
	}

	return payment, nil
}

// RefundPayment refunds a completed payment through the gateway. Zero amount
// means full refund; a partial amount must not exceed the captured amount.
func (s *PaymentService) RefundPayment(ctx context.Context, actorID int64, actorRole models.Role, paymentID int64, amount int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if !canRefundPayment(actorID, actorRole, payment) {
		return nil, apperrors.AccessDeniedError("not a participant of this payment")
	}

	if payment.GatewayPaymentID == "" || payment.Status != models.PaymentCompleted {
		return nil, apperrors.PreconditionError("payment has not been captured")
	}

	if amount < 0 || amount > payment.Amount {
		return nil, apperrors.InvalidInputError("amount", "exceeds captured amount")
	}

	refund, err := s.gateway.CreateRefund(ctx, payment.GatewayPaymentID, amount*100)
	if err != nil {
		metrics.PaymentRefunds.WithLabelValues("gateway_error").Inc()
		logger.Error("Gateway refund failed",
			zap.Int64("payment_id", paymentID), zap.Error(err))
		return nil, apperrors.GatewayError("razorpay", err)
	}

	updated, err := s.paymentRepo.MarkRefunded(ctx, paymentID)
	if err != nil {
		metrics.PaymentRefunds.WithLabelValues("db_error").Inc()
		logger.Error("Refund issued at gateway but not recorded",
			zap.Int64("payment_id", paymentID),
			zap.String("refund_id", refund.ID),
			zap.Error(err))
		return nil, err
	}

	metrics.PaymentRefunds.WithLabelValues("success").Inc()
	logger.Info("Payment refunded",
		zap.Int64("payment_id", paymentID),
		zap.String("refund_id", refund.ID))

	if session, sErr := s.sessionRepo.GetByID(ctx, updated.SessionID); sErr == nil {
		s.dispatcher.PaymentRefunded(ctx, session, updated)
	} else {
		logger.Error("Failed to load session for refund notification",
			zap.Int64("payment_id", paymentID), zap.Error(sErr))
	}

	return updated, nil
}

// GetPaymentStatus fetches a payment, restricted to its participants
func (s *PaymentService) GetPaymentStatus(ctx context.Context, actorID int64, actorRole models.Role, paymentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if !canRefundPayment(actorID, actorRole, payment) {
		return nil, apperrors.AccessDeniedError("not a participant of this payment")
	}

	return payment, nil
}
