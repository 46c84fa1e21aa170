package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// IsOpen returns true while the payment blocks a new payment on the same
// session. Failed and refunded payments leave the session payable again.
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentPending || s == PaymentCompleted
}

// Payment represents a payment tied to a single session.
// Amount is stored in major units; the gateway receives minor units (x100).
type Payment struct {
	ID               int64         `json:"id"`
	SessionID        int64         `json:"sessionId"`
	StudentID        int64         `json:"studentId"`
	MentorID         int64         `json:"mentorId"`
	Amount           int64         `json:"amount"`
	Currency         string        `json:"currency"`
	GatewayOrderID   string        `json:"gatewayOrderId"`
	GatewayPaymentID string        `json:"gatewayPaymentId,omitempty"`
	PaymentMethod    string        `json:"paymentMethod,omitempty"`
	Status           PaymentStatus `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// AmountMinor returns the amount in the gateway's minor-unit representation
func (p *Payment) AmountMinor() int64 {
	return p.Amount * 100
}

// InitiatePaymentRequest is the payload for creating a payment order
type InitiatePaymentRequest struct {
	SessionID int64  `json:"sessionId" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Method    string `json:"method" binding:"omitempty,oneof=card upi netbanking wallet"`
}

// InitiatePaymentResponse carries the gateway order handle back to the client
type InitiatePaymentResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // minor units, as the checkout widget expects
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// VerifyPaymentRequest is the signed checkout callback payload
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpayOrderId" binding:"required"`
	PaymentID string `json:"razorpayPaymentId" binding:"required"`
	Signature string `json:"razorpaySignature" binding:"required"`
}

// RefundPaymentRequest asks for a refund; zero amount means full refund
type RefundPaymentRequest struct {
	Amount int64 `json:"amount" binding:"omitempty,gte=0"`
}

// ScanPayment scans a single PostgreSQL row into a Payment struct
// Expected columns: id, session_id, student_id, mentor_id, amount, currency,
// gateway_order_id, gateway_payment_id, payment_method, status, created_at, updated_at
func ScanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var gatewayPaymentID *string
	var paymentMethod *string

	err := row.Scan(
		&p.ID,
		&p.SessionID,
		&p.StudentID,
		&p.MentorID,
		&p.Amount,
		&p.Currency,
		&p.GatewayOrderID,
		&gatewayPaymentID,
		&paymentMethod,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if gatewayPaymentID != nil {
		p.GatewayPaymentID = *gatewayPaymentID
	}
	if paymentMethod != nil {
		p.PaymentMethod = *paymentMethod
	}

	return &p, nil
}

// ScanPayments scans multiple PostgreSQL rows into a slice of Payment structs
func ScanPayments(rows pgx.Rows) ([]*Payment, error) {
	defer rows.Close()

	payments := []*Payment{}
	for rows.Next() {
		payment, err := ScanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
