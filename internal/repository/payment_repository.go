package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
)

// PaymentRepository handles payment data access
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		pool: pool,
	}
}

const paymentColumns = "id, session_id, student_id, mentor_id, amount, currency, " +
	"gateway_order_id, gateway_payment_id, payment_method, status, created_at, updated_at"

// Create inserts a pending payment keyed by the gateway order ID. The partial
// unique index on (session_id) rejects a second open payment for the session.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	query := `
		INSERT INTO payments (session_id, student_id, mentor_id, amount, currency, gateway_order_id, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING ` + paymentColumns

	created, err := models.ScanPayment(r.pool.QueryRow(ctx, query,
		payment.SessionID,
		payment.StudentID,
		payment.MentorID,
		payment.Amount,
		payment.Currency,
		payment.GatewayOrderID,
		payment.PaymentMethod,
		models.PaymentPending,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("session already has an open payment: %w", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return created, nil
}

// GetByID fetches a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := models.ScanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("payment")
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// GetByOrderID fetches a payment by its gateway order ID
func (r *PaymentRepository) GetByOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_order_id = $1`

	payment, err := models.ScanPayment(r.pool.QueryRow(ctx, query, gatewayOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("payment")
		}
		return nil, fmt.Errorf("failed to get payment by order: %w", err)
	}

	return payment, nil
}

// GetOpenBySessionID fetches the session's pending/completed payment, if any
func (r *PaymentRepository) GetOpenBySessionID(ctx context.Context, sessionID int64) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE session_id = $1 AND status IN ('pending', 'completed')`

	payment, err := models.ScanPayment(r.pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("payment")
		}
		return nil, fmt.Errorf("failed to get open payment: %w", err)
	}

	return payment, nil
}

// Complete stamps the gateway payment ID and moves pending->completed under a
// row lock. A payment that is already completed is left untouched and
// reported with transitioned=false, which makes duplicate verification
// callbacks a no-op instead of a double credit.
func (r *PaymentRepository) Complete(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*models.Payment, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	lockQuery := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_order_id = $1 FOR UPDATE`

	payment, err := models.ScanPayment(tx.QueryRow(ctx, lockQuery, gatewayOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, apperrors.NotFoundError("payment")
		}
		return nil, false, fmt.Errorf("failed to lock payment: %w", err)
	}

	if payment.Status == models.PaymentCompleted {
		return payment, false, nil
	}

	if payment.Status != models.PaymentPending {
		return nil, false, apperrors.PreconditionError(
			fmt.Sprintf("payment is %s, cannot complete", payment.Status))
	}

	updateQuery := `
		UPDATE payments SET status = $2, gateway_payment_id = $3, updated_at = now()
		WHERE gateway_order_id = $1
		RETURNING ` + paymentColumns

	updated, err := models.ScanPayment(tx.QueryRow(ctx, updateQuery,
		gatewayOrderID, models.PaymentCompleted, gatewayPaymentID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to complete payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit payment completion: %w", err)
	}

	return updated, true, nil
}

// MarkRefunded moves a completed payment to refunded
func (r *PaymentRepository) MarkRefunded(ctx context.Context, id int64) (*models.Payment, error) {
	return r.setStatus(ctx, id, models.PaymentCompleted, models.PaymentRefunded)
}

// MarkFailed moves a pending payment to failed
func (r *PaymentRepository) MarkFailed(ctx context.Context, id int64) (*models.Payment, error) {
	return r.setStatus(ctx, id, models.PaymentPending, models.PaymentFailed)
}

func (r *PaymentRepository) setStatus(ctx context.Context, id int64, from, to models.PaymentStatus) (*models.Payment, error) {
	query := `
		UPDATE payments SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING ` + paymentColumns

	payment, err := models.ScanPayment(r.pool.QueryRow(ctx, query, id, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.PreconditionError(
				fmt.Sprintf("payment is not %s", from))
		}
		return nil, fmt.Errorf("failed to mark payment %s: %w", to, err)
	}

	return payment, nil
}
