package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
)

// SessionRepository handles session booking data access
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		pool: pool,
	}
}

const sessionColumns = "id, student_id, mentor_id, topic, description, scheduled_at, status, created_at, updated_at"

// Create inserts a new session with status=requested
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	query := `
		INSERT INTO sessions (student_id, mentor_id, topic, description, scheduled_at, status)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		RETURNING ` + sessionColumns

	created, err := models.ScanSession(r.pool.QueryRow(ctx, query,
		session.StudentID,
		session.MentorID,
		session.Topic,
		session.Description,
		session.ScheduledAt,
		models.SessionRequested,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return created, nil
}

// GetByID fetches a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := models.ScanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("session")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// ListByUser fetches all sessions where the user is student or mentor,
// newest first, with participant names joined for display
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Session, error) {
	query := `
		SELECT s.id, s.student_id, s.mentor_id, s.topic, s.description, s.scheduled_at,
			s.status, s.created_at, s.updated_at, st.name AS student_name, mt.name AS mentor_name
		FROM sessions s
		JOIN users st ON st.id = s.student_id
		JOIN users mt ON mt.id = s.mentor_id
		WHERE s.student_id = $1 OR s.mentor_id = $1
		ORDER BY s.scheduled_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return scanSessionsWithNames(rows)
}

// ListUpcoming fetches accepted/completed sessions in [from, to] for the user
func (r *SessionRepository) ListUpcoming(ctx context.Context, userID int64, from, to time.Time) ([]*models.Session, error) {
	query := `
		SELECT s.id, s.student_id, s.mentor_id, s.topic, s.description, s.scheduled_at,
			s.status, s.created_at, s.updated_at, st.name AS student_name, mt.name AS mentor_name
		FROM sessions s
		JOIN users st ON st.id = s.student_id
		JOIN users mt ON mt.id = s.mentor_id
		WHERE (s.student_id = $1 OR s.mentor_id = $1)
			AND s.status = ANY($2)
			AND s.scheduled_at BETWEEN $3 AND $4
		ORDER BY s.scheduled_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID, models.UpcomingStatuses, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming sessions: %w", err)
	}

	return scanSessionsWithNames(rows)
}

// Transition moves a session to newStatus inside one transaction with a row
// lock. Two actors racing on the same session serialize on the lock; the
// loser sees the new status and gets a conflict instead of overwriting.
func (r *SessionRepository) Transition(ctx context.Context, id int64, newStatus models.SessionStatus) (*models.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	lockQuery := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 FOR UPDATE`

	session, err := models.ScanSession(tx.QueryRow(ctx, lockQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("session")
		}
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}

	if !session.Status.CanTransitionTo(newStatus) {
		if session.Status == newStatus {
			return nil, fmt.Errorf("session already %s: %w", newStatus, apperrors.ErrConflict)
		}
		return nil, apperrors.PreconditionError(
			fmt.Sprintf("session is %s, cannot move to %s", session.Status, newStatus))
	}

	updateQuery := `
		UPDATE sessions SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + sessionColumns

	updated, err := models.ScanSession(tx.QueryRow(ctx, updateQuery, id, newStatus))
	if err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	metrics.SessionTransitions.WithLabelValues(string(session.Status), string(newStatus)).Inc()

	return updated, nil
}

func scanSessionsWithNames(rows pgx.Rows) ([]*models.Session, error) {
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		var s models.Session
		var description *string

		err := rows.Scan(
			&s.ID,
			&s.StudentID,
			&s.MentorID,
			&s.Topic,
			&description,
			&s.ScheduledAt,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.StudentName,
			&s.MentorName,
		)
		if err != nil {
			return nil, err
		}

		if description != nil {
			s.Description = *description
		}
		sessions = append(sessions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
