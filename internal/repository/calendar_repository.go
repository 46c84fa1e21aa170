package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
)

// CalendarRepository handles calendar event data access
type CalendarRepository struct {
	pool *pgxpool.Pool
}

// NewCalendarRepository creates a new calendar repository
func NewCalendarRepository(pool *pgxpool.Pool) *CalendarRepository {
	return &CalendarRepository{
		pool: pool,
	}
}

const calendarColumns = "id, session_id, user_id, title, start_time, end_time, ical_uid, notification_sent, created_at"

// Create inserts a calendar event. The unique constraint on
// (session_id, user_id) rejects a duplicate add for the same participant.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) (*models.CalendarEvent, error) {
	query := `
		INSERT INTO calendar_events (session_id, user_id, title, start_time, end_time, ical_uid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + calendarColumns

	created, err := models.ScanCalendarEvent(r.pool.QueryRow(ctx, query,
		event.SessionID,
		event.UserID,
		event.Title,
		event.StartTime,
		event.EndTime,
		event.ICalUID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("calendar event already exists for this session: %w", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	return created, nil
}

// GetBySessionAndUser fetches one participant's event for a session
func (r *CalendarRepository) GetBySessionAndUser(ctx context.Context, sessionID, userID int64) (*models.CalendarEvent, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_events WHERE session_id = $1 AND user_id = $2`

	event, err := models.ScanCalendarEvent(r.pool.QueryRow(ctx, query, sessionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("calendar event")
		}
		return nil, fmt.Errorf("failed to get calendar event: %w", err)
	}

	return event, nil
}

// ListPendingReminders fetches events starting in [from, to] whose
// notification_sent flag is still false and whose session is accepted or
// completed
func (r *CalendarRepository) ListPendingReminders(ctx context.Context, userID int64, from, to time.Time) ([]*models.CalendarEvent, error) {
	query := `
		SELECT e.id, e.session_id, e.user_id, e.title, e.start_time, e.end_time,
			e.ical_uid, e.notification_sent, e.created_at
		FROM calendar_events e
		JOIN sessions s ON s.id = e.session_id
		WHERE e.user_id = $1
			AND e.notification_sent = FALSE
			AND e.start_time BETWEEN $2 AND $3
			AND s.status = ANY($4)
		ORDER BY e.start_time ASC
	`

	rows, err := r.pool.Query(ctx, query, userID, from, to, models.UpcomingStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reminders: %w", err)
	}

	return models.ScanCalendarEvents(rows)
}

// MarkNotificationSent flips the notification_sent flag
func (r *CalendarRepository) MarkNotificationSent(ctx context.Context, eventID int64) error {
	query := `UPDATE calendar_events SET notification_sent = TRUE WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("calendar event")
	}

	return nil
}
