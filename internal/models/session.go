package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// SessionStatus represents the status of a mentorship session booking
type SessionStatus string

const (
	SessionRequested SessionStatus = "requested"
	SessionAccepted  SessionStatus = "accepted"
	SessionDeclined  SessionStatus = "declined"
	SessionCompleted SessionStatus = "completed"
)

// UpcomingStatuses are statuses shown on the upcoming sessions view
var UpcomingStatuses = []SessionStatus{SessionAccepted, SessionCompleted}

// IsTerminal returns true if the status is terminal (no further transitions allowed)
func (s SessionStatus) IsTerminal() bool {
	return s == SessionDeclined || s == SessionCompleted
}

// CanTransitionTo checks if a status transition is valid
func (s SessionStatus) CanTransitionTo(newStatus SessionStatus) bool {
	if s.IsTerminal() {
		return false
	}

	switch s {
	case SessionRequested:
		return newStatus == SessionAccepted || newStatus == SessionDeclined
	case SessionAccepted:
		return newStatus == SessionCompleted
	default:
		return false
	}
}

// Session represents a scheduled mentorship engagement between a student and mentor
type Session struct {
	ID          int64         `json:"id"`
	StudentID   int64         `json:"studentId"`
	MentorID    int64         `json:"mentorId"`
	Topic       string        `json:"topic"`
	Description string        `json:"description,omitempty"`
	ScheduledAt time.Time     `json:"scheduledAt"`
	Status      SessionStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Joined display fields, populated by list queries
	StudentName string `json:"studentName,omitempty"`
	MentorName  string `json:"mentorName,omitempty"`
}

// CreateSessionRequest is the payload for requesting a new session
type CreateSessionRequest struct {
	MentorID    int64     `json:"mentorId" binding:"required"`
	Topic       string    `json:"topic" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=5000"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}

// RespondToSessionRequest is the mentor's accept/decline payload
type RespondToSessionRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// SessionsResponse is the response for listing sessions
type SessionsResponse struct {
	Sessions []*Session `json:"sessions"`
	Total    int        `json:"total"`
}

// ScanSession scans a single PostgreSQL row into a Session struct
// Expected columns: id, student_id, mentor_id, topic, description, scheduled_at,
// status, created_at, updated_at
func ScanSession(row pgx.Row) (*Session, error) {
	var s Session
	var description *string

	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.MentorID,
		&s.Topic,
		&description,
		&s.ScheduledAt,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		s.Description = *description
	}

	return &s, nil
}

// ScanSessions scans multiple PostgreSQL rows into a slice of Session structs
func ScanSessions(rows pgx.Rows) ([]*Session, error) {
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		session, err := ScanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
