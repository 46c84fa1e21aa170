package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// CalendarEvent represents a session materialized into a participant's calendar
type CalendarEvent struct {
	ID               int64     `json:"id"`
	SessionID        int64     `json:"sessionId"`
	UserID           int64     `json:"userId"`
	Title            string    `json:"title"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	ICalUID          string    `json:"icalUid"`
	NotificationSent bool      `json:"notificationSent"`
	CreatedAt        time.Time `json:"createdAt"`
}

// AddToCalendarResponse returns the serialized calendar document for one session
type AddToCalendarResponse struct {
	EventID  int64  `json:"eventId"`
	ICalUID  string `json:"icalUid"`
	Document string `json:"document"`
	Filename string `json:"filename"`
}

// SendRemindersRequest selects sessions in the [now, now+days] window
type SendRemindersRequest struct {
	DaysBefore int `json:"daysBefore" binding:"omitempty,gte=1,lte=30"`
}

// SendRemindersResponse reports how many reminders were dispatched
type SendRemindersResponse struct {
	RemindersSent int `json:"remindersSent"`
}

// ScanCalendarEvent scans a single PostgreSQL row into a CalendarEvent struct
// Expected columns: id, session_id, user_id, title, start_time, end_time,
// ical_uid, notification_sent, created_at
func ScanCalendarEvent(row pgx.Row) (*CalendarEvent, error) {
	var e CalendarEvent

	err := row.Scan(
		&e.ID,
		&e.SessionID,
		&e.UserID,
		&e.Title,
		&e.StartTime,
		&e.EndTime,
		&e.ICalUID,
		&e.NotificationSent,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// ScanCalendarEvents scans multiple PostgreSQL rows into a slice of CalendarEvent structs
func ScanCalendarEvents(rows pgx.Rows) ([]*CalendarEvent, error) {
	defer rows.Close()

	events := []*CalendarEvent{}
	for rows.Next() {
		event, err := ScanCalendarEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
