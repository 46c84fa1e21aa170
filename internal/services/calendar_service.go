package services

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/repository"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	calendarProductID = "-//MentorConnect//Sessions//EN"
	reminderTrigger   = "-PT15M"
	icalUIDDomain     = "mentorconnect.app"
)

// CalendarService materializes sessions into iCalendar documents and
// persisted calendar events, and drives session reminders.
type CalendarService struct {
	calendarRepo  repository.CalendarDataSource
	sessionRepo   repository.SessionDataSource
	dispatcher    Dispatcher
	sessionLength time.Duration
}

// NewCalendarService creates a new calendar service
func NewCalendarService(
	calendarRepo repository.CalendarDataSource,
	sessionRepo repository.SessionDataSource,
	dispatcher Dispatcher,
	sessionLengthMinutes int,
) *CalendarService {
	if sessionLengthMinutes <= 0 {
		sessionLengthMinutes = 60
	}

	return &CalendarService{
		calendarRepo:  calendarRepo,
		sessionRepo:   sessionRepo,
		dispatcher:    dispatcher,
		sessionLength: time.Duration(sessionLengthMinutes) * time.Minute,
	}
}

// icalUID builds the globally unique event identifier for one participant's
// view of one session
func icalUID(sessionID, userID int64) string {
	return fmt.Sprintf("session-%d-%d@%s", sessionID, userID, icalUIDDomain)
}

// AddToCalendar persists a calendar event for the acting participant and
// returns the serialized single-event document
func (s *CalendarService) AddToCalendar(ctx context.Context, actorID, sessionID int64) (*models.AddToCalendarResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !canViewSession(actorID, session) {
		return nil, apperrors.AccessDeniedError("not a participant of this session")
	}

	event := &models.CalendarEvent{
		SessionID: sessionID,
		UserID:    actorID,
		Title:     fmt.Sprintf("Mentorship session: %s", session.Topic),
		StartTime: session.ScheduledAt,
		EndTime:   session.ScheduledAt.Add(s.sessionLength),
		ICalUID:   icalUID(sessionID, actorID),
	}

	created, err := s.calendarRepo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	cal := s.newCalendar()
	s.appendEvent(cal, created, session)

	logger.Info("Calendar event created",
		zap.Int64("event_id", created.ID),
		zap.Int64("session_id", sessionID),
		zap.Int64("user_id", actorID))

	return &models.AddToCalendarResponse{
		EventID:  created.ID,
		ICalUID:  created.ICalUID,
		Document: cal.Serialize(),
		Filename: fmt.Sprintf("session-%d.ics", sessionID),
	}, nil
}

// ExportCalendar serializes the user's full session history into one
// document. A user with no sessions gets a valid empty calendar.
func (s *CalendarService) ExportCalendar(ctx context.Context, userID int64) (*models.AddToCalendarResponse, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cal := s.newCalendar()

	for _, session := range sessions {
		event := &models.CalendarEvent{
			SessionID: session.ID,
			UserID:    userID,
			Title:     fmt.Sprintf("Mentorship session: %s", session.Topic),
			StartTime: session.ScheduledAt,
			EndTime:   session.ScheduledAt.Add(s.sessionLength),
			ICalUID:   icalUID(session.ID, userID),
		}
		s.appendEvent(cal, event, session)
	}

	metrics.CalendarExports.WithLabelValues("success").Inc()
	logger.Info("Calendar exported",
		zap.Int64("user_id", userID),
		zap.Int("event_count", len(sessions)))

	return &models.AddToCalendarResponse{
		Document: cal.Serialize(),
		Filename: "my-sessions.ics",
	}, nil
}

// SendReminders dispatches reminders for the user's calendar events starting
// within the next daysBefore days, then flips their notification_sent flag.
// Each event is reminded at most once.
func (s *CalendarService) SendReminders(ctx context.Context, userID int64, daysBefore int) (int, error) {
	if daysBefore <= 0 {
		daysBefore = 1
	}

	now := time.Now()
	events, err := s.calendarRepo.ListPendingReminders(ctx, userID, now, now.AddDate(0, 0, daysBefore))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, event := range events {
		session, err := s.sessionRepo.GetByID(ctx, event.SessionID)
		if err != nil {
			logger.Error("Failed to load session for reminder",
				zap.Int64("event_id", event.ID), zap.Error(err))
			continue
		}

		s.dispatcher.SessionReminder(ctx, event, session)

		if err := s.calendarRepo.MarkNotificationSent(ctx, event.ID); err != nil {
			logger.Error("Failed to mark reminder sent",
				zap.Int64("event_id", event.ID), zap.Error(err))
			continue
		}

		metrics.CalendarReminders.Inc()
		sent++
	}

	logger.Info("Session reminders dispatched",
		zap.Int64("user_id", userID),
		zap.Int("count", sent))

	return sent, nil
}

func (s *CalendarService) newCalendar() *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	return cal
}

// appendEvent adds one session to the document with a 15-minute display
// alarm. Session status maps onto the event status so declined bookings
// show as cancelled.
func (s *CalendarService) appendEvent(cal *ics.Calendar, event *models.CalendarEvent, session *models.Session) {
	e := cal.AddEvent(event.ICalUID)
	e.SetSummary(event.Title)
	e.SetStartAt(event.StartTime)
	e.SetEndAt(event.EndTime)
	e.SetDtStampTime(time.Now())

	if session.Description != "" {
		e.SetDescription(session.Description)
	}

	switch session.Status {
	case models.SessionAccepted, models.SessionCompleted:
		e.SetStatus(ics.ObjectStatusConfirmed)
	case models.SessionDeclined:
		e.SetStatus(ics.ObjectStatusCancelled)
	default:
		e.SetStatus(ics.ObjectStatusTentative)
	}

	alarm := e.AddAlarm()
	alarm.SetAction(ics.ActionDisplay)
	alarm.SetTrigger(reminderTrigger)
}
