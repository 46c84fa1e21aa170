package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCalendarService() (*services.CalendarService, *MockCalendarRepository, *MockSessionRepository, *MockDispatcher) {
	calendarRepo := new(MockCalendarRepository)
	sessionRepo := new(MockSessionRepository)
	dispatcher := new(MockDispatcher)

	svc := services.NewCalendarService(calendarRepo, sessionRepo, dispatcher, 60)
	return svc, calendarRepo, sessionRepo, dispatcher
}

func TestCalendarService_AddToCalendar(t *testing.T) {
	ctx := context.Background()
	scheduledAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	session := &models.Session{
		ID: 10, StudentID: 1, MentorID: 2,
		Topic: "Career advice", ScheduledAt: scheduledAt,
		Status: models.SessionAccepted,
	}

	t.Run("creates event with one hour duration and reminder alarm", func(t *testing.T) {
		svc, calendarRepo, sessionRepo, _ := newCalendarService()

		sessionRepo.On("GetByID", ctx, int64(10)).Return(session, nil)
		calendarRepo.On("Create", ctx, mock.MatchedBy(func(e *models.CalendarEvent) bool {
			return e.StartTime.Equal(scheduledAt) &&
				e.EndTime.Equal(scheduledAt.Add(time.Hour)) &&
				e.ICalUID == "session-10-1@mentorconnect.app"
		})).Return(&models.CalendarEvent{
			ID: 5, SessionID: 10, UserID: 1,
			Title:     "Mentorship session: Career advice",
			StartTime: scheduledAt,
			EndTime:   scheduledAt.Add(time.Hour),
			ICalUID:   "session-10-1@mentorconnect.app",
		}, nil)

		resp, err := svc.AddToCalendar(ctx, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.EventID)
		assert.Equal(t, "session-10.ics", resp.Filename)
		assert.Contains(t, resp.Document, "BEGIN:VCALENDAR")
		assert.Contains(t, resp.Document, "session-10-1@mentorconnect.app")
		assert.Contains(t, resp.Document, "TRIGGER:-PT15M")

		cal, err := ics.ParseCalendar(strings.NewReader(resp.Document))
		require.NoError(t, err)
		assert.Len(t, cal.Events(), 1)
	})

	t.Run("non-participant cannot add", func(t *testing.T) {
		svc, calendarRepo, sessionRepo, _ := newCalendarService()

		sessionRepo.On("GetByID", ctx, int64(10)).Return(session, nil)

		_, err := svc.AddToCalendar(ctx, 99, 10)

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
		calendarRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate add surfaces conflict", func(t *testing.T) {
		svc, calendarRepo, sessionRepo, _ := newCalendarService()

		sessionRepo.On("GetByID", ctx, int64(10)).Return(session, nil)
		calendarRepo.On("Create", ctx, mock.Anything).Return(nil, apperrors.ErrConflict)

		_, err := svc.AddToCalendar(ctx, 1, 10)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestCalendarService_ExportCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run("empty export round-trips to zero events", func(t *testing.T) {
		svc, _, sessionRepo, _ := newCalendarService()

		sessionRepo.On("ListByUser", ctx, int64(1)).Return([]*models.Session{}, nil)

		resp, err := svc.ExportCalendar(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "my-sessions.ics", resp.Filename)

		cal, err := ics.ParseCalendar(strings.NewReader(resp.Document))
		require.NoError(t, err)
		assert.Empty(t, cal.Events())
	})

	t.Run("full history maps session status onto event status", func(t *testing.T) {
		svc, _, sessionRepo, _ := newCalendarService()

		scheduledAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		sessions := []*models.Session{
			{ID: 10, StudentID: 1, MentorID: 2, Topic: "Accepted one", ScheduledAt: scheduledAt, Status: models.SessionAccepted},
			{ID: 11, StudentID: 1, MentorID: 3, Topic: "Declined one", ScheduledAt: scheduledAt.AddDate(0, 0, 1), Status: models.SessionDeclined},
		}
		sessionRepo.On("ListByUser", ctx, int64(1)).Return(sessions, nil)

		resp, err := svc.ExportCalendar(ctx, 1)

		require.NoError(t, err)
		assert.Contains(t, resp.Document, "STATUS:CONFIRMED")
		assert.Contains(t, resp.Document, "STATUS:CANCELLED")

		cal, err := ics.ParseCalendar(strings.NewReader(resp.Document))
		require.NoError(t, err)
		assert.Len(t, cal.Events(), 2)
	})
}

func TestCalendarService_SendReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches and flips the flag once per event", func(t *testing.T) {
		svc, calendarRepo, sessionRepo, dispatcher := newCalendarService()

		event := &models.CalendarEvent{ID: 5, SessionID: 10, UserID: 1, NotificationSent: false}
		session := &models.Session{ID: 10, StudentID: 1, MentorID: 2, Status: models.SessionAccepted}

		calendarRepo.On("ListPendingReminders", ctx, int64(1), mock.Anything, mock.Anything).
			Return([]*models.CalendarEvent{event}, nil)
		sessionRepo.On("GetByID", ctx, int64(10)).Return(session, nil)
		dispatcher.On("SessionReminder", ctx, event, session).Return()
		calendarRepo.On("MarkNotificationSent", ctx, int64(5)).Return(nil)

		sent, err := svc.SendReminders(ctx, 1, 1)

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		dispatcher.AssertCalled(t, "SessionReminder", ctx, event, session)
		calendarRepo.AssertCalled(t, "MarkNotificationSent", ctx, int64(5))
	})

	t.Run("no pending events sends nothing", func(t *testing.T) {
		svc, calendarRepo, _, dispatcher := newCalendarService()

		calendarRepo.On("ListPendingReminders", ctx, int64(1), mock.Anything, mock.Anything).
			Return([]*models.CalendarEvent{}, nil)

		sent, err := svc.SendReminders(ctx, 1, 1)

		assert.NoError(t, err)
		assert.Zero(t, sent)
		dispatcher.AssertNotCalled(t, "SessionReminder", mock.Anything, mock.Anything, mock.Anything)
	})
}
