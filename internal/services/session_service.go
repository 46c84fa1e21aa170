package services

import (
	"context"
	"time"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/repository"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	"go.uber.org/zap"
)

// SessionService owns the session booking state machine:
// requested -> accepted -> completed, with declined as the terminal branch.
type SessionService struct {
	sessionRepo repository.SessionDataSource
	reviewRepo  repository.ReviewDataSource
	userRepo    repository.UserDataSource
	dispatcher  Dispatcher
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionDataSource,
	reviewRepo repository.ReviewDataSource,
	userRepo repository.UserDataSource,
	dispatcher Dispatcher,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

// RequestSession creates a new booking in status=requested. Only students
// request sessions, and the target user must actually be a mentor.
func (s *SessionService) RequestSession(ctx context.Context, studentID int64, req *models.CreateSessionRequest) (*models.Session, error) {
	if req.ScheduledAt.Before(time.Now()) {
		return nil, apperrors.InvalidInputError("scheduledAt", "must be in the future")
	}
	if req.MentorID == studentID {
		return nil, apperrors.InvalidInputError("mentorId", "cannot book a session with yourself")
	}

	mentor, err := s.userRepo.GetByID(ctx, req.MentorID)
	if err != nil {
		return nil, err
	}
	if mentor.Role != models.RoleMentor {
		return nil, apperrors.InvalidInputError("mentorId", "user is not a mentor")
	}

	session, err := s.sessionRepo.Create(ctx, &models.Session{
		StudentID:   studentID,
		MentorID:    req.MentorID,
		Topic:       req.Topic,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		metrics.SessionRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.SessionRequests.WithLabelValues("success").Inc()
	logger.Info("Session requested",
		zap.Int64("session_id", session.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("mentor_id", req.MentorID))

	s.dispatcher.SessionRequested(ctx, session)

	return session, nil
}

// RespondToRequest is the mentor's accept or decline. Only the session's
// mentor may respond, and only while the session is still requested.
func (s *SessionService) RespondToRequest(ctx context.Context, actorID, sessionID int64, accept bool) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !canRespondToSession(actorID, session) {
		return nil, apperrors.AccessDeniedError("only the session's mentor can respond")
	}

	newStatus := models.SessionDeclined
	if accept {
		newStatus = models.SessionAccepted
	}

	updated, err := s.sessionRepo.Transition(ctx, sessionID, newStatus)
	if err != nil {
		return nil, err
	}

	logger.Info("Session responded",
		zap.Int64("session_id", sessionID),
		zap.String("status", string(newStatus)))

	if accept {
		s.dispatcher.SessionAccepted(ctx, updated)
	} else {
		s.dispatcher.SessionDeclined(ctx, updated)
	}

	return updated, nil
}

// CompleteWithReview moves an accepted session to completed by recording the
// student's review. The review insert and the transition are ordered so a
// duplicate submission fails on the review's unique constraint before any
// state changes.
func (s *SessionService) CompleteWithReview(ctx context.Context, actorID, sessionID int64, req *models.SubmitReviewRequest) (*models.Review, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !canCompleteSession(actorID, session) {
		return nil, apperrors.AccessDeniedError("only the session's student can submit a review")
	}

	if session.Status != models.SessionAccepted {
		return nil, apperrors.PreconditionError("session must be accepted before completion")
	}

	review, err := s.reviewRepo.Create(ctx, &models.Review{
		SessionID: sessionID,
		StudentID: session.StudentID,
		MentorID:  session.MentorID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		metrics.ReviewSubmissions.WithLabelValues("error").Inc()
		return nil, err
	}

	if _, err := s.sessionRepo.Transition(ctx, sessionID, models.SessionCompleted); err != nil {
		// Review row exists but the session did not move; surface the
		// conflict so the client can retry the completion.
		logger.Error("Review saved but session transition failed",
			zap.Int64("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	metrics.ReviewSubmissions.WithLabelValues("success").Inc()
	logger.Info("Session completed with review",
		zap.Int64("session_id", sessionID),
		zap.Int64("review_id", review.ID),
		zap.Int("rating", req.Rating))

	return review, nil
}

// GetSession fetches one session, restricted to its participants
func (s *SessionService) GetSession(ctx context.Context, actorID, sessionID int64) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !canViewSession(actorID, session) {
		return nil, apperrors.AccessDeniedError("not a participant of this session")
	}

	return session, nil
}

// ListSessions fetches all of the user's sessions, newest first
func (s *SessionService) ListSessions(ctx context.Context, userID int64) ([]*models.Session, error) {
	return s.sessionRepo.ListByUser(ctx, userID)
}

// ListUpcoming fetches the user's accepted/completed sessions in the next
// horizon days
func (s *SessionService) ListUpcoming(ctx context.Context, userID int64, horizonDays int) ([]*models.Session, error) {
	if horizonDays <= 0 {
		horizonDays = 30
	}

	now := time.Now()
	return s.sessionRepo.ListUpcoming(ctx, userID, now, now.AddDate(0, 0, horizonDays))
}
