package services

import (
	"github.com/mentorconnect/mentorconnect-api/internal/models"
)

// Capability checks for session and payment operations. Every mutating
// operation starts by asking one of these; handlers never encode the rules
// themselves.

// canRespondToSession reports whether the actor may accept or decline
func canRespondToSession(actorID int64, session *models.Session) bool {
	return actorID == session.MentorID
}

// canCompleteSession reports whether the actor may complete the session by
// submitting a review
func canCompleteSession(actorID int64, session *models.Session) bool {
	return actorID == session.StudentID
}

// canViewSession reports whether the actor participates in the session
func canViewSession(actorID int64, session *models.Session) bool {
	return actorID == session.StudentID || actorID == session.MentorID
}

// canInitiatePayment reports whether the actor may pay for the session
func canInitiatePayment(actorID int64, session *models.Session) bool {
	return actorID == session.StudentID
}

// canRefundPayment reports whether the actor may refund the payment. The
// paying student or the receiving mentor can start a refund; admins go
// through the same check with their own ID never matching, so the role
// escape hatch is explicit at the call site.
func canRefundPayment(actorID int64, actorRole models.Role, payment *models.Payment) bool {
	if actorRole == models.RoleAdmin {
		return true
	}
	return actorID == payment.StudentID || actorID == payment.MentorID
}
