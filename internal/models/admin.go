package models

// AdminStats is the admin dashboard aggregate
type AdminStats struct {
	TotalStudents     int64            `json:"totalStudents"`
	TotalMentors      int64            `json:"totalMentors"`
	TotalSessions     int64            `json:"totalSessions"`
	SessionsByStatus  map[string]int64 `json:"sessionsByStatus"`
	CompletedPayments int64            `json:"completedPayments"`
	RevenueByCurrency map[string]int64 `json:"revenueByCurrency"`
	RecentSessions    []*Session       `json:"recentSessions"`
}

// SetUserActiveRequest is the payload for activating or deactivating a user
type SetUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
