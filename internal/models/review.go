package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// Review is a student's review of a completed session. Submitting it is what
// moves the session from accepted to completed.
type Review struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"sessionId"`
	StudentID int64     `json:"studentId"`
	MentorID  int64     `json:"mentorId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	StudentName string `json:"studentName,omitempty"`
}

// SubmitReviewRequest represents a review form submission from a student
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=5000"`
}

// ReviewsResponse is the response for listing a mentor's reviews
type ReviewsResponse struct {
	Reviews       []*Review `json:"reviews"`
	Total         int       `json:"total"`
	AverageRating float64   `json:"averageRating"`
}

// ScanReview scans a single PostgreSQL row into a Review struct
// Expected columns: id, session_id, student_id, mentor_id, rating, comment, created_at
func ScanReview(row pgx.Row) (*Review, error) {
	var r Review
	var comment *string

	err := row.Scan(
		&r.ID,
		&r.SessionID,
		&r.StudentID,
		&r.MentorID,
		&r.Rating,
		&comment,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if comment != nil {
		r.Comment = *comment
	}

	return &r, nil
}

// ScanReviews scans multiple PostgreSQL rows into a slice of Review structs
func ScanReviews(rows pgx.Rows) ([]*Review, error) {
	defer rows.Close()

	reviews := []*Review{}
	for rows.Next() {
		review, err := ScanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}
