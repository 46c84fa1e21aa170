package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
)

// ReviewRepository handles review data access
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{
		pool: pool,
	}
}

// Create inserts a review. The unique constraint on session_id rejects a
// second review for the same session.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	query := `
		INSERT INTO reviews (session_id, student_id, mentor_id, rating, comment)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, session_id, student_id, mentor_id, rating, comment, created_at
	`

	created, err := models.ScanReview(r.pool.QueryRow(ctx, query,
		review.SessionID,
		review.StudentID,
		review.MentorID,
		review.Rating,
		review.Comment,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("review already exists for this session: %w", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return created, nil
}

// ListByMentor fetches all reviews for a mentor with the student name joined.
// Returns the reviews and the average rating.
func (r *ReviewRepository) ListByMentor(ctx context.Context, mentorID int64) ([]*models.Review, float64, error) {
	query := `
		SELECT rv.id, rv.session_id, rv.student_id, rv.mentor_id, rv.rating, rv.comment,
			rv.created_at, u.name AS student_name
		FROM reviews rv
		JOIN users u ON u.id = rv.student_id
		WHERE rv.mentor_id = $1
		ORDER BY rv.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, mentorID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	var ratingSum int

	for rows.Next() {
		var rv models.Review
		var comment *string

		err := rows.Scan(
			&rv.ID,
			&rv.SessionID,
			&rv.StudentID,
			&rv.MentorID,
			&rv.Rating,
			&comment,
			&rv.CreatedAt,
			&rv.StudentName,
		)
		if err != nil {
			return nil, 0, err
		}

		if comment != nil {
			rv.Comment = *comment
		}
		ratingSum += rv.Rating
		reviews = append(reviews, &rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	average := 0.0
	if len(reviews) > 0 {
		average = float64(ratingSum) / float64(len(reviews))
	}

	return reviews, average, nil
}
