package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
)

// ProfileRepository handles mentor and student profile data access
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		pool: pool,
	}
}

const mentorProfileColumns = `p.id, p.user_id, p.bio, p.expertise, p.experience_years,
	p.hourly_rate, p.availability, p.picture_url, p.is_visible, p.created_at, p.updated_at, u.name`

// CreateMentorProfile inserts an empty mentor profile for a new user
func (r *ProfileRepository) CreateMentorProfile(ctx context.Context, userID int64) error {
	query := `INSERT INTO mentor_profiles (user_id) VALUES ($1)`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to create mentor profile: %w", err)
	}

	return nil
}

// CreateStudentProfile inserts an empty student profile for a new user
func (r *ProfileRepository) CreateStudentProfile(ctx context.Context, userID int64) error {
	query := `INSERT INTO student_profiles (user_id) VALUES ($1)`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}

	return nil
}

// GetMentorProfile fetches a mentor profile by profile ID
func (r *ProfileRepository) GetMentorProfile(ctx context.Context, id int64) (*models.MentorProfile, error) {
	query := `
		SELECT ` + mentorProfileColumns + `
		FROM mentor_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	profile, err := models.ScanMentorProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("mentor profile")
		}
		return nil, fmt.Errorf("failed to get mentor profile: %w", err)
	}

	r.attachRatings(ctx, profile)

	return profile, nil
}

// GetMentorProfileByUserID fetches a mentor profile by the owning user ID
func (r *ProfileRepository) GetMentorProfileByUserID(ctx context.Context, userID int64) (*models.MentorProfile, error) {
	query := `
		SELECT ` + mentorProfileColumns + `
		FROM mentor_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`

	profile, err := models.ScanMentorProfile(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("mentor profile")
		}
		return nil, fmt.Errorf("failed to get mentor profile: %w", err)
	}

	r.attachRatings(ctx, profile)

	return profile, nil
}

// GetStudentProfileByUserID fetches a student profile by the owning user ID
func (r *ProfileRepository) GetStudentProfileByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	query := `
		SELECT p.id, p.user_id, p.bio, p.interests, p.goals, p.picture_url,
			p.created_at, p.updated_at, u.name
		FROM student_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`

	profile, err := models.ScanStudentProfile(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("student profile")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	return profile, nil
}

// ListVisibleMentors fetches all visible mentor profiles with rating aggregates
func (r *ProfileRepository) ListVisibleMentors(ctx context.Context) ([]*models.MentorProfile, error) {
	query := `
		SELECT p.id, p.user_id, p.bio, p.expertise, p.experience_years,
			p.hourly_rate, p.availability, p.picture_url, p.is_visible,
			p.created_at, p.updated_at, u.name,
			COALESCE(AVG(rv.rating), 0) AS average_rating,
			COUNT(rv.id) AS review_count
		FROM mentor_profiles p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN reviews rv ON rv.mentor_id = p.user_id
		WHERE p.is_visible = TRUE
		GROUP BY p.id, u.name
		ORDER BY average_rating DESC, review_count DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	defer rows.Close()

	profiles := []*models.MentorProfile{}
	for rows.Next() {
		var p models.MentorProfile
		var bio, expertise, availability, pictureURL *string

		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&bio,
			&expertise,
			&p.ExperienceYears,
			&p.HourlyRate,
			&availability,
			&pictureURL,
			&p.IsVisible,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.Name,
			&p.AverageRating,
			&p.ReviewCount,
		)
		if err != nil {
			return nil, err
		}

		if bio != nil {
			p.Bio = *bio
		}
		if expertise != nil {
			p.Expertise = *expertise
		}
		if availability != nil {
			p.Availability = *availability
		}
		if pictureURL != nil {
			p.PictureURL = *pictureURL
		}

		profiles = append(profiles, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// UpdateMentorProfile applies a mentor profile edit
func (r *ProfileRepository) UpdateMentorProfile(ctx context.Context, userID int64, req *models.UpdateMentorProfileRequest) (*models.MentorProfile, error) {
	isVisible := true
	if req.IsVisible != nil {
		isVisible = *req.IsVisible
	}

	query := `
		UPDATE mentor_profiles SET
			bio = NULLIF($2, ''),
			expertise = NULLIF($3, ''),
			experience_years = $4,
			hourly_rate = $5,
			availability = NULLIF($6, ''),
			is_visible = $7,
			updated_at = now()
		WHERE user_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID,
		req.Bio, req.Expertise, req.ExperienceYears, req.HourlyRate, req.Availability, isVisible)
	if err != nil {
		return nil, fmt.Errorf("failed to update mentor profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NotFoundError("mentor profile")
	}

	return r.GetMentorProfileByUserID(ctx, userID)
}

// UpdateStudentProfile applies a student profile edit
func (r *ProfileRepository) UpdateStudentProfile(ctx context.Context, userID int64, req *models.UpdateStudentProfileRequest) (*models.StudentProfile, error) {
	query := `
		UPDATE student_profiles SET
			bio = NULLIF($2, ''),
			interests = NULLIF($3, ''),
			goals = NULLIF($4, ''),
			updated_at = now()
		WHERE user_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID, req.Bio, req.Interests, req.Goals)
	if err != nil {
		return nil, fmt.Errorf("failed to update student profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NotFoundError("student profile")
	}

	return r.GetStudentProfileByUserID(ctx, userID)
}

// UpdatePictureURL sets the profile picture URL for the user's profile
func (r *ProfileRepository) UpdatePictureURL(ctx context.Context, userID int64, role models.Role, pictureURL string) error {
	table := "student_profiles"
	if role == models.RoleMentor {
		table = "mentor_profiles"
	}

	query := fmt.Sprintf(`UPDATE %s SET picture_url = $2, updated_at = now() WHERE user_id = $1`, table)

	tag, err := r.pool.Exec(ctx, query, userID, pictureURL)
	if err != nil {
		return fmt.Errorf("failed to update picture URL: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("profile")
	}

	return nil
}

// attachRatings fills rating aggregates for a single mentor profile.
// Best effort: a failure leaves the zero values in place.
func (r *ProfileRepository) attachRatings(ctx context.Context, profile *models.MentorProfile) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(id)
		FROM reviews WHERE mentor_id = $1
	`

	_ = r.pool.QueryRow(ctx, query, profile.UserID).Scan(&profile.AverageRating, &profile.ReviewCount) //nolint:errcheck
}
