package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// MentorProfile is a mentor's public listing entry
type MentorProfile struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Bio             string    `json:"bio,omitempty"`
	Expertise       string    `json:"expertise,omitempty"`
	ExperienceYears int       `json:"experienceYears"`
	HourlyRate      int64     `json:"hourlyRate"`
	Availability    string    `json:"availability,omitempty"`
	PictureURL      string    `json:"pictureUrl,omitempty"`
	IsVisible       bool      `json:"isVisible"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Name          string  `json:"name"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// StudentProfile is a student's profile
type StudentProfile struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Bio        string    `json:"bio,omitempty"`
	Interests  string    `json:"interests,omitempty"`
	Goals      string    `json:"goals,omitempty"`
	PictureURL string    `json:"pictureUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Name string `json:"name"`
}

// UpdateMentorProfileRequest is the payload for editing a mentor profile
type UpdateMentorProfileRequest struct {
	Bio             string `json:"bio" binding:"max=5000"`
	Expertise       string `json:"expertise" binding:"max=1000"`
	ExperienceYears int    `json:"experienceYears" binding:"gte=0,lte=80"`
	HourlyRate      int64  `json:"hourlyRate" binding:"gte=0"`
	Availability    string `json:"availability" binding:"max=1000"`
	IsVisible       *bool  `json:"isVisible"`
}

// UpdateStudentProfileRequest is the payload for editing a student profile
type UpdateStudentProfileRequest struct {
	Bio       string `json:"bio" binding:"max=5000"`
	Interests string `json:"interests" binding:"max=1000"`
	Goals     string `json:"goals" binding:"max=1000"`
}

// UploadPictureRequest carries a base64-encoded profile picture
type UploadPictureRequest struct {
	ImageData   string `json:"imageData" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// MentorsResponse is the response for the mentor listing
type MentorsResponse struct {
	Mentors []*MentorProfile `json:"mentors"`
	Total   int              `json:"total"`
}

// ScanMentorProfile scans a single PostgreSQL row into a MentorProfile struct
// Expected columns: id, user_id, bio, expertise, experience_years, hourly_rate,
// availability, picture_url, is_visible, created_at, updated_at, name (from JOIN users)
func ScanMentorProfile(row pgx.Row) (*MentorProfile, error) {
	var p MentorProfile
	var bio, expertise, availability, pictureURL *string

	err := row.Scan(
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

	return &p, nil
}

// ScanMentorProfiles scans multiple PostgreSQL rows into a slice of MentorProfile structs
func ScanMentorProfiles(rows pgx.Rows) ([]*MentorProfile, error) {
	defer rows.Close()

	profiles := []*MentorProfile{}
	for rows.Next() {
		profile, err := ScanMentorProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// ScanStudentProfile scans a single PostgreSQL row into a StudentProfile struct
// Expected columns: id, user_id, bio, interests, goals, picture_url,
// created_at, updated_at, name (from JOIN users)
func ScanStudentProfile(row pgx.Row) (*StudentProfile, error) {
	var p StudentProfile
	var bio, interests, goals, pictureURL *string

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&bio,
		&interests,
		&goals,
		&pictureURL,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Name,
	)
	if err != nil {
		return nil, err
	}

	if bio != nil {
		p.Bio = *bio
	}
	if interests != nil {
		p.Interests = *interests
	}
	if goals != nil {
		p.Goals = *goals
	}
	if pictureURL != nil {
		p.PictureURL = *pictureURL
	}

	return &p, nil
}
