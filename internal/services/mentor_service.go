package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mentorconnect/mentorconnect-api/internal/cache"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/repository"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"go.uber.org/zap"
)

// MentorService serves the public mentor listing through the keyed cache
// and handles profile edits and picture uploads
type MentorService struct {
	profileRepo  repository.ProfileDataSource
	reviewRepo   repository.ReviewDataSource
	mentorCache  *cache.MentorCache
	storage      ObjectStorage
	cacheEnabled bool
}

// NewMentorService creates a new mentor service. storage may be nil when
// object storage is disabled; uploads then fail with a precondition error.
func NewMentorService(
	profileRepo repository.ProfileDataSource,
	reviewRepo repository.ReviewDataSource,
	mentorCache *cache.MentorCache,
	storage ObjectStorage,
	cacheEnabled bool,
) *MentorService {
	return &MentorService{
		profileRepo:  profileRepo,
		reviewRepo:   reviewRepo,
		mentorCache:  mentorCache,
		storage:      storage,
		cacheEnabled: cacheEnabled,
	}
}

// ListMentors returns all visible mentors, served from the cache when warm
func (s *MentorService) ListMentors(ctx context.Context) ([]*models.MentorProfile, error) {
	if s.cacheEnabled {
		if profiles, found := s.mentorCache.GetList(); found {
			return profiles, nil
		}
	}

	profiles, err := s.profileRepo.ListVisibleMentors(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled {
		s.mentorCache.SetList(profiles)
	}

	return profiles, nil
}

// GetMentor returns one mentor profile by profile ID
func (s *MentorService) GetMentor(ctx context.Context, id int64) (*models.MentorProfile, error) {
	if s.cacheEnabled {
		if profile, found := s.mentorCache.GetByID(id); found {
			return profile, nil
		}
	}

	profile, err := s.profileRepo.GetMentorProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled {
		s.mentorCache.SetByID(profile)
	}

	return profile, nil
}

// GetMentorReviews returns a mentor's reviews with the average rating
func (s *MentorService) GetMentorReviews(ctx context.Context, mentorUserID int64) (*models.ReviewsResponse, error) {
	reviews, average, err := s.reviewRepo.ListByMentor(ctx, mentorUserID)
	if err != nil {
		return nil, err
	}

	return &models.ReviewsResponse{
		Reviews:       reviews,
		Total:         len(reviews),
		AverageRating: average,
	}, nil
}

// UpdateMentorProfile applies a profile edit and invalidates the mentor's
// cache entry so the next read sees the write
func (s *MentorService) UpdateMentorProfile(ctx context.Context, userID int64, req *models.UpdateMentorProfileRequest) (*models.MentorProfile, error) {
	profile, err := s.profileRepo.UpdateMentorProfile(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.mentorCache.Invalidate(profile.ID)

	logger.Info("Mentor profile updated", zap.Int64("user_id", userID))

	return profile, nil
}

// GetStudentProfile returns a student's profile by user ID
func (s *MentorService) GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	return s.profileRepo.GetStudentProfileByUserID(ctx, userID)
}

// GetMentorProfileByUserID returns the mentor profile owned by the user
func (s *MentorService) GetMentorProfileByUserID(ctx context.Context, userID int64) (*models.MentorProfile, error) {
	return s.profileRepo.GetMentorProfileByUserID(ctx, userID)
}

// UpdateStudentProfile applies a student profile edit
func (s *MentorService) UpdateStudentProfile(ctx context.Context, userID int64, req *models.UpdateStudentProfileRequest) (*models.StudentProfile, error) {
	return s.profileRepo.UpdateStudentProfile(ctx, userID, req)
}

// UploadProfilePicture validates, stores and links a new profile picture
func (s *MentorService) UploadProfilePicture(ctx context.Context, user *models.User, req *models.UploadPictureRequest) (string, error) {
	if s.storage == nil {
		return "", apperrors.PreconditionError("picture uploads are disabled")
	}

	if err := s.storage.ValidateImageType(req.ContentType); err != nil {
		return "", apperrors.InvalidInputError("contentType", err.Error())
	}
	if err := s.storage.ValidateImageSize(req.ImageData); err != nil {
		return "", apperrors.InvalidInputError("imageData", err.Error())
	}

	key := fmt.Sprintf("profiles/%d/%d-%s", user.ID, time.Now().Unix(), uuid.NewString())

	url, err := s.storage.UploadImage(ctx, req.ImageData, key, req.ContentType)
	if err != nil {
		return "", apperrors.GatewayError("storage", err)
	}

	if err := s.profileRepo.UpdatePictureURL(ctx, user.ID, user.Role, url); err != nil {
		return "", err
	}

	if user.Role == models.RoleMentor {
		if profile, pErr := s.profileRepo.GetMentorProfileByUserID(ctx, user.ID); pErr == nil {
			s.mentorCache.Invalidate(profile.ID)
		}
	}

	logger.Info("Profile picture uploaded",
		zap.Int64("user_id", user.ID),
		zap.String("key", key))

	return url, nil
}
