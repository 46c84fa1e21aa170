package services

import (
	"context"
	"fmt"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/repository"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"go.uber.org/zap"
)

// AdminService backs the admin dashboard and account moderation
type AdminService struct {
	adminRepo repository.AdminDataSource
	userRepo  repository.UserDataSource
}

// NewAdminService creates a new admin service
func NewAdminService(adminRepo repository.AdminDataSource, userRepo repository.UserDataSource) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		userRepo:  userRepo,
	}
}

// GetStats fetches the dashboard aggregate
func (s *AdminService) GetStats(ctx context.Context) (*models.AdminStats, error) {
	return s.adminRepo.GetStats(ctx)
}

// SetUserActive activates or deactivates an account. Admin accounts cannot be
// deactivated through the API.
func (s *AdminService) SetUserActive(ctx context.Context, userID int64, active bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role == models.RoleAdmin && !active {
		return nil, fmt.Errorf("admin accounts cannot be deactivated: %w", apperrors.ErrAccessDenied)
	}

	if user.IsActive == active {
		return user, nil
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}

	user.IsActive = active

	logger.Info("User active flag changed",
		zap.Int64("user_id", userID),
		zap.Bool("active", active))

	return user, nil
}
