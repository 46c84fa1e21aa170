package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/repository"
	"github.com/mentorconnect/mentorconnect-api/pkg/apperrors"
	"github.com/mentorconnect/mentorconnect-api/pkg/jwt"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and password reset
type AuthService struct {
	userRepo     repository.UserDataSource
	profileRepo  repository.ProfileDataSource
	tokenManager *jwt.TokenManager
	dispatcher   Dispatcher
	bcryptCost   int
	resetTTL     time.Duration
	baseURL      string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserDataSource,
	profileRepo repository.ProfileDataSource,
	tokenManager *jwt.TokenManager,
	dispatcher Dispatcher,
	bcryptCost int,
	resetTTLMinutes int,
	baseURL string,
) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		tokenManager: tokenManager,
		dispatcher:   dispatcher,
		bcryptCost:   bcryptCost,
		resetTTL:     time.Duration(resetTTLMinutes) * time.Minute,
		baseURL:      baseURL,
	}
}

// Register creates a user plus the role-matching profile and returns a
// session token
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req.Name, req.Email, string(hash), req.Role, req.Phone)
	if err != nil {
		metrics.Registrations.WithLabelValues(string(req.Role), "error").Inc()
		return nil, "", err
	}

	switch user.Role {
	case models.RoleMentor:
		err = s.profileRepo.CreateMentorProfile(ctx, user.ID)
	case models.RoleStudent:
		err = s.profileRepo.CreateStudentProfile(ctx, user.ID)
	}
	if err != nil {
		logger.Error("Failed to create profile for new user",
			zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := s.tokenManager.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	metrics.Registrations.WithLabelValues(string(req.Role), "success").Inc()
	logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return user, token, nil
}

// Login verifies credentials and returns a session token. A wrong password
// and an unknown email return the same error.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.Logins.WithLabelValues("invalid_credentials").Inc()
			return nil, "", fmt.Errorf("invalid email or password: %w", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		return nil, "", fmt.Errorf("invalid email or password: %w", apperrors.ErrUnauthorized)
	}

	if !user.IsActive {
		metrics.Logins.WithLabelValues("deactivated").Inc()
		return nil, "", fmt.Errorf("account is deactivated: %w", apperrors.ErrAccessDenied)
	}

	token, err := s.tokenManager.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	metrics.Logins.WithLabelValues("success").Inc()
	logger.Info("User logged in", zap.Int64("user_id", user.ID))

	return user, token, nil
}

// RequestPasswordReset emails a short-lived reset link. An unknown email is
// reported as success to avoid account enumeration.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.tokenManager.GenerateResetToken(user.ID, user.Email, s.resetTTL)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	s.dispatcher.PasswordReset(ctx, user, resetURL)

	logger.Info("Password reset link sent", zap.Int64("user_id", user.ID))

	return nil
}

// ResetPassword validates the reset token and replaces the credential hash
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	claims, err := s.tokenManager.ValidateToken(req.Token, jwt.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("invalid reset token: %w", apperrors.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, claims.UserID, string(hash)); err != nil {
		return err
	}

	logger.Info("Password reset completed", zap.Int64("user_id", claims.UserID))

	return nil
}

// GetUser fetches a user by ID
func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
