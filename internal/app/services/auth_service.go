package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/examportal/internal/app/models"
	"github.com/yigit/examportal/internal/app/models/dto"
	"github.com/yigit/examportal/internal/app/repositories"
	"github.com/yigit/examportal/internal/pkg/apperrors"
	"github.com/yigit/examportal/internal/pkg/auth"
	"github.com/yigit/examportal/internal/pkg/ratelimit"
)

// SessionMinter issues session tokens
type SessionMinter interface {
	Mint(identity auth.SessionClaims) (string, error)
	TTL() time.Duration
}

// LoginResult is a successful login
type LoginResult struct {
	User      *models.AdminUser
	Token     string
	ExpiresAt time.Time
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo repositories.IAdminUserRepository
	sessions SessionMinter
	throttle ratelimit.Throttle
	now      func() time.Time
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService. A nil throttle disables login throttling.
func NewAuthService(
	userRepo repositories.IAdminUserRepository,
	sessions SessionMinter,
	throttle ratelimit.Throttle,
	logger zerolog.Logger,
) *AuthService {
	if throttle == nil {
		throttle = ratelimit.Noop{}
	}
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		throttle: throttle,
		now:      time.Now,
		logger:   logger,
	}
}

// Login authenticates by username (or email) and password and mints a session token
func (s *AuthService) Login(ctx context.Context, identifier, password, clientIP string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.NewInvalidInputError("Username and password are required")
	}

	if err := s.throttle.Allow(ctx, identifier, clientIP); err != nil {
		if errors.Is(err, ratelimit.ErrRateLimited) {
			s.logger.Warn().Str("username", identifier).Str("ip", clientIP).Msg("Login throttled")
			return nil, apperrors.ErrTooManyAttempts
		}
		// fail open on store errors
		s.logger.Warn().Err(err).Msg("Login throttle unavailable, continuing without it")
	}

	user, err := s.findUser(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info().Str("username", identifier).Msg("Login failed: bad password")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive() {
		s.logger.Info().Str("username", user.Username).Msg("Login refused: account inactive")
		return nil, apperrors.ErrAccountInactive
	}

	token, err := s.sessions.Mint(auth.SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		UserType: string(user.UserType),
	})
	if err != nil {
		return nil, internalError(s.logger, err, "Failed to create session")
	}

	if err := s.throttle.Reset(ctx, identifier, clientIP); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to reset login throttle")
	}

	s.logger.Info().Str("userId", user.ID).Str("username", user.Username).Msg("Admin logged in")
	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: s.now().Add(s.sessions.TTL()),
	}, nil
}

// findUser looks the identifier up as a username first, then as an email
func (s *AuthService) findUser(ctx context.Context, identifier string) (*models.AdminUser, error) {
	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, internalError(s.logger, err, "Failed to look up admin user")
	}

	user, err = s.userRepo.GetByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, internalError(s.logger, err, "Failed to look up admin user")
	}

	s.logger.Info().Str("username", identifier).Msg("Login failed: unknown user")
	return nil, apperrors.ErrInvalidCredentials
}

// Me returns the identity carried by verified session claims
func (s *AuthService) Me(claims *auth.SessionClaims) (dto.AdminUserResponse, error) {
	if claims == nil || claims.UserID == "" {
		return dto.AdminUserResponse{}, apperrors.ErrSessionInvalid
	}
	return dto.AdminUserResponse{
		ID:       claims.UserID,
		Username: claims.Username,
		FullName: claims.FullName,
		UserType: claims.UserType,
	}, nil
}

// CreateAdmin hashes the password and stores a new ACTIVE admin account
func (s *AuthService) CreateAdmin(ctx context.Context, req dto.CreateAdminUserRequest) (*models.AdminUser, error) {
	username := strings.TrimSpace(req.Username)
	fullName := strings.TrimSpace(req.FullName)
	if len(username) < 3 {
		return nil, apperrors.NewInvalidInputError("Username must be at least 3 characters")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.NewInvalidInputError("Password must be at least 6 characters")
	}
	if fullName == "" {
		return nil, apperrors.NewInvalidInputError("Full name is required")
	}

	userType, ok := models.ParseUserType(req.UserType)
	if !ok {
		return nil, apperrors.NewInvalidInputError("Type must be one of: Admin, Dean, HOD, User")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internalError(s.logger, err, "Failed to hash password")
	}

	user := &models.AdminUser{
		FullName:     fullName,
		Username:     username,
		PasswordHash: hash,
		UserType:     userType,
		Status:       models.UserStatusActive,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = &email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.ErrUserExists
		}
		return nil, internalError(s.logger, err, "Failed to create admin user")
	}

	s.logger.Info().Str("userId", user.ID).Str("username", user.Username).Msg("Admin user created")
	return user, nil
}
