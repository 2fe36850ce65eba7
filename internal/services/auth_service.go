package services

import (
	"database/sql"
	"errors"
	"fmt"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"
	"power_gym_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// TokenPair carries the two tokens issued on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles login, registration and token refresh.
type AuthService struct {
	authRepo repositories.AuthRepository
	db       *sql.DB
}

// NewAuthService creates a new AuthService.
func NewAuthService(authRepo repositories.AuthRepository, db *sql.DB) *AuthService {
	return &AuthService{authRepo: authRepo, db: db}
}

// Register creates a user account with a bcrypt password hash. The
// role defaults to Staff when none is given.
func (s *AuthService) Register(payload models.RegistrationPayload) (*models.User, error) {
	if utils.IsEmpty(payload.Username) {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if !utils.IsValidPasswordLength(payload.Password, minPasswordLength) {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if payload.Email != nil && *payload.Email != "" && !utils.IsValidEmail(*payload.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	roleName := "Staff"
	if payload.RoleName != nil && *payload.RoleName != "" {
		roleName = *payload.RoleName
	}
	role, err := s.authRepo.FindRoleByName(roleName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, roleName)
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username:     payload.Username,
		PasswordHash: string(hash),
		Email:        payload.Email,
		FullName:     payload.FullName,
		PhotoURL:     payload.PhotoURL,
		RoleID:       &role.ID,
		IsActive:     true,
	}

	created, err := s.authRepo.CreateUser(s.db, user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: username %q is taken", ErrConflict, payload.Username)
		}
		return nil, err
	}
	created.Role = role
	return created, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(creds models.Credentials) (*models.User, *TokenPair, error) {
	if utils.IsEmpty(creds.Username) || utils.IsEmpty(creds.Password) {
		return nil, nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.authRepo.FindUserByUsername(creds.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token and issues a fresh pair. The user
// is reloaded so a deactivated account cannot keep refreshing.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	user, err := s.authRepo.FindUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return s.issueTokens(user)
}

// GetProfile returns the user record for an authenticated user ID.
func (s *AuthService) GetProfile(userID int64) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns a page of user accounts.
func (s *AuthService) ListUsers(page, pageSize int) ([]models.User, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.authRepo.GetUsers(page, pageSize)
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	access, err := utils.GenerateAccessToken(user.ID, user.Username, roleName)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, user.Username, roleName)
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
