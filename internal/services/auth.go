package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cafehub/internal/auth"
	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
	"cafehub/internal/utils"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRefresh     = errors.New("refresh token is invalid or revoked")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// RefreshTokenStore is the allow-list of live refresh tokens.
type RefreshTokenStore interface {
	Store(ctx context.Context, token, userID string, ttl time.Duration) error
	IsValid(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

type AuthService struct {
	store  storage.Store
	issuer *auth.TokenIssuer
	tokens RefreshTokenStore
	log    *logger.Logger
}

func NewAuthService(store storage.Store, issuer *auth.TokenIssuer, tokens RefreshTokenStore, log *logger.Logger) *AuthService {
	return &AuthService{store: store, issuer: issuer, tokens: tokens, log: log}
}

// Register creates an account. Self-registration never grants a privileged
// role; anything above customer has to be assigned by a superadmin.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if _, err := s.store.GetUserByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	role := req.Role
	if !role.Valid() || role == models.RoleSuperAdmin {
		role = models.RoleCustomer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		CafeIDs:      models.StringList{},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.SaveUser(user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	s.log.LogSecurity("REGISTER", fmt.Sprintf("New %s account %s", user.Role, user.ID))

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.store.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.LogSecurity("LOGIN_FAILED", fmt.Sprintf("Bad password for %s", req.Email))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := time.Now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.store.UpdateUser(user); err != nil {
		s.log.Warn("AUTH", fmt.Sprintf("Failed to record last login for %s: %v", user.ID, err))
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.LogSecurity("LOGIN", fmt.Sprintf("User %s logged in", user.ID))
	return &models.AuthResponse{User: user, Tokens: tokens}, nil
}

// Refresh rotates the token pair: the presented refresh token is revoked and
// a new one stored, so each refresh token is single use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	claims, err := s.issuer.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	valid, err := s.tokens.IsValid(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !valid {
		s.log.LogSecurity("REFRESH_REVOKED", fmt.Sprintf("Revoked refresh token presented for %s", claims.UserID))
		return nil, ErrInvalidRefresh
	}

	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	user.UpdatedAt = time.Now()
	if err := s.store.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	if err := s.store.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	s.log.LogSecurity("PASSWORD_CHANGED", fmt.Sprintf("User %s changed password", userID))
	return nil
}

func (s *AuthService) Deactivate(ctx context.Context, userID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	user.UpdatedAt = time.Now()
	if err := s.store.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	s.log.LogSecurity("DEACTIVATE", fmt.Sprintf("User %s deactivated", userID))
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (models.TokenPair, error) {
	access, expiresAt, err := s.issuer.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, _, err := s.issuer.GenerateRefreshToken(user.ID, string(user.Role))
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	if err := s.tokens.Store(ctx, refresh, user.ID, s.issuer.RefreshTTL()); err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return models.TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}
