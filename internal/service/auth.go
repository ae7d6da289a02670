package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"techzeon/internal/auth"
	apperrors "techzeon/internal/errors"
	"techzeon/internal/logger"
	"techzeon/internal/models"
)

type AuthService struct {
	users  UserStore
	tokens *auth.TokenManager
	cache  Cache
}

func NewAuthService(users UserStore, tokens *auth.TokenManager, cache Cache) *AuthService {
	return &AuthService{users: users, tokens: tokens, cache: cache}
}

// Login checks the credentials against the stored bcrypt hash and issues a
// token. Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	ok, err := auth.IsHashOf(user.PasswordHash, req.Password)
	if err != nil {
		logger.WithContext(ctx).Warn("Stored password hash is unusable", "user_id", user.ID, "error", err)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	logger.WithContext(ctx).Info("User logged in", "user_id", user.ID, "role", user.Role)
	return s.issue(user, "Login successful")
}

// Register creates a regular user account and logs it in.
func (s *AuthService) Register(ctx context.Context, req *models.SignUpRequest) (*models.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.WithContext(ctx).Info("User registered", "user_id", user.ID)
	return s.issue(user, "Account created successfully")
}

func (s *AuthService) issue(user *models.User, message string) (*models.AuthResponse, error) {
	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      models.NewUserResponse(user),
		Message:   message,
	}, nil
}

// Authenticate resolves a bearer token to its user. Any problem with the
// token, including revocation, is ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, *auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, apperrors.ErrUnauthorized
	}

	if s.cache != nil {
		revoked, err := s.cache.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			logger.WithContext(ctx).Warn("Token revocation lookup failed", "error", err)
		}
		if revoked {
			return nil, nil, apperrors.ErrUnauthorized
		}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, apperrors.ErrUnauthorized
	}

	return user, claims, nil
}

// Logout revokes the token until its natural expiry. Without a cache there
// is nowhere to record the revocation, so logout fails instead.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.cache == nil {
		logger.WithContext(ctx).Warn("Logout without revocation store", "user_id", claims.UserID)
		return apperrors.ErrRevocationUnavailable
	}

	if err := s.cache.RevokeToken(ctx, claims.ID, s.tokens.Remaining(claims)); err != nil {
		return fmt.Errorf("failed to revoke token: %w: %w", apperrors.ErrRevocationUnavailable, err)
	}
	return nil
}

// EnsureAdmin creates the configured administrator or brings its password,
// name and role in line with the configuration.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (*models.User, error) {
	email = normalizeEmail(email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if existing != nil && existing.IsAdmin() && existing.Name == name {
		if ok, _ := auth.IsHashOf(existing.PasswordHash, password); ok {
			return existing, nil
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &models.User{Email: email, PasswordHash: hash, Name: name}
	if err := s.users.UpsertAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	logger.Get().Info("Administrator account seeded", "user_id", admin.ID, "email", email)
	return admin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
