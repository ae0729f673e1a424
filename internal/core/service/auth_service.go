package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

const (
	passwordCost      = 12
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
	refreshTokenType  = "refresh"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

// TokenConfig controls issued JWTs. RefreshSecret falls back to AccessSecret.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// AuthService implements registration, login and token refresh.
type AuthService struct {
	repo   ports.UserRepository
	tokens TokenConfig
	now    func() time.Time
}

func NewAuthService(repo ports.UserRepository, tokens TokenConfig) *AuthService {
	if tokens.AccessTTL <= 0 {
		tokens.AccessTTL = defaultAccessTTL
	}
	if tokens.RefreshTTL <= 0 {
		tokens.RefreshTTL = defaultRefreshTTL
	}
	if tokens.RefreshSecret == "" {
		tokens.RefreshSecret = tokens.AccessSecret
	}
	return &AuthService{repo: repo, tokens: tokens, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, domain.Invalid("Please provide a valid email")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	if err := ensureAvailable(ctx, s.repo, username, email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	return s.issue(created)
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, identifier)
	if errors.Is(err, domain.ErrUserNotFound) && strings.Contains(identifier, "@") {
		user, err = s.repo.FindByEmail(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	user.LastLogin = &now

	return s.issue(user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.Invalid("Refresh token is required")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(refreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.tokens.RefreshSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != refreshTokenType {
		return nil, domain.ErrInvalidToken
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	now := s.now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokens.AccessTTL).Unix(),
	})
	accessToken, err := access.SignedString([]byte(s.tokens.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID,
		"type":   refreshTokenType,
		"iat":    now.Unix(),
		"exp":    now.Add(s.tokens.RefreshTTL).Unix(),
	})
	refreshToken, err := refresh.SignedString([]byte(s.tokens.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &ports.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTTL.Seconds()),
	}, nil
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return domain.Invalid("Username must be 3-30 characters and contain only letters, numbers, and underscores")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return domain.Invalid("Password must be at least 6 characters long")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return domain.Invalid("Password must contain at least one lowercase letter, one uppercase letter, and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ensureAvailable rejects a username or email already held by an account.
func ensureAvailable(ctx context.Context, repo ports.UserRepository, username, email string) error {
	if _, err := repo.FindByUsername(ctx, username); err == nil {
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return nil
}
