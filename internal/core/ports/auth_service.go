package ports

import (
	"context"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by every successful authentication.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime, seconds
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	// Login accepts either the username or the email as identifier.
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}
