package ports

import (
	"context"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

// Page is one page of a list result.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Role     *string
	Password *string
}

type UserService interface {
	Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) (*Page[*domain.User], error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, p domain.Principal, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
