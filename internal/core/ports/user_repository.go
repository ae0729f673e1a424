package ports

import (
	"context"
	"time"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

type ListUsersFilter struct {
	Role string // optional
	Page PageRequest
}

// UserRepository defines persistence for user accounts. Username and email are
// unique; violations surface as domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users found, keyed by id. Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, role string) (int64, error)
}
