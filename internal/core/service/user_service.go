package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	if err := p.CanAccess(id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) (*ports.Page[*domain.User], error) {
	filter.Page = filter.Page.Normalize()
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &ports.Page[*domain.User]{Items: users, Pagination: ports.NewPagination(filter.Page, total)}, nil
}

// Create is the administrator path for adding accounts of any role.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.IsValidRole(role) {
		return nil, domain.Invalid("Role must be USER or ADMIN")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, domain.Invalid("Please provide a valid email")
	}
	if len(in.Password) < 6 {
		return nil, domain.Invalid("Password must be at least 6 characters long")
	}
	if err := ensureAvailable(ctx, s.repo, username, email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", role).Msg("user created")
	return user, nil
}

// Update applies a partial update. Only administrators may change roles.
func (s *UserService) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
	if err := p.CanAccess(id); err != nil {
		return nil, err
	}
	if in.Role != nil && !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username != user.Username {
			if err := validateUsername(username); err != nil {
				return nil, err
			}
			if err := s.ensureUnclaimed(ctx, s.repo.FindByUsername, username, id, domain.ErrUsernameTaken); err != nil {
				return nil, err
			}
			user.Username = username
		}
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if email == "" {
				return nil, domain.Invalid("Please provide a valid email")
			}
			if err := s.ensureUnclaimed(ctx, s.repo.FindByEmail, email, id, domain.ErrEmailTaken); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.Role != nil {
		if !domain.IsValidRole(*in.Role) {
			return nil, domain.Invalid("Role must be USER or ADMIN")
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) ensureUnclaimed(
	ctx context.Context,
	find func(context.Context, string) (*domain.User, error),
	value, selfID string,
	taken error,
) error {
	other, err := find(ctx, value)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != selfID:
		return taken
	}
	return nil
}
