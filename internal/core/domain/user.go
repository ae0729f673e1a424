package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User models an account holder. Patients carry RoleUser.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Principal is the authenticated requester of an operation.
type Principal struct {
	UserID   string
	Username string
	Email    string
	Role     string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess allows the record owner and administrators.
func (p Principal) CanAccess(ownerID string) error {
	if p.IsAdmin() || (p.UserID != "" && p.UserID == ownerID) {
		return nil
	}
	return ErrForbidden
}
