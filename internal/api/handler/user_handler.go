package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// UserHandler serves /users and the account part of /admin.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=USER ADMIN"`
}

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=30"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Role     *string `json:"role"     validate:"omitempty,oneof=USER ADMIN"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// Me returns the authenticated user.
//
// @Summary   Current user
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  domain.User
// @Failure   401  {object}  errorResponse
// @Router    /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), p, p.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// List returns all accounts, optionally filtered by ?role=.
//
// @Summary   List users
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     role   query  string  false  "USER or ADMIN"
// @Param     page   query  int     false  "Page (default 1)"
// @Param     limit  query  int     false  "Page size (default 10, max 100)"
// @Success   200  {array}   domain.User
// @Failure   403  {object}  errorResponse
// @Router    /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.ListUsersFilter{
		Role: c.QueryParam("role"),
		Page: pageRequest(c),
	})
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, page)
}

// ListPatients is the admin listing, restricted to USER accounts.
//
// @Summary   List patient accounts
// @Tags      admin
// @Produce   json
// @Security  BearerAuth
// @Param     page   query  int  false  "Page (default 1)"
// @Param     limit  query  int  false  "Page size (default 10, max 100)"
// @Success   200  {array}   domain.User
// @Router    /admin/users [get]
func (h *UserHandler) ListPatients(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.ListUsersFilter{
		Role: domain.RoleUser,
		Page: pageRequest(c),
	})
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, page)
}

// Get returns one account. Users may only read their own.
//
// @Summary   Get user
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "User id"
// @Success   200  {object}  domain.User
// @Failure   403  {object}  errorResponse
// @Failure   404  {object}  errorResponse
// @Router    /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

// Create adds an account of any role.
//
// @Summary   Create user
// @Tags      admin
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createUserRequest  true  "Account"
// @Success   201   {object}  domain.User
// @Failure   400   {object}  errorResponse
// @Router    /admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, "User created successfully", user)
}

// Update changes an account. Only administrators may change roles.
//
// @Summary   Update user
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string             true  "User id"
// @Param     body  body      updateUserRequest  true  "Fields to change"
// @Success   200   {object}  domain.User
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Router    /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.service.Update(c.Request().Context(), p, c.Param("id"), ports.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "User updated successfully", user)
}

// Delete removes an account.
//
// @Summary   Delete user
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "User id"
// @Success   200  {object}  envelope
// @Failure   404  {object}  errorResponse
// @Router    /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "User deleted successfully", nil)
}
