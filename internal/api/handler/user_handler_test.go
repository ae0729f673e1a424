package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

type stubUserService struct {
	getFn    func(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	listFn   func(ctx context.Context, f ports.ListUsersFilter) (*ports.Page[*domain.User], error)
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, p domain.Principal, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubUserService) Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	return s.getFn(ctx, p, id)
}

func (s *stubUserService) List(ctx context.Context, f ports.ListUsersFilter) (*ports.Page[*domain.User], error) {
	return s.listFn(ctx, f)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, p, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestUserHandler_Me(t *testing.T) {
	stub := &stubUserService{
		getFn: func(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
			if id != patient.UserID {
				t.Fatalf("expected own id, got %q", id)
			}
			return &domain.User{ID: id, Username: "alice", Role: domain.RoleUser, PasswordHash: "$2a$12$hash"}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/users/me", "")
	if err := h.Me(as(c, patient)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	d := data(t, rec)
	if d["username"] != "alice" {
		t.Fatalf("unexpected data %+v", d)
	}
	for k := range d {
		if k == "passwordHash" || k == "PasswordHash" {
			t.Fatal("password hash leaked")
		}
	}
}

func TestUserHandler_ListPatients_ForcesUserRole(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context, f ports.ListUsersFilter) (*ports.Page[*domain.User], error) {
			if f.Role != domain.RoleUser {
				t.Fatalf("expected USER role filter, got %q", f.Role)
			}
			return &ports.Page[*domain.User]{Pagination: ports.NewPagination(f.Page, 0)}, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodGet, "/api/admin/users?role=ADMIN", "")
	if err := h.ListPatients(as(c, admin)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestUserHandler_Create_Validation(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	c, _ := newContext(http.MethodPost, "/api/admin/users", `{"username":"carol","email":"c@example.com","password":"secret1","role":"ROOT"}`)
	wantValidation(t, h.Create(as(c, admin)))
}

func TestUserHandler_Update_Forbidden(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, p domain.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
			if in.Email == nil || in.Role != nil {
				t.Fatalf("unexpected update %+v", in)
			}
			return nil, domain.ErrForbidden
		},
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodPut, "/api/users/other", `{"email":"new@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("64b000000000000000000002")
	if err := h.Update(as(c, patient)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) error { return domain.ErrUserNotFound },
	}
	h := NewUserHandler(stub)

	c, _ := newContext(http.MethodDelete, "/api/users/x", "")
	c.SetParamNames("id")
	c.SetParamValues("x")
	if err := h.Delete(as(c, admin)); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ── Admin dashboard and support ─────────────────────────────────────────────

type stubDashboard struct {
	stats *ports.DashboardStats
	err   error
}

func (s *stubDashboard) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	return s.stats, s.err
}

type stubSupport struct {
	got ports.ContactInput
}

func (s *stubSupport) Contact(ctx context.Context, in ports.ContactInput) error {
	s.got = in
	return nil
}

func TestAdminHandler_Dashboard(t *testing.T) {
	h := NewAdminHandler(&stubDashboard{stats: &ports.DashboardStats{TotalUsers: 3, MonthlyRevenue: 1200}})

	c, rec := newContext(http.MethodGet, "/api/admin/dashboard", "")
	if err := h.Dashboard(as(c, admin)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	d := data(t, rec)
	if d["totalUsers"] != float64(3) || d["monthlyRevenue"] != float64(1200) {
		t.Fatalf("unexpected data %+v", d)
	}
}

func TestSupportHandler_Contact(t *testing.T) {
	svc := &stubSupport{}
	h := NewSupportHandler(svc)

	c, rec := newContext(http.MethodPost, "/api/support/contact", `{"name":"Alice","email":"a@example.com","subject":"Billing","message":"Charged twice"}`)
	if err := h.Contact(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || svc.got.Subject != "Billing" {
		t.Fatalf("code=%d got=%+v", rec.Code, svc.got)
	}

	c, _ = newContext(http.MethodPost, "/api/support/contact", `{"name":"Alice","email":"nope","subject":"","message":"x"}`)
	wantValidation(t, h.Contact(c))
}
