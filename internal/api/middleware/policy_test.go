package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

func TestCan(t *testing.T) {
	cases := []struct {
		role string
		cap  Capability
		want bool
	}{
		{domain.RoleUser, CapAppointmentsWrite, true},
		{domain.RoleUser, CapPaymentsWrite, true},
		{domain.RoleUser, CapPaymentsRefund, false},
		{domain.RoleUser, CapCatalogManage, false},
		{domain.RoleUser, CapAdminDashboard, false},
		{domain.RoleAdmin, CapPaymentsRefund, true},
		{domain.RoleAdmin, CapAppointmentsManage, true},
		{domain.RoleAdmin, Capability("unknown"), false},
		{"GUEST", CapProfile, false},
	}
	for _, tc := range cases {
		if got := Can(tc.role, tc.cap); got != tc.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tc.role, tc.cap, got, tc.want)
		}
	}
}

func runAuthorize(t *testing.T, role string, capability Capability) (int, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if role != "" {
		c.Set(KeyUserID, "user-1")
		c.Set(KeyRole, role)
	}

	called := false
	handler := Authorize(capability)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, called
}

func TestAuthorize_Allows(t *testing.T) {
	code, called := runAuthorize(t, domain.RoleAdmin, CapCatalogManage)
	if !called || code != http.StatusOK {
		t.Fatalf("expected next called with 200, got called=%v code=%d", called, code)
	}
}

func TestAuthorize_Forbids(t *testing.T) {
	code, called := runAuthorize(t, domain.RoleUser, CapCatalogManage)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestAuthorize_RequiresAuthentication(t *testing.T) {
	code, called := runAuthorize(t, "", CapProfile)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
