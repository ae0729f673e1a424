package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func accessClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"userId":   "user-1",
		"username": "alice",
		"email":    "alice@example.com",
		"role":     domain.RoleUser,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

// runAuth executes the Auth middleware with the given Authorization header and
// returns the recorded status and whether next was called.
func runAuth(t *testing.T, header string) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, accessClaims(), "secret"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		p, ok := Principal(c)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.UserID != "user-1" || p.Username != "alice" || p.Email != "alice@example.com" || p.Role != domain.RoleUser {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := accessClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	refresh := jwt.MapClaims{"userId": "user-1", "role": domain.RoleUser, "type": "refresh", "exp": time.Now().Add(time.Hour).Unix()}

	noUser := accessClaims()
	delete(noUser, "userId")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + signToken(t, accessClaims(), "other")},
		{"expired", "Bearer " + signToken(t, expired, "secret")},
		{"refresh token", "Bearer " + signToken(t, refresh, "secret")},
		{"missing user id", "Bearer " + signToken(t, noUser, "secret")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, called := runAuth(t, tc.header)
			if called {
				t.Fatalf("next must not be called")
			}
			if code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", code)
			}
		})
	}
}

func TestPrincipal_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, ok := Principal(c); ok {
		t.Fatal("expected no principal")
	}
}
