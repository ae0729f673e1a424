package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/api/middleware"
	"github.com/medicarepro/booking-system/internal/core/domain"
)

var (
	patient = domain.Principal{UserID: "64b000000000000000000001", Username: "alice", Role: domain.RoleUser}
	admin   = domain.Principal{UserID: "64b000000000000000000009", Username: "root", Role: domain.RoleAdmin}
)

// newContext builds an echo context with the API validator installed. A
// non-empty body is sent as JSON.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func as(c echo.Context, p domain.Principal) echo.Context {
	c.Set(middleware.KeyUserID, p.UserID)
	c.Set(middleware.KeyUsername, p.Username)
	c.Set(middleware.KeyRole, p.Role)
	return c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func data(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	resp := decode(t, rec)
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
	d, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %+v", resp["data"])
	}
	return d
}

func wantValidation(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	ve, ok := err.(*domain.ValidationError)
	if !ok {
		t.Fatalf("expected validation error, got %T %v", err, err)
	}
	return ve
}
