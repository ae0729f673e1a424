package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestLogger(t *testing.T) {
	cases := []struct {
		name      string
		handler   echo.HandlerFunc
		wantCode  int
		wantLevel string
	}{
		{"success", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, http.StatusOK, "info"},
		{"client error", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "nope") }, http.StatusNotFound, "warn"},
		{"server error", func(c echo.Context) error { return errors.New("boom") }, http.StatusInternalServerError, "error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/doctors", nil), rec)

			if err := RequestLogger(zerolog.New(&buf))(tc.handler)(c); err != nil {
				t.Fatalf("expected error to be handled, got %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var line map[string]any
			if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
				t.Fatalf("invalid log line %q: %v", buf.String(), err)
			}
			if line["level"] != tc.wantLevel || line["path"] != "/api/doctors" || line["status"] != float64(tc.wantCode) {
				t.Errorf("unexpected log line %v", line)
			}
		})
	}
}
