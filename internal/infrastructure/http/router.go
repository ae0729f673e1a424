package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/medicarepro/booking-system/internal/infrastructure/http/handlers"
)

// EdgeConfig holds the settings of the edge middleware.
type EdgeConfig struct {
	Env             string
	CORSOrigin      string
	BodyLimit       string
	RateLimitWindow time.Duration
	RateLimitMax    int
}

// NewEcho builds the Echo instance with the edge middleware and health probes
// registered. API routes are added on top by the api package.
func NewEcho(cfg EdgeConfig, checks map[string]handlers.Check) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
		AllowCredentials: true,
	}))
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
	e.Use(middleware.Gzip())
	if cfg.RateLimitMax > 0 && cfg.RateLimitWindow > 0 {
		e.Use(RateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow))
	}

	// --- Health probes (no auth required) ---
	health := handlers.NewHealthHandler(cfg.Env, checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	return e
}

// RateLimiter allows limit requests per client IP every window, with a burst
// of limit. Health probes are not counted.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(limit) / window.Seconds()),
		Burst:     limit,
		ExpiresIn: window,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/health" || p == "/health/ready"
		},
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
		},
	})
}
