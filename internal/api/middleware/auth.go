package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

// Context keys set by Auth.
const (
	KeyUserID   = "userId"
	KeyUsername = "username"
	KeyEmail    = "email"
	KeyRole     = "role"
)

// Auth validates the bearer access token and injects its claims into the
// context. Refresh tokens are rejected.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token is required")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			}
			if typ, _ := claims["type"].(string); typ == "refresh" {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			}

			userID, _ := claims["userId"].(string)
			role, _ := claims["role"].(string)
			if userID == "" || role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			}

			c.Set(KeyUserID, userID)
			c.Set(KeyUsername, claims["username"])
			c.Set(KeyEmail, claims["email"])
			c.Set(KeyRole, role)

			return next(c)
		}
	}
}

// Principal returns the authenticated requester. ok is false when Auth did
// not run for the request.
func Principal(c echo.Context) (p domain.Principal, ok bool) {
	p.UserID, _ = c.Get(KeyUserID).(string)
	p.Username, _ = c.Get(KeyUsername).(string)
	p.Email, _ = c.Get(KeyEmail).(string)
	p.Role, _ = c.Get(KeyRole).(string)
	return p, p.UserID != "" && p.Role != ""
}
