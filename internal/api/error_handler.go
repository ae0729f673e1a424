package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Cause is
// only filled in development.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Cause   string `json:"error,omitempty"`
}

// statusBySentinel maps known domain errors to HTTP status codes. The error
// text is returned to the client as-is.
var statusBySentinel = []struct {
	err  error
	code int
}{
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrDoctorNotFound, http.StatusNotFound},
	{domain.ErrTestNotFound, http.StatusNotFound},
	{domain.ErrAppointmentNotFound, http.StatusNotFound},
	{domain.ErrPaymentNotFound, http.StatusNotFound},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},

	{domain.ErrUserExists, http.StatusBadRequest},
	{domain.ErrUsernameTaken, http.StatusBadRequest},
	{domain.ErrEmailTaken, http.StatusBadRequest},
	{domain.ErrDoctorExists, http.StatusBadRequest},
	{domain.ErrSlotTaken, http.StatusBadRequest},
	{domain.ErrCancelCompleted, http.StatusBadRequest},
	{domain.ErrPaymentAlreadyCompleted, http.StatusBadRequest},
	{domain.ErrPaymentInProgress, http.StatusBadRequest},
	{domain.ErrRefundNotAllowed, http.StatusBadRequest},
	{domain.ErrInvalidSignature, http.StatusBadRequest},
	{domain.ErrAppointmentPaid, http.StatusBadRequest},

	{domain.ErrPaymentConflict, http.StatusConflict},

	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		resp := errorResponse{Success: false, Message: msg}
		if development && code == http.StatusInternalServerError {
			resp.Cause = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (router 404/405, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			log.Error().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error()
		}
	}

	// Token problems that escaped the auth middleware.
	if errors.Is(err, jwt.ErrTokenMalformed) || errors.Is(err, jwt.ErrTokenExpired) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenNotValidYet) {
		return http.StatusUnauthorized, domain.ErrInvalidToken.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal Server Error"
}
