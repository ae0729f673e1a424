package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/api/middleware"
	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// principal extracts the requester injected by the Auth middleware. Handlers
// behind Auth fail fast with 401 if it is missing.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return p, nil
}

// pageRequest reads ?page=&limit=. Bad values fall back to the defaults.
func pageRequest(c echo.Context) ports.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.PageRequest{Page: page, Limit: limit}.Normalize()
}

func floatQuery(c echo.Context, name string) float64 {
	v, err := strconv.ParseFloat(c.QueryParam(name), 64)
	if err != nil {
		return 0
	}
	return v
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("Invalid request payload")
	}
	return c.Validate(req)
}
