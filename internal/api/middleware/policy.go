package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/domain"
)

// Capability names an action guarded at the routing layer.
type Capability string

const (
	CapProfile            Capability = "profile:self"
	CapAppointmentsWrite  Capability = "appointments:write"
	CapAppointmentsManage Capability = "appointments:manage"
	CapPaymentsWrite      Capability = "payments:write"
	CapPaymentsRefund     Capability = "payments:refund"
	CapPaymentsStats      Capability = "payments:stats"
	CapCatalogManage      Capability = "catalog:manage"
	CapUsersManage        Capability = "users:manage"
	CapAdminDashboard     Capability = "admin:dashboard"
)

// policy maps each capability to the roles holding it. Record ownership is
// enforced separately by the services.
var policy = map[Capability][]string{
	CapProfile:            {domain.RoleUser, domain.RoleAdmin},
	CapAppointmentsWrite:  {domain.RoleUser, domain.RoleAdmin},
	CapAppointmentsManage: {domain.RoleAdmin},
	CapPaymentsWrite:      {domain.RoleUser, domain.RoleAdmin},
	CapPaymentsRefund:     {domain.RoleAdmin},
	CapPaymentsStats:      {domain.RoleAdmin},
	CapCatalogManage:      {domain.RoleAdmin},
	CapUsersManage:        {domain.RoleAdmin},
	CapAdminDashboard:     {domain.RoleAdmin},
}

// Can reports whether role holds capability. Unknown capabilities are denied.
func Can(role string, capability Capability) bool {
	for _, r := range policy[capability] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize rejects requests whose principal lacks capability. It must run
// after Auth.
func Authorize(capability Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Principal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			if !Can(p.Role, capability) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
