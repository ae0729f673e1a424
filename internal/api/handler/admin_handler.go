package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/ports"
)

type AdminHandler struct {
	dashboard ports.DashboardService
}

func NewAdminHandler(dashboard ports.DashboardService) *AdminHandler {
	return &AdminHandler{dashboard: dashboard}
}

// Dashboard godoc
// @Summary   Admin dashboard
// @Tags      admin
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  ports.DashboardStats
// @Router    /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.dashboard.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}
