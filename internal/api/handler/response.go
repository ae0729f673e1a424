package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/ports"
)

// envelope is the success body of every API response.
type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Pagination *ports.Pagination `json:"pagination,omitempty"`
}

// errorResponse documents the failure body written by the API error handler.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// respondPage renders a list with its pagination block.
func respondPage[T any](c echo.Context, status int, page *ports.Page[T]) error {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	p := page.Pagination
	return c.JSON(status, envelope{Success: true, Data: items, Pagination: &p})
}
