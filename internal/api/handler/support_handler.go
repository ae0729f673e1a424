package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/core/ports"
)

type contactRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
}

type SupportHandler struct {
	service ports.SupportService
}

func NewSupportHandler(service ports.SupportService) *SupportHandler {
	return &SupportHandler{service: service}
}

// Contact godoc
// @Summary  Send a support message
// @Tags     support
// @Accept   json
// @Produce  json
// @Param    body  body      contactRequest  true  "Message"
// @Success  200   {object}  envelope
// @Failure  400   {object}  errorResponse
// @Router   /support/contact [post]
func (h *SupportHandler) Contact(c echo.Context) error {
	var req contactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	err := h.service.Contact(c.Request().Context(), ports.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Your message has been received. We'll get back to you soon.", nil)
}
