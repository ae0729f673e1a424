package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/api/metrics"
	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

const (
	headerSignature = "X-Razorpay-Signature"
	headerEventID   = "X-Razorpay-Event-Id"
)

// EventQueue accepts parsed gateway events for asynchronous processing.
type EventQueue interface {
	Enqueue(ev domain.GatewayEvent)
}

// WebhookHandler authenticates gateway notifications and hands them to the
// dispatcher. It answers as soon as the event is queued.
type WebhookHandler struct {
	service ports.WebhookService
	queue   EventQueue
	log     zerolog.Logger
}

func NewWebhookHandler(service ports.WebhookService, queue EventQueue, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, queue: queue, log: log}
}

// Receive godoc
// @Summary  Gateway webhook
// @Tags     payments
// @Accept   json
// @Produce  json
// @Param    X-Razorpay-Signature  header  string  false  "HMAC-SHA256 of the body"
// @Success  200  {object}  map[string]bool
// @Failure  400  {object}  errorResponse
// @Router   /payments/razorpay/webhook [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		metrics.WebhooksReceivedTotal.WithLabelValues("invalid_payload").Inc()
		return domain.Invalid("Invalid webhook payload")
	}

	ev, err := h.service.Parse(body, c.Request().Header.Get(headerSignature), c.Request().Header.Get(headerEventID))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			metrics.WebhooksReceivedTotal.WithLabelValues("invalid_signature").Inc()
			h.log.Warn().Str("remote_ip", c.RealIP()).Msg("webhook rejected: bad signature")
		} else {
			metrics.WebhooksReceivedTotal.WithLabelValues("invalid_payload").Inc()
		}
		return err
	}

	h.queue.Enqueue(*ev)
	metrics.WebhooksReceivedTotal.WithLabelValues("accepted").Inc()
	h.log.Debug().Str("event_id", ev.ID).Str("event", ev.Type).Str("order_id", ev.OrderID).Msg("webhook queued")
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
