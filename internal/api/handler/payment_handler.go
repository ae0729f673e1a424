package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicarepro/booking-system/internal/api/metrics"
	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

type createPaymentRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required,mongodb"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=credit_card debit_card net_banking upi wallet razorpay"`
}

type createOrderRequest struct {
	AppointmentID string `json:"appointmentId" validate:"omitempty,mongodb"`
	IsTest        bool   `json:"isTest"`
}

type verifyPaymentRequest struct {
	PaymentID         string `json:"paymentId"           validate:"omitempty,mongodb"`
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpaySignature string `json:"razorpaySignature"`
	IsTest            bool   `json:"isTest"`
}

type refundRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// PaymentHandler serves /payments, including the gateway checkout flow.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// List godoc
// @Summary   List payments
// @Tags      payments
// @Produce   json
// @Security  BearerAuth
// @Param     status         query  string  false  "Status filter"
// @Param     appointmentId  query  string  false  "Appointment filter"
// @Param     page           query  int     false  "Page (default 1)"
// @Param     limit          query  int     false  "Page size (default 10, max 100)"
// @Success   200  {array}  ports.PaymentDetail
// @Router    /payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), p, ports.ListPaymentsFilter{
		Status:        c.QueryParam("status"),
		AppointmentID: c.QueryParam("appointmentId"),
		Page:          pageRequest(c),
	})
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, page)
}

// Stats godoc
// @Summary   Payment statistics
// @Tags      payments
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  ports.PaymentStats
// @Router    /payments/stats [get]
func (h *PaymentHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// Get godoc
// @Summary   Get payment
// @Tags      payments
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Payment id"
// @Success   200  {object}  ports.PaymentDetail
// @Failure   404  {object}  errorResponse
// @Router    /payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, detail)
}

// Create records a direct payment and completes it.
//
// @Summary   Pay for an appointment
// @Tags      payments
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createPaymentRequest  true  "Payment"
// @Success   201   {object}  domain.Payment
// @Failure   400   {object}  errorResponse
// @Router    /payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	payment, err := h.service.Create(c.Request().Context(), p, ports.CreatePaymentInput{
		AppointmentID: req.AppointmentID,
		Method:        req.PaymentMethod,
	})
	if err != nil {
		return err
	}
	metrics.PaymentsTotal.WithLabelValues("completed").Inc()
	return respondMessage(c, http.StatusCreated, "Payment processed successfully", payment)
}

// GatewayConfig exposes the public checkout key. No authentication.
//
// @Summary  Gateway checkout configuration
// @Tags     payments
// @Produce  json
// @Success  200  {object}  ports.GatewayConfig
// @Router   /payments/razorpay/config [get]
func (h *PaymentHandler) GatewayConfig(c echo.Context) error {
	return respond(c, http.StatusOK, h.service.GatewayConfig())
}

// CreateOrder godoc
// @Summary   Create gateway order
// @Tags      payments
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createOrderRequest  true  "Order"
// @Success   200   {object}  ports.OrderResult
// @Failure   400   {object}  errorResponse
// @Router    /payments/razorpay/order [post]
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.service.CreateOrder(c.Request().Context(), p, ports.CreateOrderInput{
		AppointmentID: req.AppointmentID,
		IsTest:        req.IsTest,
	})
	if err != nil {
		return err
	}
	metrics.PaymentsTotal.WithLabelValues("order_created").Inc()
	return respondMessage(c, http.StatusOK, "Order created successfully", order)
}

// Verify godoc
// @Summary   Verify gateway checkout
// @Tags      payments
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      verifyPaymentRequest  true  "Checkout result"
// @Success   200   {object}  ports.VerifyResult
// @Failure   400   {object}  errorResponse
// @Router    /payments/razorpay/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req verifyPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.service.Verify(c.Request().Context(), p, ports.VerifyPaymentInput{
		PaymentID:        req.PaymentID,
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPaymentID,
		Signature:        req.RazorpaySignature,
		IsTest:           req.IsTest,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			metrics.PaymentsTotal.WithLabelValues("failed").Inc()
		}
		return err
	}
	metrics.PaymentsTotal.WithLabelValues("completed").Inc()
	return respondMessage(c, http.StatusOK, "Payment verified successfully", result)
}

// Refund godoc
// @Summary   Refund payment
// @Tags      payments
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string         true   "Payment id"
// @Param     body  body      refundRequest  false  "Reason"
// @Success   200   {object}  domain.Payment
// @Failure   400   {object}  errorResponse
// @Router    /payments/{id}/refund [patch]
func (h *PaymentHandler) Refund(c echo.Context) error {
	var req refundRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	payment, err := h.service.Refund(c.Request().Context(), c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	metrics.PaymentsTotal.WithLabelValues("refunded").Inc()
	return respondMessage(c, http.StatusOK, "Payment refunded successfully", payment)
}
