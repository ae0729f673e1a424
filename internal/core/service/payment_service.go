package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicarepro/booking-system/internal/core/domain"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

const demoOrderAmount int64 = 10000

// PaymentConfig holds the gateway-facing settings of the payment service.
type PaymentConfig struct {
	Currency    string
	DemoMode    bool
	Environment string
}

type PaymentService struct {
	ledger       *paymentLedger
	payments     ports.PaymentRepository
	appointments ports.AppointmentRepository
	gateway      ports.PaymentGateway
	cfg          PaymentConfig
	log          zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	appointments ports.AppointmentRepository,
	gateway ports.PaymentGateway,
	events ports.EventPublisher,
	cfg PaymentConfig,
	log zerolog.Logger,
) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &PaymentService{
		ledger: &paymentLedger{
			payments:     payments,
			appointments: appointments,
			events:       events,
			log:          log,
			now:          time.Now,
		},
		payments:     payments,
		appointments: appointments,
		gateway:      gateway,
		cfg:          cfg,
		log:          log,
	}
}

func (s *PaymentService) List(ctx context.Context, p domain.Principal, filter ports.ListPaymentsFilter) (*ports.Page[*ports.PaymentDetail], error) {
	if !p.IsAdmin() {
		filter.UserID = p.UserID
	}
	filter.Page = filter.Page.Normalize()

	items, total, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.AppointmentID)
	}
	appointments := map[string]*domain.Appointment{}
	if len(ids) > 0 {
		if appointments, err = s.appointments.FindByIDs(ctx, ids); err != nil {
			return nil, fmt.Errorf("expand appointments: %w", err)
		}
	}

	details := make([]*ports.PaymentDetail, 0, len(items))
	for _, item := range items {
		details = append(details, &ports.PaymentDetail{Payment: item, Appointment: appointments[item.AppointmentID]})
	}
	return &ports.Page[*ports.PaymentDetail]{Items: details, Pagination: ports.NewPagination(filter.Page, total)}, nil
}

func (s *PaymentService) Get(ctx context.Context, p domain.Principal, id string) (*ports.PaymentDetail, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.CanAccess(payment.UserID); err != nil {
		return nil, err
	}

	detail := &ports.PaymentDetail{Payment: payment}
	a, err := s.appointments.FindByID(ctx, payment.AppointmentID)
	switch {
	case err == nil:
		detail.Appointment = a
	case !errors.Is(err, domain.ErrAppointmentNotFound):
		return nil, err
	}
	return detail, nil
}

// Create records a payment for the requester's appointment and completes it
// immediately. The amount always comes from the appointment.
func (s *PaymentService) Create(ctx context.Context, p domain.Principal, in ports.CreatePaymentInput) (*domain.Payment, error) {
	method := domain.PaymentMethod(in.Method)
	if !validMethod(method) {
		return nil, domain.Invalid("Invalid payment method")
	}

	a, err := s.payable(ctx, p, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	payment, err := s.ledger.openPayment(ctx, a, method, s.cfg.Currency)
	if err != nil {
		return nil, err
	}
	payment.GatewayResponse = map[string]any{
		"status":        "success",
		"message":       "Payment processed successfully",
		"transactionId": payment.TransactionID,
		"processedAt":   s.ledger.now().UTC(),
	}
	return s.ledger.complete(ctx, payment, a)
}

// CreateOrder opens a gateway order for the appointment. When the gateway is
// unreachable a synthetic order is returned so checkout can still proceed.
func (s *PaymentService) CreateOrder(ctx context.Context, p domain.Principal, in ports.CreateOrderInput) (*ports.OrderResult, error) {
	if in.IsTest || s.cfg.DemoMode {
		return s.demoOrder(ctx), nil
	}
	if in.AppointmentID == "" {
		return nil, domain.Invalid("Appointment ID is required")
	}

	a, err := s.payable(ctx, p, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	payment, err := s.ledger.openPayment(ctx, a, domain.MethodRazorpay, s.cfg.Currency)
	if err != nil {
		return nil, err
	}

	amount := domain.ToMinorUnits(payment.Amount)
	order, err := s.gateway.CreateOrder(ctx, ports.GatewayOrderRequest{
		Amount:   amount,
		Currency: payment.Currency,
		Receipt:  payment.TransactionID,
		Notes: map[string]string{
			"appointmentId": a.ID,
			"paymentId":     payment.ID,
		},
	})
	mock := false
	if err != nil {
		s.log.Warn().Err(err).Str("payment_id", payment.ID).Msg("gateway order failed, falling back to synthetic order")
		order = &ports.GatewayOrder{
			ID:       "order_" + payment.ID,
			Amount:   amount,
			Currency: payment.Currency,
			Receipt:  payment.TransactionID,
			Status:   "created",
			Raw:      map[string]any{"mock": true},
		}
		mock = true
	}

	payment.GatewayOrderID = order.ID
	payment.GatewayResponse = order.Raw
	payment.UpdatedAt = s.ledger.now().UTC()
	if err := s.payments.Update(ctx, payment, domain.PaymentPending); err != nil {
		return nil, fmt.Errorf("attach gateway order: %w", err)
	}

	return &ports.OrderResult{
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		Receipt:   order.Receipt,
		KeyID:     s.gateway.KeyID(),
		PaymentID: payment.ID,
		Mock:      mock,
	}, nil
}

// Verify checks the checkout signature returned by the gateway. A bad
// signature fails the payment; a good one completes it.
func (s *PaymentService) Verify(ctx context.Context, p domain.Principal, in ports.VerifyPaymentInput) (*ports.VerifyResult, error) {
	if in.IsTest || s.cfg.DemoMode {
		return &ports.VerifyResult{
			Verified:  true,
			OrderID:   fallback(in.GatewayOrderID, "order_test"),
			PaymentID: fallback(in.GatewayPaymentID, "pay_test"),
			Mock:      true,
		}, nil
	}
	if in.PaymentID == "" || in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.Signature == "" {
		return nil, domain.Invalid("Payment ID, order ID, gateway payment ID and signature are required")
	}

	payment, err := s.payments.FindByID(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if err := p.CanAccess(payment.UserID); err != nil {
		return nil, err
	}
	if payment.GatewayOrderID != in.GatewayOrderID {
		return nil, domain.Invalid("Order does not belong to this payment")
	}
	if payment.Status == domain.PaymentCompleted {
		return &ports.VerifyResult{Verified: true, OrderID: in.GatewayOrderID, PaymentID: payment.GatewayPaymentID, Payment: payment}, nil
	}

	if !s.gateway.VerifyPaymentSignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature) {
		response := map[string]any{
			"razorpay_order_id":   in.GatewayOrderID,
			"razorpay_payment_id": in.GatewayPaymentID,
			"error":               "signature mismatch",
		}
		if err := s.ledger.fail(ctx, payment, response); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidSignature
	}

	a, err := s.appointments.FindByID(ctx, payment.AppointmentID)
	if err != nil && !errors.Is(err, domain.ErrAppointmentNotFound) {
		return nil, err
	}

	payment.GatewayPaymentID = in.GatewayPaymentID
	payment.GatewayResponse = map[string]any{
		"razorpay_order_id":   in.GatewayOrderID,
		"razorpay_payment_id": in.GatewayPaymentID,
		"razorpay_signature":  in.Signature,
		"verifiedAt":          s.ledger.now().UTC(),
	}
	completed, err := s.ledger.complete(ctx, payment, a)
	if err != nil {
		return nil, err
	}
	return &ports.VerifyResult{Verified: true, OrderID: in.GatewayOrderID, PaymentID: in.GatewayPaymentID, Payment: completed}, nil
}

// Refund fully refunds a completed payment and marks its appointment
// refunded. The appointment's booking status is left as is. The payment is
// claimed with a conditional write before the gateway is called, so two
// concurrent refunds cannot both reach the gateway.
func (s *PaymentService) Refund(ctx context.Context, id, reason string) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentCompleted {
		return nil, domain.ErrRefundNotAllowed
	}
	if len(reason) > 500 {
		return nil, domain.Invalid("Refund reason cannot exceed 500 characters")
	}

	settled := *payment
	if err := payment.TransitionTo(domain.PaymentRefunded); err != nil {
		return nil, err
	}
	payment.RefundAmount = payment.Amount
	payment.RefundReason = strings.TrimSpace(reason)
	payment.UpdatedAt = s.ledger.now().UTC()
	if err := s.payments.Update(ctx, payment, domain.PaymentCompleted); err != nil {
		if errors.Is(err, domain.ErrPaymentConflict) {
			return nil, domain.ErrRefundNotAllowed
		}
		return nil, fmt.Errorf("refund payment: %w", err)
	}

	if payment.GatewayPaymentID != "" {
		resp, err := s.gateway.Refund(ctx, payment.GatewayPaymentID, domain.ToMinorUnits(payment.Amount))
		if err != nil {
			if rerr := s.payments.Update(ctx, &settled, domain.PaymentRefunded); rerr != nil {
				s.log.Error().Err(rerr).Str("payment_id", payment.ID).Msg("could not restore payment after failed gateway refund")
			}
			return nil, fmt.Errorf("gateway refund: %w", err)
		}
		response := make(map[string]any, len(payment.GatewayResponse)+1)
		for k, v := range payment.GatewayResponse {
			response[k] = v
		}
		response["refund"] = resp
		payment.GatewayResponse = response
		if err := s.payments.Update(ctx, payment, domain.PaymentRefunded); err != nil {
			s.log.Warn().Err(err).Str("payment_id", payment.ID).Msg("gateway refund response not stored")
		}
	}

	a, err := s.appointments.FindByID(ctx, payment.AppointmentID)
	switch {
	case err == nil:
		if res := a.Apply(domain.StateChange{PaymentStatus: domain.PaymentStateRefunded}); res.Applied {
			a.UpdatedAt = payment.UpdatedAt
			if err := s.appointments.SaveState(ctx, a); err != nil {
				return nil, fmt.Errorf("mark appointment refunded: %w", err)
			}
		} else {
			s.log.Warn().Err(res.Err()).Str("appointment_id", a.ID).Msg("refund not mirrored on appointment")
		}
	case errors.Is(err, domain.ErrAppointmentNotFound):
		s.log.Warn().Str("payment_id", payment.ID).Msg("refunded payment has no appointment")
	default:
		return nil, err
	}

	s.log.Info().Str("payment_id", payment.ID).Float64("amount", payment.RefundAmount).Msg("payment refunded")
	publish(ctx, s.ledger.events, s.log, domain.EventPaymentRefunded, payment.AppointmentID, payment)
	return payment, nil
}

func (s *PaymentService) Stats(ctx context.Context) (*ports.PaymentStats, error) {
	stats, err := s.payments.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("payment stats: %w", err)
	}
	return stats, nil
}

func (s *PaymentService) GatewayConfig() ports.GatewayConfig {
	return ports.GatewayConfig{
		KeyID:       s.gateway.KeyID(),
		DemoMode:    s.cfg.DemoMode,
		Environment: s.cfg.Environment,
	}
}

// payable loads the requester's appointment and checks it can take a payment.
func (s *PaymentService) payable(ctx context.Context, p domain.Principal, appointmentID string) (*domain.Appointment, error) {
	a, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := p.CanAccess(a.UserID); err != nil {
		return nil, err
	}
	if a.PaymentStatus == domain.PaymentStatePaid {
		return nil, domain.ErrPaymentAlreadyCompleted
	}
	probe := *a
	if err := probe.Apply(domain.StateChange{PaymentStatus: domain.PaymentStatePaid}).Err(); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PaymentService) demoOrder(ctx context.Context) *ports.OrderResult {
	receipt := fmt.Sprintf("test_receipt_%d", s.ledger.now().UnixMilli())
	result := &ports.OrderResult{
		Amount:   demoOrderAmount,
		Currency: s.cfg.Currency,
		Receipt:  receipt,
		KeyID:    s.gateway.KeyID(),
	}

	order, err := s.gateway.CreateOrder(ctx, ports.GatewayOrderRequest{
		Amount:   demoOrderAmount,
		Currency: s.cfg.Currency,
		Receipt:  receipt,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("demo gateway order failed, using synthetic order")
		result.OrderID = fmt.Sprintf("order_test_%d", s.ledger.now().UnixMilli())
		result.Mock = true
		return result
	}
	result.OrderID = order.ID
	return result
}

func validMethod(m domain.PaymentMethod) bool {
	switch m {
	case domain.MethodCreditCard, domain.MethodDebitCard, domain.MethodNetBanking,
		domain.MethodUPI, domain.MethodWallet, domain.MethodRazorpay:
		return true
	}
	return false
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
