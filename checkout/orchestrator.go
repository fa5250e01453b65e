// Package checkout drives a flow from payment intent to confirmed booking.
// The protocol bridges a possibly-flaky gateway with backend order state,
// and its one hard rule is: once a charge may have happened, the flow can
// never be retried as a fresh charge. A confirmation failure after capture
// is a distinguishable terminal state that reuses the same order identity
// on every explicit retry.
package checkout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"booking-service/clients"
	"booking-service/events"
	"booking-service/flow"
	"booking-service/gateway"
	"booking-service/models"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// BookingClient is the slice of the backend the orchestrator needs.
// *clients.BackendClient satisfies it.
type BookingClient interface {
	InitiateBooking(ctx context.Context, req *clients.InitiateBookingRequest) (*clients.InitiateBookingResponse, error)
	ConfirmBooking(ctx context.Context, req *clients.ConfirmBookingRequest) (*clients.ConfirmBookingResponse, error)
	CreatePaymentIntent(ctx context.Context, req *clients.PaymentIntentRequest) (*clients.PaymentIntentResponse, error)
}

// Orchestrator coordinates intent creation, capture verification and
// booking confirmation for one flow at a time.
type Orchestrator struct {
	backend  BookingClient
	gateway  gateway.Gateway
	reporter events.Reporter
	logger   *zap.Logger
}

// NewOrchestrator wires the orchestrator's collaborators.
func NewOrchestrator(backend BookingClient, gw gateway.Gateway, reporter events.Reporter, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		backend:  backend,
		gateway:  gw,
		reporter: reporter,
		logger:   logger,
	}
}

func supportMessage(orderID string) string {
	return fmt.Sprintf("Your payment was received but the booking could not be confirmed. Please contact support with order id %s — do not pay again.", orderID)
}

// CreateIntent requests a server-issued payment intent for the flow. An
// intent that already exists is returned as-is: a duplicate submit or a
// resumed session must never mint a second charge handle.
func (o *Orchestrator) CreateIntent(ctx context.Context, s *flow.Session, currency string) (models.CheckoutState, *ServiceError) {
	current := s.Checkout()

	if current.ClientSecret != "" {
		return current, nil
	}
	if current.Status == models.StatusConfirmationFailedPostCapture {
		return current, &ServiceError{StatusCode: 409, Message: supportMessage(current.OrderID)}
	}
	if current.Status != models.StatusIdle && current.Status != models.StatusFailedBeforeCapture {
		return current, &ServiceError{StatusCode: 409, Message: "Checkout already in progress"}
	}

	if !s.TryAcquireProcessing() {
		return current, &ServiceError{StatusCode: 409, Message: "Another checkout request is in flight"}
	}

	state, _, _ := s.Snapshot()
	s.UpdateCheckout(func(c *models.CheckoutState) {
		c.Status = models.StatusCreatingIntent
	})

	resp, err := o.backend.CreatePaymentIntent(ctx, &clients.PaymentIntentRequest{
		EventID:        state.EventID,
		Participants:   len(state.Participants),
		DateScheduleID: state.ScheduleID,
		CouponCode:     state.CouponCode,
		Currency:       currency,
	})
	if err != nil {
		// No charge handle was issued: this is fully retryable.
		o.logger.Warn("payment intent creation failed",
			zap.String("flow_id", s.ID), zap.String("event_id", state.EventID), zap.Error(err))
		updated := s.UpdateCheckout(func(c *models.CheckoutState) {
			c.Status = models.StatusFailedBeforeCapture
			c.IsProcessing = false
		})
		return updated, &ServiceError{StatusCode: 502, Message: "Could not start payment, please try again"}
	}

	updated := s.UpdateCheckout(func(c *models.CheckoutState) {
		c.Status = models.StatusAwaitingCapture
		c.PaymentIntentID = resp.PaymentIntentID
		c.ClientSecret = resp.ClientSecret
		c.OrderID = resp.OrderID
		c.IsProcessing = false
	})

	o.logger.Info("payment intent created",
		zap.String("flow_id", s.ID),
		zap.String("order_id", resp.OrderID),
		zap.String("payment_intent_id", resp.PaymentIntentID))
	return updated, nil
}

// CompleteCapture handles the gateway widget reporting a successful capture.
// The capture is verified server-side before the booking is confirmed; a
// widget cannot talk a booking into existence on its own say-so.
func (o *Orchestrator) CompleteCapture(ctx context.Context, s *flow.Session, paymentIntentID string) (models.CheckoutState, *ServiceError) {
	current := s.Checkout()

	if current.Status != models.StatusAwaitingCapture {
		return current, &ServiceError{StatusCode: 409, Message: "No capture is pending for this flow"}
	}
	if paymentIntentID != current.PaymentIntentID {
		return current, &ServiceError{StatusCode: 400, Message: "Payment intent does not belong to this flow"}
	}

	if !s.TryAcquireProcessing() {
		return current, &ServiceError{StatusCode: 409, Message: "Another checkout request is in flight"}
	}

	captured, err := o.gateway.VerifyCapture(ctx, paymentIntentID)
	if err != nil {
		// Unknown capture outcome. Nothing was confirmed, so staying at
		// awaitingCapture keeps a re-verify safe and charge-free.
		s.ReleaseProcessing()
		o.logger.Warn("capture verification failed",
			zap.String("flow_id", s.ID), zap.String("payment_intent_id", paymentIntentID), zap.Error(err))
		return s.Checkout(), &ServiceError{StatusCode: 502, Message: "Could not verify payment, please retry"}
	}
	if !captured {
		s.ReleaseProcessing()
		return s.Checkout(), &ServiceError{StatusCode: 402, Message: "Payment was not captured"}
	}

	return o.confirm(ctx, s)
}

// MockPay runs the test payment path: initiate then confirm, synchronously.
// Once initiate returns an order identity the transaction is treated as
// financially committed, exactly like the gateway path, so both paths share
// one failure contract.
func (o *Orchestrator) MockPay(ctx context.Context, s *flow.Session) (models.CheckoutState, *ServiceError) {
	current := s.Checkout()

	if current.Status == models.StatusConfirmationFailedPostCapture {
		return current, &ServiceError{StatusCode: 409, Message: supportMessage(current.OrderID)}
	}
	if current.Status != models.StatusIdle && current.Status != models.StatusFailedBeforeCapture {
		return current, &ServiceError{StatusCode: 409, Message: "Checkout already in progress"}
	}

	if !s.TryAcquireProcessing() {
		return current, &ServiceError{StatusCode: 409, Message: "Another checkout request is in flight"}
	}

	state, _, _ := s.Snapshot()
	s.UpdateCheckout(func(c *models.CheckoutState) {
		c.Status = models.StatusCreatingIntent
	})

	resp, err := o.backend.InitiateBooking(ctx, &clients.InitiateBookingRequest{
		EventID:        state.EventID,
		DateScheduleID: state.ScheduleID,
		Seats:          len(state.Participants),
		PaymentMethod:  models.PaymentMethodTest,
		Participants:   state.Participants,
	})
	if err != nil {
		o.logger.Warn("booking initiation failed",
			zap.String("flow_id", s.ID), zap.String("event_id", state.EventID), zap.Error(err))
		updated := s.UpdateCheckout(func(c *models.CheckoutState) {
			c.Status = models.StatusFailedBeforeCapture
			c.IsProcessing = false
		})
		return updated, &ServiceError{StatusCode: 502, Message: "Could not start booking, please try again"}
	}

	s.UpdateCheckout(func(c *models.CheckoutState) {
		c.PaymentIntentID = resp.PaymentIntentID
		c.OrderID = resp.OrderID
	})

	return o.confirm(ctx, s)
}

// RetryConfirm is the explicit, user-initiated retry after a post-capture
// confirmation failure. It reuses the stored order identity verbatim; there
// is no path from here back to intent creation.
func (o *Orchestrator) RetryConfirm(ctx context.Context, s *flow.Session) (models.CheckoutState, *ServiceError) {
	current := s.Checkout()

	if current.Status != models.StatusConfirmationFailedPostCapture {
		return current, &ServiceError{StatusCode: 409, Message: "No pending confirmation to retry"}
	}

	if !s.TryAcquireProcessing() {
		return current, &ServiceError{StatusCode: 409, Message: "A confirmation is already in flight"}
	}

	return o.confirm(ctx, s)
}

// confirm performs the reconciliation step. Callers hold the processing
// latch; confirm releases it on every path.
func (o *Orchestrator) confirm(ctx context.Context, s *flow.Session) (models.CheckoutState, *ServiceError) {
	state, checkout, _ := s.Snapshot()

	s.UpdateCheckout(func(c *models.CheckoutState) {
		c.Status = models.StatusConfirming
	})

	resp, err := o.backend.ConfirmBooking(ctx, &clients.ConfirmBookingRequest{
		PaymentIntentID: checkout.PaymentIntentID,
		OrderID:         checkout.OrderID,
		Participants:    state.Participants,
	})
	if err != nil {
		// Money moved (or the order is committed) but the booking record is
		// unconfirmed. This must never degrade into "payment failed".
		o.logger.Error("booking confirmation failed after capture",
			zap.String("flow_id", s.ID),
			zap.String("order_id", checkout.OrderID),
			zap.String("payment_intent_id", checkout.PaymentIntentID),
			zap.Error(err))
		o.reporter.ReportReconciliationFailure(ctx, events.ReconciliationFailure{
			FlowID:          s.ID,
			OrderID:         checkout.OrderID,
			PaymentIntentID: checkout.PaymentIntentID,
			EventID:         state.EventID,
			PaymentMethod:   state.PaymentMethod,
			Reason:          err.Error(),
		})
		updated := s.UpdateCheckout(func(c *models.CheckoutState) {
			c.Status = models.StatusConfirmationFailedPostCapture
			c.IsProcessing = false
		})
		return updated, &ServiceError{StatusCode: 502, Message: supportMessage(checkout.OrderID)}
	}

	s.MarkConfirmed(resp.BookingID)
	o.logger.Info("booking confirmed",
		zap.String("flow_id", s.ID),
		zap.String("order_id", checkout.OrderID),
		zap.String("booking_id", resp.BookingID))
	return s.Checkout(), nil
}
