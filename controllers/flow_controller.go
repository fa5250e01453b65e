package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"booking-service/clients"
	"booking-service/flow"
	"booking-service/models"
	"booking-service/pricing"
	"booking-service/vendorpay"
)

// CouponValidator asks the backend whether a coupon applies to an order
// amount. *clients.BackendClient satisfies it.
type CouponValidator interface {
	ValidateCoupon(ctx context.Context, req *clients.CouponValidationRequest) (*clients.CouponValidationResponse, error)
}

// FlowController exposes the booking flow over HTTP. It holds no state of
// its own; everything lives in the flow store and is mutated through the
// session's named transitions.
type FlowController struct {
	Store    *flow.Store
	Resolver *vendorpay.Resolver
	Coupons  CouponValidator
	Methods  []models.PaymentMethod
	Logger   *zap.Logger
}

type flowResponse struct {
	FlowID   string                  `json:"flowId"`
	Display  flow.DisplayStatus      `json:"display"`
	State    models.BookingFlowState `json:"state"`
	Checkout models.CheckoutState    `json:"checkout"`
	Event    *models.Event           `json:"event,omitempty"`
	Pricing  *pricing.Breakdown      `json:"pricing,omitempty"`
}

func (fc *FlowController) respond(c *gin.Context, s *flow.Session, withPricing bool) {
	state, checkout, display := s.Snapshot()
	resp := flowResponse{
		FlowID:   s.ID,
		Display:  display,
		State:    state,
		Checkout: checkout,
		Event:    s.Event(),
	}
	if withPricing && display == flow.DisplayReady {
		b := fc.quote(c.Request.Context(), s, &state)
		resp.Pricing = &b
	}
	c.JSON(http.StatusOK, resp)
}

// quote recomputes the pricing breakdown from current inputs. Vendor info
// resolution is fail-open, so pricing always succeeds; until a vendor's real
// rate is known the default platform rate applies.
func (fc *FlowController) quote(ctx context.Context, s *flow.Session, state *models.BookingFlowState) pricing.Breakdown {
	event := s.Event()

	unitPrice := event.SchedulePrice(state.ScheduleID)
	count := len(state.Participants)
	if count < 1 {
		count = 1
	}

	info := fc.Resolver.GetVendorPaymentInfo(ctx, event.VendorID)

	coupon := pricing.CouponResult{}
	if state.CouponCode != "" {
		resp, err := fc.Coupons.ValidateCoupon(ctx, &clients.CouponValidationRequest{
			OrderAmount: unitPrice * float64(count),
			CouponCode:  state.CouponCode,
		})
		if err != nil {
			fc.Logger.Warn("coupon validation unavailable",
				zap.String("coupon", state.CouponCode), zap.Error(err))
			coupon = pricing.CouponResult{Message: "Could not validate coupon"}
		} else if resp.IsValidCoupon {
			coupon = pricing.CouponResult{Valid: true, DiscountPercent: resp.DiscountPercentage}
		} else {
			msg := resp.CouponError
			if msg == "" {
				msg = "Invalid coupon code"
			}
			coupon = pricing.CouponResult{Message: msg}
		}
	}

	return pricing.ComputeWithCoupon(pricing.Input{
		UnitPrice:             unitPrice,
		ParticipantCount:      count,
		UsesPlatformProcessor: info.UsesPlatformProcessor,
		ServiceFeePercent:     info.ServiceFeePercent,
	}, coupon).Rounded()
}

func (fc *FlowController) session(c *gin.Context) (*flow.Session, bool) {
	s, ok := fc.Store.Get(c.Param("flowId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
		return nil, false
	}
	return s, true
}

// StartFlow initializes a booking flow for an event. Repeating the call for
// the same (eventId, route) returns the existing flow.
func (fc *FlowController) StartFlow(c *gin.Context) {
	var req struct {
		EventID string `json:"eventId" binding:"required"`
		Route   string `json:"route"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Route == "" {
		req.Route = "/events/" + req.EventID + "/book"
	}

	s := fc.Store.StartFlow(c.Request.Context(), req.EventID, req.Route)
	fc.respond(c, s, false)
}

// GetFlow returns the flow with a live pricing snapshot.
func (fc *FlowController) GetFlow(c *gin.Context) {
	s, ok := fc.session(c)
	if !ok {
		return
	}
	fc.respond(c, s, true)
}

// Next advances the flow one step when the current step is complete.
func (fc *FlowController) Next(c *gin.Context) {
	s, ok := fc.session(c)
	if !ok {
		return
	}
	if !s.Next() {
		c.JSON(http.StatusConflict, gin.H{"error": "Current step is not complete"})
		return
	}
	fc.respond(c, s, false)
}

// Prev moves the flow one step back.
func (fc *FlowController) Prev(c *gin.Context) {
	s, ok := fc.session(c)
	if !ok {
		return
	}
	if !s.Prev() {
		c.JSON(http.StatusConflict, gin.H{"error": "Already at the first step"})
		return
	}
	fc.respond(c, s, false)
}

// AddParticipant appends a participant to the roster.
func (fc *FlowController) AddParticipant(c *gin.Context) {
	s, ok := fc.session(c)
	if !ok {
		return
	}

	var req ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := validateParticipant(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	p := s.AddParticipant(req.toModel())
	c.JSON(http.StatusCreated, p)
}

// UpdateParticipant replaces a participant by id.
func (fc *FlowController) UpdateParticipant(c *gin.Context) {
	s, ok := fc.session(c)
	if !ok {
		return
	}

	var req ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("participantId")
	if msg := validateParticipant(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if !s.UpdateParticipant(req.toModel()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	fc.respond(c, s, false)
}

// RemoveParticipant deletes a participant by id.
func (fc *FlowController) RemoveParticipant(c *gin.Context) {
	s, ok := fc.session(c)
	if !ok {
		return
	}
	if !s.RemoveParticipant(c.Param("participantId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	fc.respond(c, s, false)
}

// UpdateDetails applies field setters: schedule, coupon, payment method,
// special requests, consent. Only fields present in the payload are touched.
func (fc *FlowController) UpdateDetails(c *gin.Context) {
	s, ok := fc.session(c)
	if !ok {
		return
	}

	var req struct {
		ScheduleID      *string `json:"scheduleId"`
		CouponCode      *string `json:"couponCode"`
		PaymentMethod   *string `json:"paymentMethod"`
		SpecialRequests *string `json:"specialRequests"`
		AgreedToTerms   *bool   `json:"agreedToTerms"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ScheduleID != nil {
		s.SetSchedule(*req.ScheduleID)
	}
	if req.CouponCode != nil {
		s.SetCoupon(*req.CouponCode)
	}
	if req.PaymentMethod != nil {
		if !s.SetPaymentMethod(*req.PaymentMethod, fc.Methods) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
			return
		}
	}
	if req.SpecialRequests != nil {
		s.SetSpecialRequests(*req.SpecialRequests)
	}
	if req.AgreedToTerms != nil {
		s.SetConsent(*req.AgreedToTerms)
	}

	fc.respond(c, s, true)
}

// GetPricing returns the current pricing breakdown.
func (fc *FlowController) GetPricing(c *gin.Context) {
	s, ok := fc.session(c)
	if !ok {
		return
	}
	state, _, display := s.Snapshot()
	if display != flow.DisplayReady {
		c.JSON(http.StatusConflict, gin.H{"error": "Flow is not ready"})
		return
	}
	c.JSON(http.StatusOK, fc.quote(c.Request.Context(), s, &state))
}

// GetProcessorHandle resolves the gateway publishable key for the flow's
// vendor.
func (fc *FlowController) GetProcessorHandle(c *gin.Context) {
	s, ok := fc.session(c)
	if !ok {
		return
	}
	event := s.Event()
	if event == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Flow is not ready"})
		return
	}
	c.JSON(http.StatusOK, fc.Resolver.GetProcessorHandle(c.Request.Context(), event.VendorID))
}

// AbandonFlow discards the flow and frees its initialization key.
func (fc *FlowController) AbandonFlow(c *gin.Context) {
	if !fc.Store.Abandon(c.Param("flowId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "abandoned"})
}

// ListPaymentMethods returns the filtered payment capability table.
func (fc *FlowController) ListPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": fc.Methods})
}
