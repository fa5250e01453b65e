package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"booking-service/checkout"
	"booking-service/flow"
	"booking-service/models"
)

// CheckoutController exposes the checkout orchestration protocol. The
// orchestrator owns all state transitions; this layer only gates on flow
// position and translates ServiceErrors to HTTP.
type CheckoutController struct {
	Store        *flow.Store
	Orchestrator *checkout.Orchestrator
	Logger       *zap.Logger
}

func (cc *CheckoutController) session(c *gin.Context) (*flow.Session, bool) {
	s, ok := cc.Store.Get(c.Param("flowId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
		return nil, false
	}
	return s, true
}

func respondCheckout(c *gin.Context, state models.CheckoutState, svcErr *checkout.ServiceError) {
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "checkout": state})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout": state})
}

// StartCheckout begins payment for the flow. The flow must be at the
// payment step with its gate satisfied. The test method runs the
// synchronous initiate-then-confirm pair; card methods create a payment
// intent whose capture is delegated to the gateway widget.
func (cc *CheckoutController) StartCheckout(c *gin.Context) {
	s, ok := cc.session(c)
	if !ok {
		return
	}

	// Currency is optional; an empty body is fine.
	var req struct {
		Currency string `json:"currency"`
	}
	_ = c.ShouldBindJSON(&req)

	state, _, display := s.Snapshot()
	if display != flow.DisplayReady {
		c.JSON(http.StatusConflict, gin.H{"error": "Flow is not ready"})
		return
	}
	if state.Step != models.StepPayment || !flow.IsStepComplete(&state, models.StepPayment) {
		c.JSON(http.StatusConflict, gin.H{"error": "Payment step is not complete"})
		return
	}

	if state.PaymentMethod == models.PaymentMethodTest {
		checkoutState, svcErr := cc.Orchestrator.MockPay(c.Request.Context(), s)
		respondCheckout(c, checkoutState, svcErr)
		return
	}

	checkoutState, svcErr := cc.Orchestrator.CreateIntent(c.Request.Context(), s, req.Currency)
	if svcErr != nil {
		respondCheckout(c, checkoutState, svcErr)
		return
	}
	// The client secret goes to the gateway widget; it is returned here and
	// nowhere else.
	c.JSON(http.StatusOK, gin.H{
		"checkout":     checkoutState,
		"clientSecret": checkoutState.ClientSecret,
	})
}

// CompleteCapture is the gateway widget's success callback.
func (cc *CheckoutController) CompleteCapture(c *gin.Context) {
	s, ok := cc.session(c)
	if !ok {
		return
	}

	var req struct {
		PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, svcErr := cc.Orchestrator.CompleteCapture(c.Request.Context(), s, req.PaymentIntentID)
	respondCheckout(c, state, svcErr)
}

// RetryConfirm is the explicit, user-initiated confirmation retry after a
// post-capture failure. It never creates a new charge.
func (cc *CheckoutController) RetryConfirm(c *gin.Context) {
	s, ok := cc.session(c)
	if !ok {
		return
	}

	state, svcErr := cc.Orchestrator.RetryConfirm(c.Request.Context(), s)
	respondCheckout(c, state, svcErr)
}
