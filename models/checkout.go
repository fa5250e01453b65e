package models

// CheckoutStatus tracks where a checkout stands between intent creation and
// booking confirmation. Only StatusFailedBeforeCapture permits discarding
// the checkout and starting over; once a charge may have happened the state
// must stay distinguishable so no second charge can be issued.
type CheckoutStatus string

const (
	StatusIdle                          CheckoutStatus = "idle"
	StatusCreatingIntent                CheckoutStatus = "creatingIntent"
	StatusAwaitingCapture               CheckoutStatus = "awaitingCapture"
	StatusConfirming                    CheckoutStatus = "confirming"
	StatusConfirmed                     CheckoutStatus = "confirmed"
	StatusConfirmationFailedPostCapture CheckoutStatus = "confirmationFailedPostCapture"
	StatusFailedBeforeCapture           CheckoutStatus = "failedBeforeCapture"
)

// Retryable reports whether the checkout may be restarted from intent
// creation. A post-capture confirmation failure is deliberately excluded:
// retrying there must reuse the existing order, never create a new charge.
func (s CheckoutStatus) Retryable() bool {
	return s == StatusFailedBeforeCapture
}

// Terminal reports whether the checkout has reached a final status.
func (s CheckoutStatus) Terminal() bool {
	switch s {
	case StatusConfirmed, StatusConfirmationFailedPostCapture, StatusFailedBeforeCapture:
		return true
	}
	return false
}

// CheckoutState holds the join keys between a charge and a booking record.
// OrderID and PaymentIntentID are issued by the backend at intent creation
// and reused verbatim on every confirmation attempt.
type CheckoutState struct {
	Status          CheckoutStatus `json:"status"`
	IsProcessing    bool           `json:"isProcessing"`
	PaymentIntentID string         `json:"paymentIntentId,omitempty"`
	ClientSecret    string         `json:"-"`
	OrderID         string         `json:"orderId,omitempty"`
	BookingID       string         `json:"bookingId,omitempty"`
}

// NewCheckoutState returns an empty, idle checkout.
func NewCheckoutState() CheckoutState {
	return CheckoutState{Status: StatusIdle}
}
