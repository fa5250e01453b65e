package gateway

import (
	"context"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

// StripeGateway verifies captures against the Stripe API.
type StripeGateway struct {
	SecretKey string
}

// NewStripeGateway configures the Stripe client with the given secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{SecretKey: secretKey}
}

// VerifyCapture retrieves the payment intent and reports whether Stripe
// considers it captured.
func (g *StripeGateway) VerifyCapture(_ context.Context, paymentIntentID string) (bool, error) {
	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return false, err
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}
