// Package gateway abstracts the card payment gateway. Capture itself is
// delegated to the gateway's client-side widget via the intent client
// secret; the orchestrator only verifies the result server-side before
// confirming a booking, and never sees raw payment credentials.
package gateway

import "context"

// Gateway verifies the outcome of a delegated capture.
type Gateway interface {
	// VerifyCapture reports whether the payment intent was captured.
	// An error means the gateway could not be reached, not a decline.
	VerifyCapture(ctx context.Context, paymentIntentID string) (bool, error)
}
