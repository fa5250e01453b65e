package flow

import "booking-service/models"

// Checkout state accessors. The checkout orchestrator is the only writer;
// these exist so every mutation happens under the session lock and the
// single-submit latch cannot be raced by a double click.

// Checkout returns a copy of the current checkout state.
func (s *Session) Checkout() models.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout
}

// UpdateCheckout mutates the checkout state under the session lock and
// returns the resulting copy.
func (s *Session) UpdateCheckout(fn func(c *models.CheckoutState)) models.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.checkout)
	return s.checkout
}

// TryAcquireProcessing sets the single-submit latch. It fails when another
// checkout call for this flow is already in flight.
func (s *Session) TryAcquireProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkout.IsProcessing {
		return false
	}
	s.checkout.IsProcessing = true
	return true
}

// ReleaseProcessing clears the single-submit latch.
func (s *Session) ReleaseProcessing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.IsProcessing = false
}

// MarkConfirmed records the finalized booking and moves the flow to the
// confirmation step.
func (s *Session) MarkConfirmed(bookingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.Status = models.StatusConfirmed
	s.checkout.BookingID = bookingID
	s.checkout.IsProcessing = false
	s.state.Step = models.StepConfirmation
}
