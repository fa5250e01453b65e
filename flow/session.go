// Package flow owns the booking flow state machine: a linear
// details → participants → payment → confirmation sequence where forward
// navigation is gated by per-step completion predicates. All mutation goes
// through named transitions; nothing outside this package writes flow state
// directly.
package flow

import (
	"sync"

	"github.com/google/uuid"

	"booking-service/models"
)

// DisplayStatus is what the flow is currently able to show.
type DisplayStatus string

const (
	DisplayLoading DisplayStatus = "loading"
	DisplayReady   DisplayStatus = "ready"
	// DisplayErrored is terminal: the event never loaded within the bound.
	DisplayErrored DisplayStatus = "errored"
)

// Session is one active booking flow. Each session is owned by a single
// client; the mutex only guards against duplicate submits and interleaved
// handler calls, there is no cross-flow sharing.
type Session struct {
	ID      string
	EventID string
	Route   string

	mu       sync.Mutex
	display  DisplayStatus
	event    *models.Event
	state    models.BookingFlowState
	checkout models.CheckoutState
}

func newSession(eventID, route string) *Session {
	return &Session{
		ID:       uuid.NewString(),
		EventID:  eventID,
		Route:    route,
		display:  DisplayLoading,
		state:    models.NewBookingFlowState(),
		checkout: models.NewCheckoutState(),
	}
}

// Snapshot returns copies of the current flow and checkout state.
func (s *Session) Snapshot() (models.BookingFlowState, models.CheckoutState, DisplayStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Participants = append([]models.Participant(nil), s.state.Participants...)
	return state, s.checkout, s.display
}

// Event returns the loaded event, nil while loading or errored.
func (s *Session) Event() *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.event
}

// IsStepComplete is the step-completion predicate gating forward navigation.
func IsStepComplete(state *models.BookingFlowState, step models.FlowStep) bool {
	switch step {
	case models.StepDetails:
		return state.EventID != ""
	case models.StepParticipants:
		if len(state.Participants) == 0 {
			return false
		}
		for i := range state.Participants {
			if !state.Participants[i].Complete() {
				return false
			}
		}
		return true
	case models.StepPayment:
		return state.PaymentMethod != "" && state.AgreedToTerms
	case models.StepConfirmation:
		return true
	}
	return false
}

// Next advances the flow one step when the current step's completion
// predicate holds. It reports whether the flow moved; an incomplete step is
// a refused transition, not an error.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !IsStepComplete(&s.state, s.state.Step) {
		return false
	}
	idx := models.StepIndex(s.state.Step)
	if idx < 0 || idx+1 >= len(models.FlowSteps) {
		return false
	}
	s.state.Step = models.FlowSteps[idx+1]
	return true
}

// Prev moves the flow one step back. Always permitted above details.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := models.StepIndex(s.state.Step)
	if idx <= 0 {
		return false
	}
	s.state.Step = models.FlowSteps[idx-1]
	return true
}

// Reset returns the flow to its initial state and clears the checkout. The
// event context is kept so the details step remains satisfiable.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.state = models.NewBookingFlowState()
	if s.event != nil {
		s.state.EventID = s.event.ID
	}
	s.checkout = models.NewCheckoutState()
}

// AddParticipant appends a participant, assigning an id when absent.
func (s *Session) AddParticipant(p models.Participant) models.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.state.Participants = append(s.state.Participants, p)
	return p
}

// UpdateParticipant replaces the participant with the same id. Returns false
// when no such participant exists.
func (s *Session) UpdateParticipant(p models.Participant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Participants {
		if s.state.Participants[i].ID == p.ID {
			s.state.Participants[i] = p
			return true
		}
	}
	return false
}

// RemoveParticipant deletes a participant by id.
func (s *Session) RemoveParticipant(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Participants {
		if s.state.Participants[i].ID == id {
			s.state.Participants = append(s.state.Participants[:i], s.state.Participants[i+1:]...)
			return true
		}
	}
	return false
}

// SetSchedule selects a date schedule on the loaded event.
func (s *Session) SetSchedule(scheduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ScheduleID = scheduleID
}

// SetCoupon records the coupon code; validation happens at pricing time.
func (s *Session) SetCoupon(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CouponCode = code
}

// SetPaymentMethod selects a payment method from the capability table.
// Methods not in the table (disabled ones were filtered at construction)
// are rejected.
func (s *Session) SetPaymentMethod(id string, available []models.PaymentMethod) bool {
	for _, m := range available {
		if m.ID == id {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.state.PaymentMethod = id
			return true
		}
	}
	return false
}

// SetSpecialRequests records free-text requests for the vendor.
func (s *Session) SetSpecialRequests(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SpecialRequests = text
}

// SetConsent records terms agreement.
func (s *Session) SetConsent(agreed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AgreedToTerms = agreed
}
