package models

// FlowStep is one position in the linear booking flow.
type FlowStep string

const (
	StepDetails      FlowStep = "details"
	StepParticipants FlowStep = "participants"
	StepPayment      FlowStep = "payment"
	StepConfirmation FlowStep = "confirmation"
)

// FlowSteps is the fixed forward order of the booking flow.
var FlowSteps = []FlowStep{StepDetails, StepParticipants, StepPayment, StepConfirmation}

// StepIndex returns the position of a step in FlowSteps, or -1.
func StepIndex(step FlowStep) int {
	for i, s := range FlowSteps {
		if s == step {
			return i
		}
	}
	return -1
}

// BookingFlowState is the mutable state of one active booking flow. It is
// owned by exactly one flow session; all mutation goes through the flow
// package's named transitions.
type BookingFlowState struct {
	Step            FlowStep      `json:"step"`
	EventID         string        `json:"eventId"`
	ScheduleID      string        `json:"scheduleId,omitempty"`
	Participants    []Participant `json:"participants"`
	PaymentMethod   string        `json:"paymentMethod,omitempty"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
	CouponCode      string        `json:"couponCode,omitempty"`
	AgreedToTerms   bool          `json:"agreedToTerms"`
}

// NewBookingFlowState returns the initial flow state.
func NewBookingFlowState() BookingFlowState {
	return BookingFlowState{
		Step:         StepDetails,
		Participants: []Participant{},
	}
}
