package models

// FormAnswer is one answer to a vendor-defined registration form field.
type FormAnswer struct {
	FieldID    string `json:"fieldId"`
	FieldLabel string `json:"fieldLabel"`
	FieldType  string `json:"fieldType"`
	Value      string `json:"value"`
}

// Participant is one attendee on a booking. Name and email are required
// before the flow may advance past the participants step; everything else
// is optional. Participants live only inside an active flow and are sent
// to the backend at confirmation time.
type Participant struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone,omitempty"`
	Age              int          `json:"age,omitempty"`
	Gender           string       `json:"gender,omitempty"`
	EmergencyContact string       `json:"emergencyContact,omitempty"`
	DietaryNeeds     string       `json:"dietaryNeeds,omitempty"`
	FormAnswers      []FormAnswer `json:"formAnswers,omitempty"`
}

// Complete reports whether the participant carries the fields required for
// checkout to proceed.
func (p *Participant) Complete() bool {
	return p.Name != "" && p.Email != ""
}
