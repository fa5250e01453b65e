package controllers

import (
	"github.com/go-playground/validator/v10"

	"booking-service/models"
)

var validate = validator.New()

// ParticipantRequest is the payload for adding or updating a participant.
// Name and email are required here because an incomplete participant can
// never pass the participants-step gate anyway; rejecting early gives the
// client a field-level error instead of a refused transition.
type ParticipantRequest struct {
	ID               string              `json:"id"`
	Name             string              `json:"name" validate:"required"`
	Email            string              `json:"email" validate:"required,email"`
	Phone            string              `json:"phone"`
	Age              int                 `json:"age" validate:"omitempty,gte=0,lte=130"`
	Gender           string              `json:"gender"`
	EmergencyContact string              `json:"emergencyContact"`
	DietaryNeeds     string              `json:"dietaryNeeds"`
	FormAnswers      []models.FormAnswer `json:"formAnswers"`
}

func (r *ParticipantRequest) toModel() models.Participant {
	return models.Participant{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Age:              r.Age,
		Gender:           r.Gender,
		EmergencyContact: r.EmergencyContact,
		DietaryNeeds:     r.DietaryNeeds,
		FormAnswers:      r.FormAnswers,
	}
}

// validateParticipant runs struct validation and returns a user-facing
// message for the first violation.
func validateParticipant(r *ParticipantRequest) string {
	if err := validate.Struct(r); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			switch errs[0].Field() {
			case "Name":
				return "Participant name is required"
			case "Email":
				return "A valid participant email is required"
			case "Age":
				return "Participant age is out of range"
			}
		}
		return "Invalid participant"
	}
	return ""
}
