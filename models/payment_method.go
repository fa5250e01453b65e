package models

// Payment method identifiers recognized by the orchestrator.
const (
	PaymentMethodCard = "card"
	PaymentMethodTest = "test"
)

// PaymentMethod is one entry in the payment capability table. Disabled
// methods are filtered out before they can reach a flow.
type PaymentMethod struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Enabled     bool   `json:"enabled"`
	Recommended bool   `json:"recommended,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

// FilterPaymentMethods drops disabled entries. The result is computed once
// at construction and reused; flows never see a disabled method.
func FilterPaymentMethods(methods []PaymentMethod) []PaymentMethod {
	out := make([]PaymentMethod, 0, len(methods))
	for _, m := range methods {
		if m.Enabled {
			out = append(out, m)
		}
	}
	return out
}
