package models

// Event is the read-only event record fetched from the catalog backend.
// Pricing only needs the unit price, the currency and the vendor reference;
// schedules carry optional per-schedule price overrides.
type Event struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	UnitPrice float64         `json:"unitPrice"`
	Currency  string          `json:"currency"`
	VendorID  string          `json:"vendorId"`
	Schedules []EventSchedule `json:"schedules,omitempty"`
}

// EventSchedule is one bookable date slot of an event.
type EventSchedule struct {
	ID             string   `json:"id"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate,omitempty"`
	PriceOverride  *float64 `json:"price,omitempty"`
	AvailableSeats int      `json:"availableSeats"`
}

// SchedulePrice returns the effective unit price for the given schedule,
// falling back to the event base price when the schedule has no override.
func (e *Event) SchedulePrice(scheduleID string) float64 {
	for _, s := range e.Schedules {
		if s.ID == scheduleID && s.PriceOverride != nil {
			return *s.PriceOverride
		}
	}
	return e.UnitPrice
}
