package domain

import "time"

// OwnerRef identifies the owning user as embedded in vehicle payloads.
type OwnerRef struct {
	FirstName  string `json:"fname"`
	LastName   string `json:"lname"`
	NationalID string `json:"codeMeli"`
}

// Vehicle is a registered vehicle as returned by the backend. The embedded
// PlateRecord flattens the plate fields into the JSON object.
type Vehicle struct {
	PlateRecord

	ID    string `json:"id"`
	Model string `json:"model"`
	Color string `json:"color"`
	Year  string `json:"year"`

	// HasUnpaidTickets blocks deletion of the vehicle while true.
	HasUnpaidTickets bool `json:"hasUnpaidTickets"`

	Owner     *OwnerRef `json:"owner,omitempty"`
	Tickets   []Ticket  `json:"tickets"`
	CreatedAt time.Time `json:"createdAt"`
}

// VehicleDraft is an owner's in-progress vehicle registration.
type VehicleDraft struct {
	// Plate is the vehicle's license plate.
	Plate PlateRecord
	// Model and Color are free-text but must not be purely numeric.
	Model string
	Color string
	// Year is exactly four digits.
	Year string
	// OwnerID identifies the authenticated owner, sourced from the session.
	OwnerID string
}
