package domain

import "time"

// TicketStatus represents the lifecycle state of an issued ticket.
type TicketStatus string

const (
	// TicketStatusUnpaid indicates the ticket is outstanding.
	TicketStatusUnpaid TicketStatus = "UNPAID"
	// TicketStatusPaid indicates the ticket has been settled.
	TicketStatusPaid TicketStatus = "PAID"
	// TicketStatusCancelled indicates the ticket was cancelled by an officer.
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// Payment records a settlement made against a ticket.
type Payment struct {
	ID     string    `json:"id"`
	Amount Money     `json:"amount"`
	PaidAt time.Time `json:"paidAt"`
}

// OfficerRef identifies the issuing officer as embedded in ticket payloads.
type OfficerRef struct {
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
}

// Ticket is a traffic-violation ticket as returned by the backend.
type Ticket struct {
	// ID is the backend identifier of the ticket.
	ID string `json:"id"`
	// TicketNumber is the human-facing serial printed on the ticket.
	TicketNumber string `json:"ticketNumber"`
	// PlateNumber is the flattened plate the ticket was issued against.
	PlateNumber string `json:"plateNumber"`

	CarModel         string `json:"carModel"`
	CarColor         string `json:"carColor"`
	DriverFullName   string `json:"driverFullName"`
	DriverNationalID string `json:"driverNationalId"`

	// Amount is the fine amount.
	Amount Money `json:"amount"`
	// Violation is the officer-entered description of the offense.
	Violation string `json:"violation"`
	// Status is the current lifecycle state.
	Status TicketStatus `json:"status"`

	IssuedAt time.Time   `json:"issuedAt"`
	Payments []Payment   `json:"payments"`
	Officer  *OfficerRef `json:"officer,omitempty"`
}

// TicketDraft is the in-progress, unsaved ticket being composed by an
// officer. Amount stays a raw string until submission because validation
// operates on what was typed, and the backend accepts it verbatim.
type TicketDraft struct {
	// Plate is the target license plate. Any mutation of it invalidates a
	// previous verification.
	Plate PlateRecord
	// OfficerID identifies the authenticated officer; it comes from the
	// session, never from user entry.
	OfficerID string
	// VehicleID is populated only after successful plate verification.
	// Empty means "not yet verified".
	VehicleID string
	// Amount is the fine amount as entered, digits only.
	Amount string
	// Violation is the free-text offense description.
	Violation string
}

// OfficerTicketList is the officer dashboard payload: the officer's issued
// tickets plus a total count.
type OfficerTicketList struct {
	Tickets   []Ticket `json:"tickets"`
	Count     int      `json:"count"`
	OfficerID string   `json:"officer_id"`
}
