// Package violations defines the client abstraction for the remote
// traffic-violation backend: authentication, plate verification and
// recognition, and the ticket and vehicle endpoints.
package violations

import (
	"context"
	"io"

	"patrol/pkg/domain"
)

// Client is the abstraction over the backend's REST surface. Implementations
// translate each endpoint's ad hoc response shapes into typed results and
// semantic errors.
type Client interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, username, password string) (string, error)
	// Register creates a new account and returns its session token.
	Register(ctx context.Context, reg domain.Registration) (string, error)
	// VerifyToken checks the stored session token with the backend. A nil
	// return means the session is valid; ErrSessionExpired means the caller
	// must purge local state and re-authenticate.
	VerifyToken(ctx context.Context) error
	// UserInfo fetches the authenticated account, including an owner's
	// vehicles.
	UserInfo(ctx context.Context) (*domain.User, error)

	// VerifyPlate resolves a well-formed plate to a known vehicle and
	// returns its identifier. Callers must validate the plate first.
	VerifyPlate(ctx context.Context, plate domain.PlateRecord, officerID string) (string, error)
	// CreateTicket submits a complete ticket draft.
	CreateTicket(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error)
	// RecognizePlate submits a plate photograph and returns the raw
	// recognized fields. The letter may be a Latin transliteration key.
	RecognizePlate(ctx context.Context, filename string, image io.Reader) (*domain.RecognitionResult, error)
	// OfficerTickets lists the tickets issued by an officer. An officer with
	// no tickets yields an empty list, not an error.
	OfficerTickets(ctx context.Context, officerID string) (*domain.OfficerTicketList, error)

	// CreateVehicle registers a vehicle for the authenticated owner.
	CreateVehicle(ctx context.Context, draft domain.VehicleDraft) (*domain.Vehicle, error)
	// DeleteVehicle removes a vehicle. Vehicles with unpaid tickets are
	// refused with ErrForbidden.
	DeleteVehicle(ctx context.Context, vehicleID string) error
	// VehicleDetails fetches a vehicle with its tickets and payments.
	VehicleDetails(ctx context.Context, vehicleID string) (*domain.Vehicle, error)

	// TicketByID fetches a single ticket.
	TicketByID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	// CancelTicket cancels a ticket and returns its updated state.
	CancelTicket(ctx context.Context, ticketID string) (*domain.Ticket, error)
	// PayTicket settles a ticket and returns its updated state.
	PayTicket(ctx context.Context, ticketID string) (*domain.Ticket, error)
}
