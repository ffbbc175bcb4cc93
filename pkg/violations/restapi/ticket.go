package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"patrol/pkg/domain"
	"patrol/pkg/serrors"
)

// VerifyPlate resolves the plate to a registered vehicle and returns its
// identifier. The plate must already be well-formed; this method performs no
// local validation of its own.
func (c *Client) VerifyPlate(ctx context.Context, plate domain.PlateRecord, officerID string) (string, error) {
	payload := struct {
		domain.PlateRecord
		OfficerID string `json:"officer_id"`
	}{PlateRecord: plate, OfficerID: officerID}

	status, body, err := c.sendJSON(ctx, http.MethodPost, "/plates/verify", payload)
	if err != nil {
		return "", err
	}
	if !success(status) {
		return "", statusError(status, body, "plate verification failed")
	}

	var resp struct {
		VehicleID string `json:"vehicleId"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}
	if resp.VehicleID == "" {
		return "", serrors.With(serrors.ErrRemote, "verification response carried no vehicle id")
	}

	return resp.VehicleID, nil
}

// CreateTicket submits a complete ticket draft and returns the created
// ticket. A failure response short-circuits; the success path is never
// reached with a failed request.
func (c *Client) CreateTicket(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error) {
	payload := struct {
		domain.PlateRecord
		OfficerID string `json:"officer_id"`
		VehicleID string `json:"vehicle_id"`
		Amount    string `json:"amount"`
		Violation string `json:"violation"`
	}{
		PlateRecord: draft.Plate,
		OfficerID:   draft.OfficerID,
		VehicleID:   draft.VehicleID,
		Amount:      draft.Amount,
		Violation:   draft.Violation,
	}

	status, body, err := c.sendJSON(ctx, http.MethodPost, "/tickets", payload)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, body, "creating ticket failed")
	}

	var ticket domain.Ticket
	if err := json.Unmarshal(body, &ticket); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &ticket, nil
}

// TicketByID fetches a single ticket.
func (c *Client) TicketByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	status, body, err := c.get(ctx, "/tickets/"+ticketID)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, body, "failed to fetch ticket")
	}

	var ticket domain.Ticket
	if err := json.Unmarshal(body, &ticket); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &ticket, nil
}

// CancelTicket cancels a ticket and returns its updated state.
func (c *Client) CancelTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	status, body, err := c.sendJSON(ctx, http.MethodPut, "/tickets/"+ticketID+"/cancel", nil)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, body, "failed to cancel ticket")
	}

	var ticket domain.Ticket
	if err := json.Unmarshal(body, &ticket); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &ticket, nil
}

// PayTicket settles a ticket and returns its updated state.
func (c *Client) PayTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	status, body, err := c.sendJSON(ctx, http.MethodPut, "/tickets/"+ticketID+"/pay", nil)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, body, "failed to pay ticket")
	}

	var ticket domain.Ticket
	if err := json.Unmarshal(body, &ticket); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &ticket, nil
}

// OfficerTickets lists the tickets issued by the given officer. A 404 means
// the officer has issued nothing yet and yields an empty list.
func (c *Client) OfficerTickets(ctx context.Context, officerID string) (*domain.OfficerTicketList, error) {
	status, body, err := c.get(ctx, "/tickets/officer/"+officerID)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return &domain.OfficerTicketList{OfficerID: officerID}, nil
	}
	if !success(status) {
		return nil, statusError(status, body, "failed to fetch tickets")
	}

	var list domain.OfficerTicketList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &list, nil
}
