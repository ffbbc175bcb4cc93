package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"patrol/pkg/domain"
	"patrol/pkg/serrors"
)

// CreateVehicle registers a vehicle for the authenticated owner. The draft
// must already be validated; a failure response short-circuits and is never
// treated as success.
func (c *Client) CreateVehicle(ctx context.Context, draft domain.VehicleDraft) (*domain.Vehicle, error) {
	payload := struct {
		domain.PlateRecord
		Model   string `json:"model"`
		Color   string `json:"color"`
		Year    string `json:"year"`
		OwnerID string `json:"owner_id"`
	}{
		PlateRecord: draft.Plate,
		Model:       draft.Model,
		Color:       draft.Color,
		Year:        draft.Year,
		OwnerID:     draft.OwnerID,
	}

	status, body, err := c.sendJSON(ctx, http.MethodPost, "/vehicles", payload)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, body, "creating vehicle failed")
	}

	var vehicle domain.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &vehicle, nil
}

// DeleteVehicle removes a vehicle. The backend refuses deletion while unpaid
// tickets exist (403) and that refusal surfaces as ErrForbidden with the
// server's message.
func (c *Client) DeleteVehicle(ctx context.Context, vehicleID string) error {
	if vehicleID == "" {
		return serrors.With(serrors.ErrValidation, "vehicle id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/vehicles/"+vehicleID, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return err
	}
	if !success(status) {
		return statusError(status, body, "failed to delete vehicle")
	}

	return nil
}

// VehicleDetails fetches a vehicle with its tickets and payments. Monetary
// fields arrive as structured decimals and decode to plain amounts via
// domain.Money. An unauthorized or forbidden response means the session is
// gone.
func (c *Client) VehicleDetails(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	status, body, err := c.get(ctx, "/vehicles/"+vehicleID)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, serrors.With(serrors.ErrSessionExpired, "session expired, please login again")
	}
	if !success(status) {
		return nil, statusError(status, body, "failed to fetch vehicle details")
	}

	var vehicle domain.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &vehicle, nil
}
