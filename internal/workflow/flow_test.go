package workflow_test

import (
	"context"
	"io"

	"patrol/internal/workflow"
	"patrol/pkg/domain"
)

// fakeClient implements violations.Client with overridable hooks so flow
// tests can observe and script individual endpoints. Unset hooks fail the
// call loudly.
type fakeClient struct {
	verifyPlate  func(ctx context.Context, plate domain.PlateRecord, officerID string) (string, error)
	createTicket func(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error)
	recognize    func(ctx context.Context, filename string, image io.Reader) (*domain.RecognitionResult, error)
	createVeh    func(ctx context.Context, draft domain.VehicleDraft) (*domain.Vehicle, error)
}

func (c *fakeClient) Login(_ context.Context, _, _ string) (string, error) {
	panic("unexpected Login call")
}

func (c *fakeClient) Register(_ context.Context, _ domain.Registration) (string, error) {
	panic("unexpected Register call")
}

func (c *fakeClient) VerifyToken(_ context.Context) error {
	panic("unexpected VerifyToken call")
}

func (c *fakeClient) UserInfo(_ context.Context) (*domain.User, error) {
	panic("unexpected UserInfo call")
}

func (c *fakeClient) VerifyPlate(ctx context.Context, plate domain.PlateRecord, officerID string) (string, error) {
	if c.verifyPlate == nil {
		panic("unexpected VerifyPlate call")
	}

	return c.verifyPlate(ctx, plate, officerID)
}

func (c *fakeClient) CreateTicket(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error) {
	if c.createTicket == nil {
		panic("unexpected CreateTicket call")
	}

	return c.createTicket(ctx, draft)
}

func (c *fakeClient) RecognizePlate(ctx context.Context, filename string, image io.Reader) (*domain.RecognitionResult, error) {
	if c.recognize == nil {
		panic("unexpected RecognizePlate call")
	}

	return c.recognize(ctx, filename, image)
}

func (c *fakeClient) OfficerTickets(_ context.Context, _ string) (*domain.OfficerTicketList, error) {
	panic("unexpected OfficerTickets call")
}

func (c *fakeClient) CreateVehicle(ctx context.Context, draft domain.VehicleDraft) (*domain.Vehicle, error) {
	if c.createVeh == nil {
		panic("unexpected CreateVehicle call")
	}

	return c.createVeh(ctx, draft)
}

func (c *fakeClient) DeleteVehicle(_ context.Context, _ string) error {
	panic("unexpected DeleteVehicle call")
}

func (c *fakeClient) VehicleDetails(_ context.Context, _ string) (*domain.Vehicle, error) {
	panic("unexpected VehicleDetails call")
}

func (c *fakeClient) TicketByID(_ context.Context, _ string) (*domain.Ticket, error) {
	panic("unexpected TicketByID call")
}

func (c *fakeClient) CancelTicket(_ context.Context, _ string) (*domain.Ticket, error) {
	panic("unexpected CancelTicket call")
}

func (c *fakeClient) PayTicket(_ context.Context, _ string) (*domain.Ticket, error) {
	panic("unexpected PayTicket call")
}

// setPlate types a full plate into the ticket flow field by field.
func setPlate(f *workflow.TicketFlow, p domain.PlateRecord) {
	f.SetRegionPrefix(p.RegionPrefix)
	f.SetLetter(p.Letter)
	f.SetSequenceNumber(p.SequenceNumber)
	f.SetCityCode(p.CityCode)
}
