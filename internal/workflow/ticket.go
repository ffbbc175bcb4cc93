package workflow

import (
	"context"
	"io"
	"sync"

	"patrol/pkg/domain"
	"patrol/pkg/serrors"
	"patrol/pkg/violations"
)

// TicketFlow coordinates the officer's two-step ticket issuance: acquire a
// plate (manually or by image scan), verify it against the backend, then
// collect the fine amount and violation and submit the ticket.
//
// Verification state is tied to the exact plate it was obtained for: any
// mutation of a plate field drops back to unverified and clears the resolved
// vehicle, so a stale verification can never be reused for a changed plate.
type TicketFlow struct {
	mu     sync.Mutex
	client violations.Client

	draft    domain.TicketDraft
	mode     Mode
	step     Step
	verified bool

	// editSeq increments on every plate mutation. A network response is only
	// applied when the sequence still matches the value captured at request
	// time.
	editSeq uint64

	// preview is the last recognition result, kept for display until the
	// user switches to manual entry or the flow resets.
	preview *domain.RecognitionResult
}

// NewTicketFlow creates an empty draft for the given officer.
func NewTicketFlow(client violations.Client, officerID string) *TicketFlow {
	return &TicketFlow{
		client: client,
		draft:  domain.TicketDraft{OfficerID: officerID},
	}
}

// Mode returns the currently selected acquisition mode.
func (f *TicketFlow) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.mode
}

// Step returns the flow's busy state.
func (f *TicketFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.step
}

// Verified reports whether the current plate has been verified.
func (f *TicketFlow) Verified() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.verified
}

// Draft returns a copy of the in-progress ticket.
func (f *TicketFlow) Draft() domain.TicketDraft {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.draft
}

// Preview returns the last recognition result, or nil.
func (f *TicketFlow) Preview() *domain.RecognitionResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.preview
}

// SelectManual switches to manual plate entry. Transient recognition preview
// state is dropped; plate fields the user already entered are kept, a mode
// toggle is never destructive.
func (f *TicketFlow) SelectManual() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mode = ModeManual
	f.preview = nil
}

// SelectScan switches to image-based plate acquisition.
func (f *TicketFlow) SelectScan() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mode = ModeScan
}

// editPlate applies a mutation to the plate. If it actually changed anything,
// verification is invalidated: verified drops to false, the resolved vehicle
// is cleared and the edit sequence advances so in-flight responses get
// discarded. Selecting the same value a field already holds changes nothing.
func (f *TicketFlow) editPlate(mut func(*domain.PlateRecord)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	before := f.draft.Plate
	mut(&f.draft.Plate)
	if f.draft.Plate != before {
		f.editSeq++
		f.verified = false
		f.draft.VehicleID = ""
	}
}

// SetRegionPrefix sets the leading two digits of the plate.
func (f *TicketFlow) SetRegionPrefix(v string) {
	f.editPlate(func(p *domain.PlateRecord) { p.RegionPrefix = v })
}

// SetLetter sets the plate letter.
func (f *TicketFlow) SetLetter(v string) {
	f.editPlate(func(p *domain.PlateRecord) { p.Letter = v })
}

// SetSequenceNumber sets the three-digit serial part.
func (f *TicketFlow) SetSequenceNumber(v string) {
	f.editPlate(func(p *domain.PlateRecord) { p.SequenceNumber = v })
}

// SetCityCode sets the trailing city code.
func (f *TicketFlow) SetCityCode(v string) {
	f.editPlate(func(p *domain.PlateRecord) { p.CityCode = v })
}

// SetAmount records the fine amount as entered. Ticket fields do not touch
// verification state.
func (f *TicketFlow) SetAmount(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Amount = v
}

// SetViolation records the violation description.
func (f *TicketFlow) SetViolation(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Violation = v
}

// begin transitions the flow into the given busy step, rejecting the call if
// another request is already in flight. It returns the edit sequence at
// request time for staleness checks.
func (f *TicketFlow) begin(s Step) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepIdle {
		return 0, busy(f.step)
	}
	f.step = s

	return f.editSeq, nil
}

func (f *TicketFlow) finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepIdle
}

// Recognize submits a plate photograph and, on success, populates the plate
// fields from the mapped result. A freshly recognized plate is unverified by
// construction. Recognition never triggers verification on its own.
//
// If the user edited the plate while the request was in flight, the response
// is discarded and ErrStaleResponse is returned.
func (f *TicketFlow) Recognize(ctx context.Context, filename string, image io.Reader) (*domain.RecognitionResult, error) {
	if f.Mode() != ModeScan {
		return nil, serrors.With(serrors.ErrValidation, "image scan mode is not selected")
	}

	seq, err := f.begin(StepRecognizing)
	if err != nil {
		return nil, err
	}
	defer f.finish()

	result, err := recognize(ctx, f.client, filename, image)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editSeq != seq {
		return nil, staleResponse()
	}

	f.draft.Plate = domain.PlateRecord{
		RegionPrefix:   result.RegionPrefix,
		Letter:         result.Letter,
		SequenceNumber: result.SequenceNumber,
		CityCode:       result.CityCode,
	}
	f.editSeq++
	f.verified = false
	f.draft.VehicleID = ""
	f.preview = result

	return result, nil
}

// Verify validates the plate locally and, if well-formed, resolves it to a
// registered vehicle. Validation failures never reach the network. On
// success the resolved vehicle id is stored and the flow becomes verified,
// unlocking ticket submission.
func (f *TicketFlow) Verify(ctx context.Context) (string, error) {
	f.mu.Lock()
	plate := f.draft.Plate
	officerID := f.draft.OfficerID
	f.mu.Unlock()

	if err := ValidatePlate(plate); err != nil {
		return "", err
	}

	seq, err := f.begin(StepVerifying)
	if err != nil {
		return "", err
	}
	defer f.finish()

	vehicleID, err := f.client.VerifyPlate(ctx, plate, officerID)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editSeq != seq {
		return "", staleResponse()
	}

	f.draft.VehicleID = vehicleID
	f.verified = true

	return vehicleID, nil
}

// Submit issues the ticket. It requires a verified plate and locally valid
// amount and violation; on any failure the draft stays fully editable and no
// ticket is created. On success the flow resets to a fresh draft for the
// same officer.
func (f *TicketFlow) Submit(ctx context.Context) (*domain.Ticket, error) {
	f.mu.Lock()
	draft := f.draft
	verified := f.verified
	f.mu.Unlock()

	if !verified {
		return nil, serrors.Wrap(serrors.ErrValidation, ErrNotVerified, "cannot submit")
	}
	if err := ValidateTicketFields(draft.Amount, draft.Violation); err != nil {
		return nil, err
	}

	if _, err := f.begin(StepSubmitting); err != nil {
		return nil, err
	}
	defer f.finish()

	ticket, err := f.client.CreateTicket(ctx, draft)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = domain.TicketDraft{OfficerID: draft.OfficerID}
	f.mode = ModeNone
	f.verified = false
	f.preview = nil
	f.editSeq++

	return ticket, nil
}
