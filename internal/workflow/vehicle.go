package workflow

import (
	"context"
	"io"
	"sync"

	"patrol/pkg/domain"
	"patrol/pkg/serrors"
	"patrol/pkg/violations"
)

// VehicleFlow collects the plate and descriptive fields for registering a
// vehicle to the logged-in owner. The plate can be typed in or scanned, with
// the same single-flight and stale-response rules as ticket issuance, but
// there is no verification step: the backend itself rejects duplicate
// plates.
type VehicleFlow struct {
	mu     sync.Mutex
	client violations.Client

	draft   domain.VehicleDraft
	mode    Mode
	step    Step
	editSeq uint64
	preview *domain.RecognitionResult
}

// NewVehicleFlow creates an empty registration draft for the given owner.
func NewVehicleFlow(client violations.Client, ownerID string) *VehicleFlow {
	return &VehicleFlow{
		client: client,
		draft:  domain.VehicleDraft{OwnerID: ownerID},
	}
}

// Mode returns the currently selected acquisition mode.
func (f *VehicleFlow) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.mode
}

// Step returns the flow's busy state.
func (f *VehicleFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.step
}

// Draft returns a copy of the in-progress registration.
func (f *VehicleFlow) Draft() domain.VehicleDraft {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.draft
}

// Preview returns the last recognition result, or nil.
func (f *VehicleFlow) Preview() *domain.RecognitionResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.preview
}

// SelectManual switches to manual plate entry, dropping only the recognition
// preview.
func (f *VehicleFlow) SelectManual() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mode = ModeManual
	f.preview = nil
}

// SelectScan switches to image-based plate acquisition.
func (f *VehicleFlow) SelectScan() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mode = ModeScan
}

func (f *VehicleFlow) editPlate(mut func(*domain.PlateRecord)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	before := f.draft.Plate
	mut(&f.draft.Plate)
	if f.draft.Plate != before {
		f.editSeq++
	}
}

// SetRegionPrefix sets the leading two digits of the plate.
func (f *VehicleFlow) SetRegionPrefix(v string) {
	f.editPlate(func(p *domain.PlateRecord) { p.RegionPrefix = v })
}

// SetLetter sets the plate letter.
func (f *VehicleFlow) SetLetter(v string) {
	f.editPlate(func(p *domain.PlateRecord) { p.Letter = v })
}

// SetSequenceNumber sets the three-digit serial part.
func (f *VehicleFlow) SetSequenceNumber(v string) {
	f.editPlate(func(p *domain.PlateRecord) { p.SequenceNumber = v })
}

// SetCityCode sets the trailing city code.
func (f *VehicleFlow) SetCityCode(v string) {
	f.editPlate(func(p *domain.PlateRecord) { p.CityCode = v })
}

// SetModel records the vehicle model.
func (f *VehicleFlow) SetModel(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Model = v
}

// SetColor records the vehicle color.
func (f *VehicleFlow) SetColor(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Color = v
}

// SetYear records the production year.
func (f *VehicleFlow) SetYear(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Year = v
}

func (f *VehicleFlow) begin(s Step) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepIdle {
		return 0, busy(f.step)
	}
	f.step = s

	return f.editSeq, nil
}

func (f *VehicleFlow) finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepIdle
}

// Recognize submits a plate photograph and, on success, fills the plate
// fields from the mapped result. A response arriving after the plate was
// edited is discarded.
func (f *VehicleFlow) Recognize(ctx context.Context, filename string, image io.Reader) (*domain.RecognitionResult, error) {
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
	f.preview = result

	return result, nil
}

// Submit validates the draft locally and registers the vehicle. Validation
// failures never reach the network; on success the flow resets to a fresh
// draft for the same owner.
func (f *VehicleFlow) Submit(ctx context.Context) (*domain.Vehicle, error) {
	f.mu.Lock()
	draft := f.draft
	f.mu.Unlock()

	if err := ValidateVehicle(draft); err != nil {
		return nil, err
	}

	if _, err := f.begin(StepSubmitting); err != nil {
		return nil, err
	}
	defer f.finish()

	vehicle, err := f.client.CreateVehicle(ctx, draft)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = domain.VehicleDraft{OwnerID: draft.OwnerID}
	f.mode = ModeNone
	f.preview = nil
	f.editSeq++

	return vehicle, nil
}
