// Package workflow implements the client-side issuance workflows: plate
// validation, the manual/scan input mode selector, the recognition adapter
// and the two-step verify-then-issue state machine for tickets, plus the
// owner-side vehicle registration flow.
//
// All work is triggered by discrete user actions. Each flow allows a single
// in-flight request per step; a response that arrives after the plate was
// edited is discarded rather than applied.
package workflow

import (
	"context"
	"errors"
	"io"

	"patrol/pkg/domain"
	"patrol/pkg/serrors"
	"patrol/pkg/violations"
)

// Mode is the plate acquisition mode selected by the user.
type Mode int

const (
	// ModeNone means no acquisition mode has been chosen yet.
	ModeNone Mode = iota
	// ModeManual means plate fields are typed in by hand.
	ModeManual
	// ModeScan means plate fields come from a photographed image.
	ModeScan
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeScan:
		return "scan"
	default:
		return "none"
	}
}

// Step is the busy state of a flow. Only one request per flow may be in
// flight at a time.
type Step int

const (
	// StepIdle means no request is outstanding.
	StepIdle Step = iota
	// StepRecognizing means an image is being processed by the recognizer.
	StepRecognizing
	// StepVerifying means the plate is being verified against the backend.
	StepVerifying
	// StepSubmitting means the final create request is in flight.
	StepSubmitting
)

// String implements fmt.Stringer.
func (s Step) String() string {
	switch s {
	case StepRecognizing:
		return "recognizing"
	case StepVerifying:
		return "verifying"
	case StepSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// ErrStaleResponse marks a recognition or verification response that arrived
// after the plate was edited; the result is discarded, never applied.
var ErrStaleResponse = errors.New("plate changed while the request was in flight")

func staleResponse() error {
	return serrors.Wrap(serrors.ErrConflict, ErrStaleResponse, "response discarded")
}

func busy(s Step) error {
	return serrors.With(serrors.ErrBusy, "another request is already %s", s)
}

// recognize submits the image and maps the recognizer's letter through the
// transliteration table. It performs no flow bookkeeping; callers own busy
// and staleness handling.
func recognize(ctx context.Context,
	client violations.Client,
	filename string,
	image io.Reader) (*domain.RecognitionResult, error) {
	result, err := client.RecognizePlate(ctx, filename, image)
	if err != nil {
		return nil, err
	}

	mapped := *result
	mapped.Letter = NativeLetter(result.Letter)

	return &mapped, nil
}
