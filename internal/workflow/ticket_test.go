package workflow_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"patrol/internal/workflow"
	"patrol/pkg/domain"
	"patrol/pkg/serrors"
)

func TestTicketFlowManualIssue(t *testing.T) {
	t.Parallel()

	t.Run("should carry the verified vehicle id into the create request", func(t *testing.T) {
		t.Parallel()

		var created domain.TicketDraft
		client := &fakeClient{
			verifyPlate: func(_ context.Context, plate domain.PlateRecord, officerID string) (string, error) {
				require.Equal(t, wellFormedPlate(), plate)
				require.Equal(t, "off-9", officerID)

				return "v1", nil
			},
			createTicket: func(_ context.Context, draft domain.TicketDraft) (*domain.Ticket, error) {
				created = draft

				return &domain.Ticket{ID: "t1", Status: domain.TicketStatusUnpaid}, nil
			},
		}

		flow := workflow.NewTicketFlow(client, "off-9")
		flow.SelectManual()
		setPlate(flow, wellFormedPlate())

		vehicleID, err := flow.Verify(context.Background())
		require.NoError(t, err)
		require.Equal(t, "v1", vehicleID)
		require.True(t, flow.Verified())

		flow.SetAmount("500000")
		flow.SetViolation("illegal parking")

		ticket, err := flow.Submit(context.Background())
		require.NoError(t, err)
		require.Equal(t, "t1", ticket.ID)
		require.Equal(t, "v1", created.VehicleID)
		require.Equal(t, "off-9", created.OfficerID)
		require.Equal(t, "500000", created.Amount)
		require.Equal(t, wellFormedPlate(), created.Plate)
	})

	t.Run("should reset to a fresh draft for the same officer after success", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			verifyPlate: func(_ context.Context, _ domain.PlateRecord, _ string) (string, error) {
				return "v1", nil
			},
			createTicket: func(_ context.Context, _ domain.TicketDraft) (*domain.Ticket, error) {
				return &domain.Ticket{ID: "t1"}, nil
			},
		}

		flow := workflow.NewTicketFlow(client, "off-9")
		flow.SelectManual()
		setPlate(flow, wellFormedPlate())
		_, err := flow.Verify(context.Background())
		require.NoError(t, err)
		flow.SetAmount("1000")
		flow.SetViolation("speeding")
		_, err = flow.Submit(context.Background())
		require.NoError(t, err)

		draft := flow.Draft()
		require.Equal(t, "off-9", draft.OfficerID)
		require.True(t, draft.Plate.IsZero())
		require.Empty(t, draft.Amount)
		require.False(t, flow.Verified())
		require.Equal(t, workflow.ModeNone, flow.Mode())
	})
}

func TestTicketFlowVerificationGuards(t *testing.T) {
	t.Parallel()

	t.Run("should refuse submission while unverified without a network call", func(t *testing.T) {
		t.Parallel()

		flow := workflow.NewTicketFlow(&fakeClient{}, "off-9")
		flow.SelectManual()
		setPlate(flow, wellFormedPlate())
		flow.SetAmount("1000")
		flow.SetViolation("speeding")

		_, err := flow.Submit(context.Background())
		require.ErrorIs(t, err, workflow.ErrNotVerified)
		require.ErrorIs(t, err, serrors.ErrValidation)
	})

	t.Run("should not verify a malformed plate over the network", func(t *testing.T) {
		t.Parallel()

		flow := workflow.NewTicketFlow(&fakeClient{}, "off-9")
		flow.SelectManual()
		plate := wellFormedPlate()
		plate.SequenceNumber = "3456"
		setPlate(flow, plate)

		_, err := flow.Verify(context.Background())
		require.ErrorIs(t, err, workflow.ErrInvalidSequence)
	})

	t.Run("should reject an invalid amount locally after verification", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			verifyPlate: func(_ context.Context, _ domain.PlateRecord, _ string) (string, error) {
				return "v1", nil
			},
		}

		flow := workflow.NewTicketFlow(client, "off-9")
		flow.SelectManual()
		setPlate(flow, wellFormedPlate())
		_, err := flow.Verify(context.Background())
		require.NoError(t, err)

		flow.SetAmount("abc")
		flow.SetViolation("speeding")

		_, err = flow.Submit(context.Background())
		require.ErrorIs(t, err, workflow.ErrInvalidAmount)
		require.True(t, flow.Verified())
	})

	t.Run("should drop verification when a plate field changes", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			verifyPlate: func(_ context.Context, _ domain.PlateRecord, _ string) (string, error) {
				return "v1", nil
			},
		}

		flow := workflow.NewTicketFlow(client, "off-9")
		flow.SelectManual()
		setPlate(flow, wellFormedPlate())
		_, err := flow.Verify(context.Background())
		require.NoError(t, err)
		require.True(t, flow.Verified())

		flow.SetCityCode("99")
		require.False(t, flow.Verified())
		require.Empty(t, flow.Draft().VehicleID)

		flow.SetAmount("1000")
		flow.SetViolation("speeding")
		_, err = flow.Submit(context.Background())
		require.ErrorIs(t, err, workflow.ErrNotVerified)
	})

	t.Run("should keep verification when a field is set to its current value", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			verifyPlate: func(_ context.Context, _ domain.PlateRecord, _ string) (string, error) {
				return "v1", nil
			},
		}

		flow := workflow.NewTicketFlow(client, "off-9")
		flow.SelectManual()
		setPlate(flow, wellFormedPlate())
		_, err := flow.Verify(context.Background())
		require.NoError(t, err)

		flow.SetCityCode("67")
		require.True(t, flow.Verified())
	})

	t.Run("should discard a verification that raced a plate edit", func(t *testing.T) {
		t.Parallel()

		var flow *workflow.TicketFlow
		client := &fakeClient{
			verifyPlate: func(_ context.Context, _ domain.PlateRecord, _ string) (string, error) {
				// Edit lands while the request is in flight.
				flow.SetCityCode("99")

				return "v1", nil
			},
		}
		flow = workflow.NewTicketFlow(client, "off-9")

		flow.SelectManual()
		setPlate(flow, wellFormedPlate())

		_, err := flow.Verify(context.Background())
		require.ErrorIs(t, err, workflow.ErrStaleResponse)
		require.ErrorIs(t, err, serrors.ErrConflict)
		require.False(t, flow.Verified())
		require.Empty(t, flow.Draft().VehicleID)
	})
}

func TestTicketFlowRecognition(t *testing.T) {
	t.Parallel()

	image := func() io.Reader { return strings.NewReader("jpeg-bytes") }

	t.Run("should fill the plate with the transliterated letter", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			recognize: func(_ context.Context, filename string, _ io.Reader) (*domain.RecognitionResult, error) {
				require.Equal(t, "plate.jpg", filename)

				return &domain.RecognitionResult{
					RegionPrefix:   "12",
					Letter:         "be",
					SequenceNumber: "345",
					CityCode:       "67",
				}, nil
			},
		}

		flow := workflow.NewTicketFlow(client, "off-9")
		flow.SelectScan()

		result, err := flow.Recognize(context.Background(), "plate.jpg", image())
		require.NoError(t, err)
		require.Equal(t, "ب", result.Letter)
		require.Equal(t, wellFormedPlate(), flow.Draft().Plate)
		require.False(t, flow.Verified())
		require.NotNil(t, flow.Preview())
	})

	t.Run("should refuse recognition outside scan mode", func(t *testing.T) {
		t.Parallel()

		flow := workflow.NewTicketFlow(&fakeClient{}, "off-9")
		flow.SelectManual()

		_, err := flow.Recognize(context.Background(), "plate.jpg", image())
		require.ErrorIs(t, err, serrors.ErrValidation)
	})

	t.Run("should not apply a failed recognition", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			recognize: func(_ context.Context, _ string, _ io.Reader) (*domain.RecognitionResult, error) {
				return nil, serrors.With(serrors.ErrAmbiguousDetection, "two plates detected")
			},
		}

		flow := workflow.NewTicketFlow(client, "off-9")
		flow.SelectScan()

		_, err := flow.Recognize(context.Background(), "plate.jpg", image())
		require.ErrorIs(t, err, serrors.ErrAmbiguousDetection)
		require.True(t, flow.Draft().Plate.IsZero())
	})

	t.Run("should drop verification when recognition replaces the plate", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			verifyPlate: func(_ context.Context, _ domain.PlateRecord, _ string) (string, error) {
				return "v1", nil
			},
			recognize: func(_ context.Context, _ string, _ io.Reader) (*domain.RecognitionResult, error) {
				return &domain.RecognitionResult{
					RegionPrefix:   "88",
					Letter:         "sin",
					SequenceNumber: "111",
					CityCode:       "22",
				}, nil
			},
		}

		flow := workflow.NewTicketFlow(client, "off-9")
		flow.SelectManual()
		setPlate(flow, wellFormedPlate())
		_, err := flow.Verify(context.Background())
		require.NoError(t, err)

		flow.SelectScan()
		_, err = flow.Recognize(context.Background(), "plate.jpg", image())
		require.NoError(t, err)
		require.False(t, flow.Verified())
		require.Empty(t, flow.Draft().VehicleID)
	})
}

func TestTicketFlowModeToggle(t *testing.T) {
	t.Parallel()

	t.Run("should keep entered plate fields across mode switches", func(t *testing.T) {
		t.Parallel()

		flow := workflow.NewTicketFlow(&fakeClient{}, "off-9")
		flow.SelectManual()
		setPlate(flow, wellFormedPlate())

		flow.SelectScan()
		flow.SelectManual()
		require.Equal(t, wellFormedPlate(), flow.Draft().Plate)
	})

	t.Run("should clear only the recognition preview on switch to manual", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			recognize: func(_ context.Context, _ string, _ io.Reader) (*domain.RecognitionResult, error) {
				return &domain.RecognitionResult{
					RegionPrefix:   "12",
					Letter:         "be",
					SequenceNumber: "345",
					CityCode:       "67",
				}, nil
			},
		}

		flow := workflow.NewTicketFlow(client, "off-9")
		flow.SelectScan()
		_, err := flow.Recognize(context.Background(), "plate.jpg", strings.NewReader("jpeg"))
		require.NoError(t, err)
		require.NotNil(t, flow.Preview())

		flow.SelectManual()
		require.Nil(t, flow.Preview())
		require.Equal(t, wellFormedPlate(), flow.Draft().Plate)
	})
}

func TestTicketFlowSingleFlight(t *testing.T) {
	t.Parallel()

	t.Run("should reject a second verify while one is in flight", func(t *testing.T) {
		t.Parallel()

		var flow *workflow.TicketFlow
		client := &fakeClient{
			verifyPlate: func(ctx context.Context, _ domain.PlateRecord, _ string) (string, error) {
				_, err := flow.Verify(ctx)
				require.ErrorIs(t, err, serrors.ErrBusy)

				return "v1", nil
			},
		}
		flow = workflow.NewTicketFlow(client, "off-9")

		flow.SelectManual()
		setPlate(flow, wellFormedPlate())

		_, err := flow.Verify(context.Background())
		require.NoError(t, err)
	})
}
