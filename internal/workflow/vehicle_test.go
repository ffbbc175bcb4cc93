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

func TestVehicleFlowSubmit(t *testing.T) {
	t.Parallel()

	fill := func(f *workflow.VehicleFlow) {
		f.SetRegionPrefix("12")
		f.SetLetter("ب")
		f.SetSequenceNumber("345")
		f.SetCityCode("67")
		f.SetModel("Pride")
		f.SetColor("white")
		f.SetYear("2015")
	}

	t.Run("should register a complete draft for the owner", func(t *testing.T) {
		t.Parallel()

		var created domain.VehicleDraft
		client := &fakeClient{
			createVeh: func(_ context.Context, draft domain.VehicleDraft) (*domain.Vehicle, error) {
				created = draft

				return &domain.Vehicle{ID: "v1"}, nil
			},
		}

		flow := workflow.NewVehicleFlow(client, "own-3")
		flow.SelectManual()
		fill(flow)

		vehicle, err := flow.Submit(context.Background())
		require.NoError(t, err)
		require.Equal(t, "v1", vehicle.ID)
		require.Equal(t, "own-3", created.OwnerID)
		require.Equal(t, wellFormedPlate(), created.Plate)
		require.Equal(t, "Pride", created.Model)
	})

	t.Run("should reset to a fresh draft for the same owner after success", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			createVeh: func(_ context.Context, _ domain.VehicleDraft) (*domain.Vehicle, error) {
				return &domain.Vehicle{ID: "v1"}, nil
			},
		}

		flow := workflow.NewVehicleFlow(client, "own-3")
		flow.SelectManual()
		fill(flow)
		_, err := flow.Submit(context.Background())
		require.NoError(t, err)

		draft := flow.Draft()
		require.Equal(t, "own-3", draft.OwnerID)
		require.True(t, draft.Plate.IsZero())
		require.Empty(t, draft.Model)
		require.Equal(t, workflow.ModeNone, flow.Mode())
	})

	t.Run("should reject an invalid draft without a network call", func(t *testing.T) {
		t.Parallel()

		flow := workflow.NewVehicleFlow(&fakeClient{}, "own-3")
		flow.SelectManual()
		fill(flow)
		flow.SetYear("15")

		_, err := flow.Submit(context.Background())
		require.ErrorIs(t, err, workflow.ErrInvalidYear)
	})

	t.Run("should keep the draft editable after a backend rejection", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			createVeh: func(_ context.Context, _ domain.VehicleDraft) (*domain.Vehicle, error) {
				return nil, serrors.With(serrors.ErrConflict, "plate already registered")
			},
		}

		flow := workflow.NewVehicleFlow(client, "own-3")
		flow.SelectManual()
		fill(flow)

		_, err := flow.Submit(context.Background())
		require.ErrorIs(t, err, serrors.ErrConflict)
		require.Equal(t, "Pride", flow.Draft().Model)
		require.Equal(t, workflow.StepIdle, flow.Step())
	})
}

func TestVehicleFlowRecognition(t *testing.T) {
	t.Parallel()

	t.Run("should fill the plate from a scan", func(t *testing.T) {
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

		flow := workflow.NewVehicleFlow(client, "own-3")
		flow.SelectScan()

		result, err := flow.Recognize(context.Background(), "plate.jpg", strings.NewReader("jpeg"))
		require.NoError(t, err)
		require.Equal(t, "ب", result.Letter)
		require.Equal(t, wellFormedPlate(), flow.Draft().Plate)
	})

	t.Run("should refuse recognition outside scan mode", func(t *testing.T) {
		t.Parallel()

		flow := workflow.NewVehicleFlow(&fakeClient{}, "own-3")

		_, err := flow.Recognize(context.Background(), "plate.jpg", strings.NewReader("jpeg"))
		require.ErrorIs(t, err, serrors.ErrValidation)
	})

	t.Run("should discard a recognition that raced a plate edit", func(t *testing.T) {
		t.Parallel()

		var flow *workflow.VehicleFlow
		client := &fakeClient{
			recognize: func(_ context.Context, _ string, _ io.Reader) (*domain.RecognitionResult, error) {
				flow.SetCityCode("99")

				return &domain.RecognitionResult{
					RegionPrefix:   "12",
					Letter:         "be",
					SequenceNumber: "345",
					CityCode:       "67",
				}, nil
			},
		}
		flow = workflow.NewVehicleFlow(client, "own-3")
		flow.SelectScan()

		_, err := flow.Recognize(context.Background(), "plate.jpg", strings.NewReader("jpeg"))
		require.ErrorIs(t, err, workflow.ErrStaleResponse)
		require.Equal(t, "99", flow.Draft().Plate.CityCode)
	})
}
