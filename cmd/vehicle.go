package main

import (
	"fmt"
	"os"
	"path/filepath"

	"patrol/internal/config"
	"patrol/internal/workflow"
	"patrol/pkg/domain"
	"patrol/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func printVehicle(v *domain.Vehicle) {
	fmt.Printf("vehicle %s: %s %s (%s), plate %s\n", v.ID, v.Color, v.Model, v.Year, v.PlateRecord.String()) //nolint: forbidigo
	if v.HasUnpaidTickets {
		fmt.Println("  has unpaid tickets") //nolint: forbidigo
	}
	for i := range v.Tickets {
		t := &v.Tickets[i]
		fmt.Printf("  ticket %s: %s, amount %d, %s\n", t.ID, t.Violation, t.Amount, t.Status) //nolint: forbidigo
	}
}

// addVehicleCommand constructs 'vehicle add': register a vehicle to the
// logged-in owner, with the plate typed in or scanned from an image.
func addVehicleCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Registers a vehicle to the logged-in owner",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			st := b.currentUser(ctx)
			if st.Role != domain.RoleOwner {
				logger.Fatal(ctx, "only owners can register vehicles")
			}

			flow := workflow.NewVehicleFlow(b.api, st.UserID)

			image, _ := cmd.Flags().GetString("image")
			if image == "" {
				flow.SelectManual()
				prefix, _ := cmd.Flags().GetString("prefix")
				letter, _ := cmd.Flags().GetString("letter")
				sequence, _ := cmd.Flags().GetString("sequence")
				city, _ := cmd.Flags().GetString("city")
				flow.SetRegionPrefix(prefix)
				flow.SetLetter(workflow.NativeLetter(letter))
				flow.SetSequenceNumber(sequence)
				flow.SetCityCode(city)
			} else {
				flow.SelectScan()
				f, err := os.Open(image)
				if err != nil {
					logger.Fatal(ctx, "could not open plate image", zap.Error(err))
				}
				defer func() {
					_ = f.Close()
				}()

				if _, err := flow.Recognize(ctx, filepath.Base(image), f); err != nil {
					logger.Fatal(ctx, "plate recognition failed", zap.Error(err))
				}
			}

			model, _ := cmd.Flags().GetString("model")
			color, _ := cmd.Flags().GetString("color")
			year, _ := cmd.Flags().GetString("year")
			flow.SetModel(model)
			flow.SetColor(color)
			flow.SetYear(year)

			vehicle, err := flow.Submit(ctx)
			if err != nil {
				logger.Fatal(ctx, "could not register vehicle", zap.Error(err))
			}

			printVehicle(vehicle)
		},
	}

	cmd.Flags().String("prefix", "", "First two plate digits")
	cmd.Flags().String("letter", "", "Plate letter, native or transliterated (e.g. 'be')")
	cmd.Flags().String("sequence", "", "Three-digit plate serial")
	cmd.Flags().String("city", "", "Two-digit city code")
	cmd.Flags().String("image", "", "Plate photograph to scan instead of typing the plate")
	cmd.Flags().String("model", "", "Vehicle model")
	cmd.Flags().String("color", "", "Vehicle color")
	cmd.Flags().String("year", "", "Production year, 4 digits")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("color")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func removeVehicleCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <vehicle-id>",
		Short: "Removes a registered vehicle without unpaid tickets",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			b.currentUser(ctx)

			if err := b.api.DeleteVehicle(ctx, args[0]); err != nil {
				logger.Fatal(ctx, "could not remove vehicle", zap.Error(err))
			}

			fmt.Println("vehicle removed") //nolint: forbidigo
		},
	}
}

func showVehicleCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <vehicle-id>",
		Short: "Shows a vehicle with its tickets",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			b.currentUser(ctx)

			vehicle, err := b.api.VehicleDetails(ctx, args[0])
			if err != nil {
				logger.Fatal(ctx, "could not fetch vehicle", zap.Error(err))
			}

			printVehicle(vehicle)
		},
	}
}

// vehicleCommand groups the vehicle subcommands.
func vehicleCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicle",
		Short: "Registers and manages the owner's vehicles",
	}

	cmd.AddCommand(
		addVehicleCommand(cfg),
		removeVehicleCommand(cfg),
		showVehicleCommand(cfg),
	)

	return cmd
}
