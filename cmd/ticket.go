package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"patrol/internal/config"
	"patrol/internal/workflow"
	"patrol/pkg/domain"
	"patrol/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func printTicket(t *domain.Ticket) {
	fmt.Printf("ticket %s (#%s): %s\n", t.ID, t.TicketNumber, t.Status) //nolint: forbidigo
	fmt.Printf("  plate:     %s\n", t.PlateNumber)                      //nolint: forbidigo
	fmt.Printf("  violation: %s\n", t.Violation)                        //nolint: forbidigo
	fmt.Printf("  amount:    %d\n", t.Amount)                           //nolint: forbidigo
	if !t.IssuedAt.IsZero() {
		fmt.Printf("  issued:    %s\n", t.IssuedAt.Format(time.RFC3339)) //nolint: forbidigo
	}
	if t.Officer != nil {
		fmt.Printf("  officer:   %s %s\n", t.Officer.FirstName, t.Officer.LastName) //nolint: forbidigo
	}
}

// acquirePlate feeds the flow's plate either from the manual plate flags or
// by scanning the given image file.
func acquirePlate(ctx context.Context, cmd *cobra.Command, flow *workflow.TicketFlow) {
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

		return
	}

	flow.SelectScan()
	f, err := os.Open(image)
	if err != nil {
		logger.Fatal(ctx, "could not open plate image", zap.Error(err))
	}
	defer func() {
		_ = f.Close()
	}()

	result, err := flow.Recognize(ctx, filepath.Base(image), f)
	if err != nil {
		logger.Fatal(ctx, "plate recognition failed", zap.Error(err))
	}
	logger.Info(ctx, "plate recognized", zap.String("plate", domain.PlateRecord(*result).String()))
}

// issueTicketCommand constructs 'ticket issue': acquire a plate manually or
// from an image, verify it, then submit the ticket.
func issueTicketCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issues a ticket against a plate, typed in or scanned from an image",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			st := b.currentUser(ctx)
			if st.Role != domain.RoleOfficer {
				logger.Fatal(ctx, "only officers can issue tickets")
			}

			flow := workflow.NewTicketFlow(b.api, st.UserID)
			acquirePlate(ctx, cmd, flow)

			vehicleID, err := flow.Verify(ctx)
			if err != nil {
				logger.Fatal(ctx, "plate verification failed", zap.Error(err))
			}
			logger.Info(ctx, "plate verified", zap.String("vehicleId", vehicleID))

			amount, _ := cmd.Flags().GetString("amount")
			violation, _ := cmd.Flags().GetString("violation")
			flow.SetAmount(amount)
			flow.SetViolation(violation)

			ticket, err := flow.Submit(ctx)
			if err != nil {
				logger.Fatal(ctx, "could not issue ticket", zap.Error(err))
			}

			printTicket(ticket)
		},
	}

	cmd.Flags().String("prefix", "", "First two plate digits")
	cmd.Flags().String("letter", "", "Plate letter, native or transliterated (e.g. 'be')")
	cmd.Flags().String("sequence", "", "Three-digit plate serial")
	cmd.Flags().String("city", "", "Two-digit city code")
	cmd.Flags().String("image", "", "Plate photograph to scan instead of typing the plate")
	cmd.Flags().String("amount", "", "Fine amount in rials")
	cmd.Flags().String("violation", "", "Violation description")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("violation")

	return cmd
}

func showTicketCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticket-id>",
		Short: "Shows a single ticket",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			b.currentUser(ctx)

			ticket, err := b.api.TicketByID(ctx, args[0])
			if err != nil {
				logger.Fatal(ctx, "could not fetch ticket", zap.Error(err))
			}

			printTicket(ticket)
		},
	}
}

func cancelTicketCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <ticket-id>",
		Short: "Cancels an unpaid ticket",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			b.currentUser(ctx)

			ticket, err := b.api.CancelTicket(ctx, args[0])
			if err != nil {
				logger.Fatal(ctx, "could not cancel ticket", zap.Error(err))
			}

			printTicket(ticket)
		},
	}
}

func payTicketCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <ticket-id>",
		Short: "Pays an outstanding ticket",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			b.currentUser(ctx)

			ticket, err := b.api.PayTicket(ctx, args[0])
			if err != nil {
				logger.Fatal(ctx, "could not pay ticket", zap.Error(err))
			}

			printTicket(ticket)
		},
	}
}

func listTicketsCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists the tickets issued by the logged-in officer",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			st := b.currentUser(ctx)
			if st.Role != domain.RoleOfficer {
				logger.Fatal(ctx, "only officers have an issued-ticket list")
			}

			list, err := b.api.OfficerTickets(ctx, st.UserID)
			if err != nil {
				logger.Fatal(ctx, "could not list tickets", zap.Error(err))
			}

			fmt.Printf("%d ticket(s)\n", list.Count) //nolint: forbidigo
			for i := range list.Tickets {
				printTicket(&list.Tickets[i])
			}
		},
	}
}

// ticketCommand groups the ticket lifecycle subcommands.
func ticketCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Issues and manages traffic-violation tickets",
	}

	cmd.AddCommand(
		issueTicketCommand(cfg),
		showTicketCommand(cfg),
		cancelTicketCommand(cfg),
		payTicketCommand(cfg),
		listTicketsCommand(cfg),
	)

	return cmd
}
