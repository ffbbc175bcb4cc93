package main

import (
	"context"
	"fmt"

	"patrol/internal/config"
	"patrol/pkg/domain"
	"patrol/pkg/logger"
	"patrol/pkg/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// persistSession stores the freshly issued token, then resolves the account
// identity so later commands know the caller's id and role without another
// round trip.
func persistSession(ctx context.Context, b *backend, token string) session.State {
	st := session.State{Token: token}
	if err := b.session.Save(st); err != nil {
		logger.Fatal(ctx, "could not save session state", zap.Error(err))
	}

	user, err := b.api.UserInfo(ctx)
	if err != nil {
		logger.Fatal(ctx, "could not fetch account info", zap.Error(err))
	}

	st.UserID = user.ID
	st.Role = user.Role
	if err := b.session.Save(st); err != nil {
		logger.Fatal(ctx, "could not save session state", zap.Error(err))
	}

	return st
}

func registrationFromFlags(cmd *cobra.Command) domain.Registration {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)

		return v
	}

	return domain.Registration{
		Username:   get("username"),
		Password:   get("password"),
		FirstName:  get("fname"),
		LastName:   get("lname"),
		NationalID: get("national-id"),
		UserType:   get("role"),
		Phone:      get("phone"),
		Address:    get("address"),
		PostalCode: get("postal-code"),
	}
}

// loginCommand constructs the 'login' subcommand that exchanges credentials
// for a session token and persists it locally.
func loginCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Logs into the violations backend and stores the session",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")

			b := getBackend(cfg)
			token, err := b.api.Login(ctx, username, password)
			if err != nil {
				logger.Fatal(ctx, "login failed", zap.Error(err))
			}

			st := persistSession(ctx, b, token)
			fmt.Printf("logged in as %s (%s)\n", username, st.Role) //nolint: forbidigo
		},
	}

	cmd.Flags().StringP("username", "u", "", "Account username")
	cmd.Flags().StringP("password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// registerCommand constructs the 'register' subcommand that creates a new
// owner or officer account and logs it in.
func registerCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Creates a new account and stores its session",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			reg := registrationFromFlags(cmd)

			b := getBackend(cfg)
			token, err := b.api.Register(ctx, reg)
			if err != nil {
				logger.Fatal(ctx, "registration failed", zap.Error(err))
			}

			st := persistSession(ctx, b, token)
			fmt.Printf("registered %s (%s)\n", reg.Username, st.Role) //nolint: forbidigo
		},
	}

	cmd.Flags().StringP("username", "u", "", "Account username")
	cmd.Flags().StringP("password", "p", "", "Account password, at least 6 characters")
	cmd.Flags().String("fname", "", "First name")
	cmd.Flags().String("lname", "", "Last name")
	cmd.Flags().String("national-id", "", "National id, 10 digits")
	cmd.Flags().String("role", "owner", "Account role, 'owner' or 'officer'")
	cmd.Flags().String("phone", "", "Phone number, 11 digits")
	cmd.Flags().String("address", "", "Postal address")
	cmd.Flags().String("postal-code", "", "Postal code")
	for _, name := range []string{"username", "password", "fname", "lname", "national-id", "phone", "address", "postal-code"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// logoutCommand constructs the 'logout' subcommand that discards the local
// session state. The backend keeps no server-side session to revoke.
func logoutCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discards the stored session",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			if err := b.session.Clear(); err != nil {
				logger.Fatal(ctx, "could not clear session state", zap.Error(err))
			}

			fmt.Println("logged out") //nolint: forbidigo
		},
	}
}

// whoamiCommand constructs the 'whoami' subcommand that prints the
// authenticated account, including an owner's registered vehicles.
func whoamiCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Shows the authenticated account",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			b := getBackend(cfg)
			b.currentUser(ctx)

			user, err := b.api.UserInfo(ctx)
			if err != nil {
				logger.Fatal(ctx, "could not fetch account info", zap.Error(err))
			}

			fmt.Printf("%s %s (@%s), %s\n", user.FirstName, user.LastName, user.Username, user.Role) //nolint: forbidigo
			for _, v := range user.Vehicles {
				fmt.Printf("  vehicle %s: %s %s, plate %s\n", v.ID, v.Color, v.Model, v.PlateRecord.String()) //nolint: forbidigo
			}
		},
	}
}
