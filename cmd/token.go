package main

import (
	"errors"
	"fmt"
	"time"

	"patrol/internal/config"
	"patrol/pkg/logger"
	"patrol/pkg/serrors"
	"patrol/pkg/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tokenCommand constructs the 'token' subcommand that inspects the stored
// session token: its claims, local expiry and, with --remote, whether the
// backend still accepts it. A rejected token is purged from local state.
func tokenCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspects the stored session token",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			remote, _ := cmd.Flags().GetBool("remote")

			b := getBackend(cfg)
			st := b.currentUser(ctx)

			claims, err := b.session.Claims()
			if err != nil {
				logger.Fatal(ctx, "could not parse stored token", zap.Error(err))
			}

			fmt.Printf("subject: %s\n", claims.Subject) //nolint: forbidigo
			if claims.ExpiresAt != nil {
				fmt.Printf("expires: %s\n", claims.ExpiresAt.Format(time.RFC3339)) //nolint: forbidigo
			}
			if session.Expired(st.Token, time.Now()) {
				fmt.Println("status: expired") //nolint: forbidigo

				return
			}

			if !remote {
				fmt.Println("status: valid (not checked with backend)") //nolint: forbidigo

				return
			}

			switch err := b.api.VerifyToken(ctx); {
			case err == nil:
				fmt.Println("status: valid") //nolint: forbidigo
			case errors.Is(err, serrors.ErrSessionExpired):
				if err := b.session.Clear(); err != nil {
					logger.Warn(ctx, "could not clear session state", zap.Error(err))
				}
				fmt.Println("status: rejected by backend, session cleared") //nolint: forbidigo
			default:
				logger.Fatal(ctx, "could not verify token", zap.Error(err))
			}
		},
	}

	cmd.Flags().Bool("remote", false, "Also verify the token with the backend")

	return cmd
}
