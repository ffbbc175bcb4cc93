// Package main provides the patrol CLI entrypoint. It wires subcommands
// (login, register, logout, whoami, token, ticket, vehicle), loads
// configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"patrol/internal/config"
	"patrol/pkg/logger"
	"patrol/pkg/session"
	"patrol/pkg/transport"
	"patrol/pkg/violations"
	"patrol/pkg/violations/restapi"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// backend bundles the API client with the session store every command needs.
type backend struct {
	api     violations.Client
	session *session.Store
}

// getBackend creates the session store and the authenticated HTTP client from
// configuration values.
func getBackend(cfg *config.Config) *backend {
	store := session.NewStore(cfg.Session.Path)
	httpClient := transport.NewClient(store, cfg.API.RequestTimeout)

	return &backend{
		api:     restapi.New(httpClient, cfg.API.BaseURL, cfg.API.RecognizerURL),
		session: store,
	}
}

// currentUser loads the stored session identity, failing the command when
// nobody is logged in.
func (b *backend) currentUser(ctx context.Context) session.State {
	st, err := b.session.Load()
	if err != nil {
		logger.Fatal(ctx, "could not read session state", zap.Error(err))
	}
	if st.Token == "" {
		logger.Fatal(ctx, "not logged in, run 'patrol login' first")
	}

	return st
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use: "patrol",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		loginCommand(cfg),
		registerCommand(cfg),
		logoutCommand(cfg),
		whoamiCommand(cfg),
		tokenCommand(cfg),
		ticketCommand(cfg),
		vehicleCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
