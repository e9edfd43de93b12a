package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adewaleolaore/youtube-arsenal/internal/config"
	"github.com/adewaleolaore/youtube-arsenal/internal/logging"
	"github.com/adewaleolaore/youtube-arsenal/internal/pipeline"
	"github.com/adewaleolaore/youtube-arsenal/internal/server"
	"github.com/adewaleolaore/youtube-arsenal/internal/storage"
	"github.com/adewaleolaore/youtube-arsenal/internal/usecase"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Addr = addr
			}
			if err := cfg.ValidateServe(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return serve(cmd, cfg)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides ARSENAL_ADDR)")
	return cmd
}

func serve(cmd *cobra.Command, cfg config.Config) error {
	log := logging.New(cfg.LogLevel, cmd.OutOrStdout())

	store, err := storage.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := store.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin user: %w", err)
		}
	}

	deps, err := pipeline.Deps(cfg, log, store)
	if err != nil {
		return err
	}
	srv := server.New(server.Options{
		Usecase:    usecase.New(deps),
		Users:      store,
		SessionKey: cfg.SessionKey,
		Secure:     cfg.Secure,
		Log:        log,
	})
	return srv.Start(ctx, cfg.Addr)
}
