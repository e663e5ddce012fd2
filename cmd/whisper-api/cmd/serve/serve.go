package serve

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"whisper-api/cmd/whisper-api/cmd/setup"
	"whisper-api/internal/app"
)

var (
	host string
	port string
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (overrides HOST)")
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

The speech model is loaded on the first transcription request, not at startup,
so the health endpoint answers immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup.Load(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if host != "" {
			cfg.Server.Host = host
		}
		if port != "" {
			cfg.Server.Port = port
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		srv, err := app.InitializeServer(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := srv.Start()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutdown signal received", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
