package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/web"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}

			slog.Info("configuration loaded",
				"port", cfg.Server.Port,
				"store", cfg.Database.Driver,
				"db_max_conns", cfg.Database.MaxConns,
				"import_max_concurrent", cfg.Import.MaxConcurrent,
				"rate_limit_enabled", cfg.Rate.Enabled,
			)

			service, closeStore, err := openService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			server := web.NewServer(service, cfg)

			// Create cancellable context for background jobs
			jobCtx, cancelJobs := context.WithCancel(context.Background())
			defer cancelJobs()

			go service.StartAuditPruner(jobCtx, core.RetentionConfig{
				RetentionDays: cfg.Audit.RetentionDays,
				CheckInterval: cfg.Audit.PruneInterval,
			})

			// Graceful shutdown
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh

				slog.Info("shutting down...")

				// Stop background jobs
				cancelJobs()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()

				// Wait for active imports to complete (with timeout)
				if status := service.ImportLimiterStatus(); status.Active > 0 {
					slog.Info("waiting for imports to complete", "active", status.Active)
					if err := service.WaitForImports(shutdownCtx); err != nil {
						slog.Warn("imports did not complete in time", "error", err)
					} else {
						slog.Info("all imports completed")
					}
				}

				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("shutdown error", "error", err)
				}
			}()

			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
