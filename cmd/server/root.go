package main

import (
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/materials/internal/config"
	"github.com/JonMunkholm/materials/internal/logging"
)

// commandContext loads configuration once for whichever command runs.
type commandContext struct {
	once sync.Once
	cfg  *config.Config
	err  error
}

func (c *commandContext) config() (*config.Config, error) {
	c.once.Do(func() {
		c.cfg, c.err = config.Load()
		if c.err != nil {
			return
		}
		logging.Setup(c.cfg.Logging.Level, c.cfg.Logging.Format)
		slog.Debug("configuration loaded", "config", c.cfg.String())
	})
	return c.cfg, c.err
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	serve := newServeCommand(ctx)
	rootCmd := &cobra.Command{
		Use:           "materials",
		Short:         "Reclaimed building materials catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipConfigLoad"] == "true" {
				return nil
			}
			_, err := ctx.config()
			return err
		},
		// Running without a subcommand serves the API.
		RunE: serve.RunE,
	}

	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newResetCommand(ctx))
	rootCmd.AddCommand(newTemplateCommand())
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newKindsCommand())

	return rootCmd
}
