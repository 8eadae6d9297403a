package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/materials/internal/admin"
	"github.com/JonMunkholm/materials/internal/config"
	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/database"
)

// adminTimeout bounds the one-shot admin commands.
const adminTimeout = time.Minute

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			if !strings.EqualFold(cfg.Database.Driver, config.DriverPostgres) {
				return errors.New("migrate requires STORE_DRIVER=postgres")
			}

			runCtx, cancel := context.WithTimeout(cmd.Context(), adminTimeout)
			defer cancel()

			pool, err := openPool(runCtx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(runCtx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every material and picture",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}

			runCtx, cancel := context.WithTimeout(cmd.Context(), adminTimeout)
			defer cancel()

			service, closeStore, err := openService(runCtx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			runCtx = core.ContextWithUserName(runCtx, "cli")
			return admin.ResetCatalog(runCtx, service, cmd.InOrStdin(), cmd.OutOrStdout(), yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newTemplateCommand() *cobra.Command {
	var (
		formatFlag string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:         "template",
		Short:       "Write the import template to a file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := core.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = "material-template." + string(format)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			if err := core.WriteImportTemplate(f, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s template to %s\n", format, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "xlsx", "Template format: xlsx or csv")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (default material-template.<format>)")
	return cmd
}
