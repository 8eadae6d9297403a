package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/materials/internal/core"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, errorText(err))
		}
		os.Exit(1)
	}
}

// errorText is the error output of a failed command. Known failures get the
// mapped message and support code on a second line.
func errorText(err error) string {
	if core.IsUserFacing(err) {
		return fmt.Sprintf("Error: %v\n%s", err, core.FormatUserError(err))
	}
	return "Error: " + err.Error()
}
