// Package admin provides administrative operations run from the command
// line rather than over HTTP.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ConfirmWord must be typed to confirm a reset.
const ConfirmWord = "RESET"

var (
	// ErrAborted is returned when the operator does not confirm.
	ErrAborted = errors.New("reset aborted")

	// ErrNoTerminal is returned when confirmation is needed but input is a
	// file or pipe rather than a terminal.
	ErrNoTerminal = errors.New("confirmation requires a terminal, pass --yes to skip it")
)

// Resetter deletes every material and picture of a catalog.
type Resetter interface {
	ResetCatalog(ctx context.Context) error
}

// ResetCatalog asks the operator on out to type ConfirmWord on in, then
// resets the catalog through r. With assumeYes the prompt is skipped. An
// *os.File input that is not a terminal is refused.
// This is a destructive operation - use with caution.
func ResetCatalog(ctx context.Context, r Resetter, in io.Reader, out io.Writer, assumeYes bool) error {
	if !assumeYes {
		if f, ok := in.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return ErrNoTerminal
		}
		fmt.Fprintf(out, "This deletes every material and picture. Type %s to continue: ", ConfirmWord)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if strings.TrimSpace(line) != ConfirmWord {
			return ErrAborted
		}
	}

	if err := r.ResetCatalog(ctx); err != nil {
		return fmt.Errorf("reset catalog: %w", err)
	}
	fmt.Fprintln(out, "catalog reset")
	return nil
}
