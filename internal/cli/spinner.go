package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"

	"github.com/tacogips/tpick/internal/app"
)

// isTTY reports whether f is a terminal.
func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// newRunner returns the app.Runner used by commands: a spinner on a
// terminal, a progress line otherwise, and nothing at all when quiet.
func newRunner(w io.Writer) app.Runner {
	return func(ctx context.Context, title string, step func(ctx context.Context) error) error {
		if globalQuiet {
			return step(ctx)
		}
		if f, ok := w.(*os.File); ok && isTTY(f) && !globalDebug {
			return runWithSpinner(ctx, title, step)
		}
		printProgress(w, title+"...")
		return step(ctx)
	}
}

// runWithSpinner executes step in the background while a spinner runs.
// Returns the step's error if any.
func runWithSpinner(ctx context.Context, title string, step func(ctx context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- step(ctx)
	}()

	var result error
	done := false
	spinnerErr := spinner.New().Title(title + "...").Action(func() {
		select {
		case <-ctx.Done():
		case result = <-errCh:
			done = true
		}
	}).Run()
	if spinnerErr != nil {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}

	if done {
		return result
	}
	// Cancelled while spinning: the step observes ctx and returns promptly.
	return <-errCh
}
