// Package prompt asks the user which template to use and where to put it.
package prompt

import (
	"context"
	"errors"
	"os"

	"golang.org/x/term"

	"github.com/tacogips/tpick/internal/catalog"
)

// ErrNoSelection is returned when the user aborts: empty input, EOF, or interrupt.
var ErrNoSelection = errors.New("no template selected")

// Prompter collects the interactive decisions of one run.
type Prompter interface {
	// Select lists entries in catalog order and returns the chosen one.
	Select(ctx context.Context, entries []catalog.Entry) (catalog.Entry, error)
	// ConfirmDestination offers def and returns the accepted or overridden path.
	ConfirmDestination(ctx context.Context, def string) (string, error)
	// ConfirmOverwrite asks whether an existing file may be replaced.
	ConfirmOverwrite(ctx context.Context, path string) (bool, error)
}

// New returns a survey prompter when both stdin and stdout are terminals,
// and a line prompter otherwise.
func New(in, out *os.File) Prompter {
	if IsInteractive(in, out) {
		return NewSurveyPrompter(in, out, os.Stderr)
	}
	return NewLinePrompter(in, out)
}

// IsInteractive reports whether in and out are both terminals.
func IsInteractive(in, out *os.File) bool {
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}
