package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tacogips/tpick/internal/catalog"
	"github.com/tacogips/tpick/internal/template/materializer"
)

// Color palette
var (
	colorGreen  = lipgloss.Color("10")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("204")
	colorCyan   = lipgloss.Color("14")
	colorBlue   = lipgloss.Color("12")
)

// Semantic styles
var (
	styleSuccess  = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning  = lipgloss.NewStyle().Foreground(colorYellow)
	styleError    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleNoun     = lipgloss.NewStyle().Foreground(colorCyan)
	styleProgress = lipgloss.NewStyle().Foreground(colorBlue)
	styleDim      = lipgloss.NewStyle().Faint(true)
	styleHeader   = lipgloss.NewStyle().Bold(true)
)

// setColor turns styled output on or off for the whole process.
func setColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// printInfo prints an informational message
func printInfo(w io.Writer, msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(w, msg)
}

// printSuccess prints a success message
func printSuccess(w io.Writer, msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(w, "%s %s\n", styleSuccess.Render("✓"), msg)
}

// printWarning prints a warning message
func printWarning(w io.Writer, msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(w, "%s %s\n", styleWarning.Render("⚠"), msg)
}

// printProgress prints a progress indicator
func printProgress(w io.Writer, msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(w, "%s %s\n", styleProgress.Render("→"), msg)
}

// printErrorMsg prints an error message. Errors are never silenced.
func printErrorMsg(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", styleError.Render("✗"), msg)
}

// formatEntries renders catalog entries as numbered rows with aligned ids.
func formatEntries(entries []catalog.Entry) string {
	width := 0
	for _, e := range entries {
		if len(e.ID) > width {
			width = len(e.ID)
		}
	}

	var sb strings.Builder
	for i, e := range entries {
		pad := strings.Repeat(" ", width-len(e.ID))
		fmt.Fprintf(&sb, "%3d) %s%s  %s\n", i+1, styleNoun.Render(e.ID), pad, e.Label())
	}
	return sb.String()
}

// formatAction renders one planned action for dry runs.
func formatAction(pa materializer.PlannedAction) string {
	var verb string
	switch pa.Action {
	case materializer.ActionCreate:
		verb = styleSuccess.Render(fmt.Sprintf("%-9s", pa.Action))
	case materializer.ActionOverwrite:
		verb = styleWarning.Render(fmt.Sprintf("%-9s", pa.Action))
	default:
		verb = styleDim.Render(fmt.Sprintf("%-9s", pa.Action))
	}
	line := verb + " " + pa.Path
	if pa.Action == materializer.ActionSkip && pa.Reason != "" {
		line += styleDim.Render(" (" + pa.Reason + ")")
	}
	return line
}

// pluralFiles returns "1 file" or "n files".
func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
