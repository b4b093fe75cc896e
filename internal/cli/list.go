package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/tpick/internal/app"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the templates of the catalog",
	Long: `Print every template of the configured catalog without prompting.

Examples:
  tpick list
  tpick list --json
  tpick --catalog ./my-templates list`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// List command flags
var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}

// listedEntry is the JSON shape of one catalog entry.
type listedEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Path        string `json:"path"`
}

func runList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	runner := newRunner(cmd.ErrOrStderr())
	if listJSON {
		runner = nil
	}

	a, err := app.New(loadedConfig, app.Options{Runner: runner})
	if err != nil {
		return err
	}
	entries, err := a.List(cmd.Context())
	if err != nil {
		return err
	}

	if listJSON {
		listed := make([]listedEntry, 0, len(entries))
		for _, e := range entries {
			listed = append(listed, listedEntry{ID: e.ID, Name: e.DisplayName, Description: e.Description, Path: e.SourcePath})
		}
		data, err := json.MarshalIndent(listed, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(entries) == 0 {
		printWarning(out, fmt.Sprintf("Catalog %s lists no templates", a.Location().String()))
		return nil
	}
	printInfo(out, styleHeader.Render(fmt.Sprintf("Templates in %s", a.Location().String())))
	fmt.Fprint(out, formatEntries(entries))
	return nil
}
