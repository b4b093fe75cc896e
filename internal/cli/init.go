package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tacogips/tpick/internal/app"
	"github.com/tacogips/tpick/internal/prompt"
	"github.com/tacogips/tpick/internal/template/materializer"
)

// Init flags (registered on the root command)
var (
	initNew         string
	initName        string
	initTemplate    string
	initGit         bool
	initClearReadme bool
	initDryRun      bool
	initForce       bool
	initConflict    string
)

func registerInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&initNew, FlagNew, "n", "", DescNew)
	cmd.Flags().StringVar(&initName, FlagName, "", DescName)
	cmd.Flags().StringVarP(&initTemplate, FlagTemplate, "t", "", DescTemplate)
	cmd.Flags().BoolVar(&initGit, FlagGit, false, DescGit)
	cmd.Flags().BoolVar(&initClearReadme, FlagClearReadme, false, DescClearReadme)
	cmd.Flags().BoolVarP(&initDryRun, FlagDryRun, "d", false, DescDryRun)
	cmd.Flags().BoolVarP(&initForce, FlagForce, "f", false, DescForce)
	cmd.Flags().StringVar(&initConflict, FlagConflict, "", DescConflict)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := loadedConfig
	if initForce {
		if cmd.Flags().Changed(FlagConflict) && initConflict != string(materializer.PolicyOverwrite) {
			return fmt.Errorf("--%s conflicts with --%s %s", FlagForce, FlagConflict, initConflict)
		}
		cfg.Materialize.Conflict = string(materializer.PolicyOverwrite)
	}

	out := cmd.OutOrStdout()
	a, err := app.New(cfg, app.Options{
		Prompter: prompt.New(os.Stdin, os.Stdout),
		Runner:   newRunner(out),
	})
	if err != nil {
		return err
	}

	opts := app.InitOptions{
		NewProject:  initNew,
		ProjectName: initName,
		TemplateID:  initTemplate,
		Git:         initGit,
		ClearReadme: initClearReadme,
		DryRun:      initDryRun,
	}
	if len(args) > 0 {
		opts.Destination = args[0]
	}

	result, err := a.Init(cmd.Context(), opts)
	if err != nil {
		if result != nil && result.Report != nil {
			printReport(cmd, result)
		}
		var fsErr *materializer.FilesystemError
		if errors.As(err, &fsErr) && fsErr.Report != nil && fsErr.Report.Failed != "" {
			printWarning(out, fmt.Sprintf("Stopped at %s; files written before it were kept", fsErr.Report.Failed))
		}
		return err
	}

	if initDryRun {
		printInfo(out, fmt.Sprintf("[DRY RUN] %s into %s", result.Entry.Label(), styleNoun.Render(result.Destination)))
		for _, pa := range result.Plan.Actions {
			printInfo(out, "  "+formatAction(pa))
		}
		printInfo(out, fmt.Sprintf("[DRY RUN] %s to create, %d to overwrite, %d to skip",
			pluralFiles(result.Plan.Count(materializer.ActionCreate)),
			result.Plan.Count(materializer.ActionOverwrite),
			result.Plan.Count(materializer.ActionSkip)))
		return nil
	}

	printReport(cmd, result)
	if result.ReadmeCleared {
		printInfo(out, "README.md cleared")
	}
	if result.GitInitialized {
		printSuccess(out, "Initialized git repository")
	}
	return nil
}

// printReport prints the materialization summary with one line per skipped file.
func printReport(cmd *cobra.Command, result *app.InitResult) {
	out := cmd.OutOrStdout()
	r := result.Report

	for _, pa := range result.Plan.Actions {
		if pa.Action == materializer.ActionSkip && containsPath(r.SkippedPaths, pa.Path) {
			printWarning(out, fmt.Sprintf("Skipped %s (%s)", pa.Path, pa.Reason))
		}
	}

	msg := fmt.Sprintf("Applied %s into %s: %s created",
		styleNoun.Render(result.Entry.ID), styleNoun.Render(result.Destination), pluralFiles(r.Created))
	if r.Overwritten > 0 {
		msg += fmt.Sprintf(", %d overwritten", r.Overwritten)
	}
	if r.Skipped > 0 {
		msg += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	printSuccess(out, msg)
}

func containsPath(paths []string, p string) bool {
	for _, s := range paths {
		if s == p {
			return true
		}
	}
	return false
}
