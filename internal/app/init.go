package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/tacogips/tpick/internal/catalog"
	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/materializer"
	"github.com/tacogips/tpick/internal/template/model"
	"github.com/tacogips/tpick/internal/template/placeholder"
)

// InitOptions contains options for one materialization run.
type InitOptions struct {
	// Destination is the target directory. Empty asks the prompter, defaulting to ".".
	Destination string
	// NewProject creates a project directory of this name under Destination.
	NewProject string
	// ProjectName replaces project_name tokens. Defaults to NewProject, then
	// the destination base name.
	ProjectName string
	// TemplateID selects an entry without prompting.
	TemplateID string
	// Git initializes a git repository in the destination if none exists.
	Git bool
	// ClearReadme replaces a README.md written by the template with a title line.
	ClearReadme bool
	// DryRun computes the plan without writing anything.
	DryRun bool
}

// InitResult contains the outcome of a run.
type InitResult struct {
	// Entry is the selected catalog entry.
	Entry catalog.Entry
	// Destination is the absolute destination directory.
	Destination string
	// ProjectName is the name substituted into the template.
	ProjectName string
	// Plan is the computed plan.
	Plan *materializer.Plan
	// Report is nil on a dry run.
	Report *materializer.Report
	// GitInitialized is true when a repository was created.
	GitInitialized bool
	// ReadmeCleared is true when README.md was replaced.
	ReadmeCleared bool
}

// Init runs the pipeline once: list, select, fetch, substitute, materialize.
// Failures before materialization leave the destination untouched.
func (a *App) Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	debug.DebugSection("[app] Init workflow start")
	debug.DebugValue("[app] Destination", opts.Destination)
	debug.DebugValue("[app] New project", opts.NewProject)

	if opts.NewProject != "" {
		if err := placeholder.ValidateProjectName(opts.NewProject); err != nil {
			return nil, NewValidationError("invalid project directory name", err)
		}
	}
	if opts.ProjectName != "" {
		if err := placeholder.ValidateProjectName(opts.ProjectName); err != nil {
			return nil, NewValidationError("invalid project name", err)
		}
	}
	policy, err := materializer.ParsePolicy(a.cfg.Materialize.Conflict)
	if err != nil {
		return nil, NewValidationError("invalid conflict policy", err)
	}

	entries, err := a.List(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := a.selectEntry(ctx, entries, opts.TemplateID)
	if err != nil {
		return nil, err
	}
	debug.Debug("[app] Selected %s (%s)", entry.ID, entry.SourcePath)

	dest, err := a.resolveDestination(ctx, opts)
	if err != nil {
		return nil, err
	}
	name := projectName(opts, dest)
	debug.DebugValue("[app] Resolved destination", dest)
	debug.DebugValue("[app] Project name", name)

	var tree *model.Tree
	err = a.run(ctx, fmt.Sprintf("Fetching %s", entry.Label()), func(ctx context.Context) error {
		var err error
		tree, err = a.fetcher.Fetch(ctx, entry)
		return err
	})
	if err != nil {
		return nil, NewFetchError(fmt.Sprintf("failed to fetch template %q", entry.ID), err)
	}

	if placeholder.Uses(tree) {
		tree, err = placeholder.Apply(tree, name, a.cfg.ModelLimits())
		if err != nil {
			return nil, NewSubstitutionError(fmt.Sprintf("failed to apply project name %q", name), err)
		}
	}

	result := &InitResult{Entry: entry, Destination: dest, ProjectName: name}

	m := materializer.New(materializer.Options{Policy: policy, Confirm: a.prompter})
	result.Plan, err = m.Plan(ctx, tree, dest)
	if err != nil {
		return nil, NewMaterializeError("failed to plan materialization", err)
	}
	if opts.DryRun {
		debug.Debug("[app] Dry run, %d files planned", len(result.Plan.Actions))
		return result, nil
	}

	result.Report, err = m.Execute(ctx, result.Plan, tree)
	if err != nil {
		return result, NewMaterializeError("failed to write template", err)
	}

	if opts.ClearReadme && result.Report.Wrote(model.ReadmeFile) {
		if err := clearReadme(dest, name); err != nil {
			return result, NewPostProcessError("failed to clear README", err)
		}
		result.ReadmeCleared = true
	}
	if opts.Git {
		created, err := initGit(dest)
		if err != nil {
			return result, NewPostProcessError("failed to initialize git repository", err)
		}
		result.GitInitialized = created
	}

	return result, nil
}

// selectEntry picks id from entries, or asks the prompter when id is empty.
func (a *App) selectEntry(ctx context.Context, entries []catalog.Entry, id string) (catalog.Entry, error) {
	if len(entries) == 0 {
		return catalog.Entry{}, NewCatalogError("catalog "+a.location.String()+" lists no templates", nil)
	}
	if id != "" {
		for _, e := range entries {
			if e.ID == id {
				return e, nil
			}
		}
		return catalog.Entry{}, NewSelectionError(fmt.Sprintf("template %q not found in catalog", id), nil)
	}
	entry, err := a.prompter.Select(ctx, entries)
	if err != nil {
		return catalog.Entry{}, NewSelectionError("no template selected", err)
	}
	return entry, nil
}

// resolveDestination returns the absolute destination directory. The prompter
// is consulted only when neither a destination nor a new project is given.
func (a *App) resolveDestination(ctx context.Context, opts InitOptions) (string, error) {
	dest := opts.Destination
	if dest == "" && opts.NewProject == "" {
		answer, err := a.prompter.ConfirmDestination(ctx, ".")
		if err != nil {
			return "", NewSelectionError("no destination confirmed", err)
		}
		dest = answer
	}
	if dest == "" {
		dest = "."
	}
	if opts.NewProject != "" {
		dest = filepath.Join(dest, opts.NewProject)
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", NewValidationError("failed to resolve destination", err)
	}
	return abs, nil
}

func projectName(opts InitOptions, dest string) string {
	switch {
	case opts.ProjectName != "":
		return opts.ProjectName
	case opts.NewProject != "":
		return opts.NewProject
	default:
		return filepath.Base(dest)
	}
}
