// Package app sequences the tpick pipeline: list the catalog, select a
// template, fetch it, and materialize it into a destination.
package app

import (
	"context"
	"os"

	"github.com/tacogips/tpick/internal/catalog"
	"github.com/tacogips/tpick/internal/config"
	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/prompt"
	"github.com/tacogips/tpick/internal/template/fetcher"
	"github.com/tacogips/tpick/internal/template/model"
	"github.com/tacogips/tpick/internal/template/provider"
	"github.com/tacogips/tpick/internal/version"
)

// Runner runs one blocking step of the pipeline. The CLI uses it to show a
// spinner while the step is in flight.
type Runner func(ctx context.Context, title string, step func(ctx context.Context) error) error

// runDirect is the Runner used when none is configured.
func runDirect(ctx context.Context, _ string, step func(ctx context.Context) error) error {
	return step(ctx)
}

// Options wires the collaborators of an App.
type Options struct {
	// Prompter asks the interactive questions. Nil uses prompt.New on stdin/stdout.
	Prompter prompt.Prompter
	// Provider overrides the transport chosen from the catalog location.
	Provider provider.Provider
	// Runner wraps blocking steps. Nil runs them directly.
	Runner Runner
}

// App holds everything one run needs. Nothing is shared between runs.
type App struct {
	cfg      *config.Config
	location model.TemplateRef
	source   *catalog.Source
	fetcher  *fetcher.Fetcher
	prompter prompt.Prompter
	run      Runner
}

// New builds an App for cfg.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	location, err := provider.ParseLocation(cfg.Catalog.Location)
	if err != nil {
		return nil, NewValidationError("invalid catalog location", err)
	}

	p := opts.Provider
	if p == nil {
		token := cfg.Network.Token
		if token == "" {
			token = provider.GetGitHubTokenFromEnv()
		}
		p, err = provider.NewProvider(*location, provider.Options{
			Token:   token,
			Timeout: cfg.Network.Timeout,
			Retries: cfg.Network.Retries,
		})
		if err != nil {
			return nil, NewValidationError("failed to create provider", err)
		}
	}
	debug.Debug("[app] Catalog %s via %s provider", location.String(), p.Name())

	if opts.Prompter == nil {
		opts.Prompter = prompt.New(os.Stdin, os.Stdout)
	}
	if opts.Runner == nil {
		opts.Runner = runDirect
	}

	source := catalog.NewSource(p, *location, catalog.Options{
		IndexFile: cfg.Catalog.Index,
		ParseOptions: catalog.ParseOptions{
			StripPrefix: cfg.Catalog.StripPrefix,
			ToolVersion: version.Version,
		},
	})

	return &App{
		cfg:      cfg,
		location: *location,
		source:   source,
		fetcher:  fetcher.New(p, *location, cfg.ModelLimits()),
		prompter: opts.Prompter,
		run:      opts.Runner,
	}, nil
}

// Location returns the parsed catalog location.
func (a *App) Location() model.TemplateRef {
	return a.location
}

// List returns the catalog entries in source order.
func (a *App) List(ctx context.Context) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	err := a.run(ctx, "Loading catalog", func(ctx context.Context) error {
		var err error
		entries, err = a.source.List(ctx)
		return err
	})
	if err != nil {
		return nil, NewCatalogError("failed to load catalog "+a.location.String(), err)
	}
	debug.Debug("[app] Catalog lists %d templates", len(entries))
	return entries, nil
}
