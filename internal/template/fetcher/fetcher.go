// Package fetcher retrieves one catalog entry's file tree.
package fetcher

import (
	"context"
	"time"

	"github.com/tacogips/tpick/internal/catalog"
	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/model"
	"github.com/tacogips/tpick/internal/template/provider"
)

// Fetcher retrieves template subtrees from the catalog location.
type Fetcher struct {
	provider provider.Provider
	location model.TemplateRef
	limits   model.Limits
}

// New creates a Fetcher reading from location through p.
func New(p provider.Provider, location model.TemplateRef, limits model.Limits) *Fetcher {
	return &Fetcher{
		provider: p,
		location: location,
		limits:   limits.WithDefaults(),
	}
}

// Fetch retrieves the subtree named by entry.SourcePath.
// An unsafe source path is rejected before any network access. No tree is
// returned when a path is rejected or a size limit is exceeded.
func (f *Fetcher) Fetch(ctx context.Context, entry catalog.Entry) (*model.Tree, error) {
	defer debug.Elapsed("[fetcher] fetch "+entry.ID, time.Now())

	sub, err := model.ValidateRelPath(entry.SourcePath)
	if err != nil {
		debug.Debug("[fetcher] Rejected source path %q for %s: %v", entry.SourcePath, entry.ID, err)
		return nil, err
	}
	if sub == "" {
		return nil, &model.PathError{Path: entry.SourcePath, Reason: "empty source path"}
	}

	target := f.location.WithPath(sub)
	b, err := model.NewTreeBuilder(target.Path, f.limits)
	if err != nil {
		return nil, err
	}

	debug.Debug("[fetcher] Fetching %s from %s", entry.ID, target.String())
	if err := f.provider.Fetch(ctx, f.location, b); err != nil {
		return nil, err
	}

	tree := b.Build()
	debug.Debug("[fetcher] Fetched %s: %d files, %d bytes", entry.ID, tree.Len(), tree.TotalBytes)
	return tree, nil
}
