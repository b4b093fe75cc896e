// Package provider implements the transports that read a template catalog:
// GitHub archives, git repositories, and local directories.
package provider

import (
	"context"

	"github.com/tacogips/tpick/internal/template/model"
)

// Provider abstracts a catalog source location.
// All paths handed to a TreeBuilder are repository-relative and untrusted.
type Provider interface {
	// ReadFile reads a single file at name, relative to ref.Path.
	// Content beyond maxBytes is an error.
	ReadFile(ctx context.Context, ref model.TemplateRef, name string, maxBytes int64) ([]byte, error)

	// Fetch streams every regular file under b.Root() into b.
	// Returns a ProviderNotFound error when the subtree does not exist.
	Fetch(ctx context.Context, ref model.TemplateRef, b *model.TreeBuilder) error

	// Name returns the provider name (e.g., "github", "git", "local").
	Name() string
}
