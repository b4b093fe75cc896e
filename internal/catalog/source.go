// Package catalog lists the templates offered by a catalog location.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/model"
	"github.com/tacogips/tpick/internal/template/provider"
)

// DefaultIndexFile is the index file name at the catalog root.
const DefaultIndexFile = "templates.json"

// DefaultMaxIndexBytes bounds the index download.
const DefaultMaxIndexBytes int64 = 1 << 20

// Options configures a Source.
type Options struct {
	// IndexFile is the index path relative to the catalog root.
	IndexFile string
	// MaxIndexBytes bounds the index size.
	MaxIndexBytes int64
	// ParseOptions controls entry presentation.
	ParseOptions
}

// Source reads the catalog index from one location. Nothing is cached across runs.
type Source struct {
	provider provider.Provider
	location model.TemplateRef
	opts     Options
}

// NewSource creates a Source for location read through p.
func NewSource(p provider.Provider, location model.TemplateRef, opts Options) *Source {
	if opts.IndexFile == "" {
		opts.IndexFile = DefaultIndexFile
	}
	if opts.MaxIndexBytes <= 0 {
		opts.MaxIndexBytes = DefaultMaxIndexBytes
	}
	return &Source{provider: p, location: location, opts: opts}
}

// Location returns the catalog location.
func (s *Source) Location() model.TemplateRef {
	return s.location
}

// List fetches and parses the index, returning entries in source order.
func (s *Source) List(ctx context.Context) ([]Entry, error) {
	defer debug.Elapsed("[catalog] list", time.Now())
	debug.Debug("[catalog] Reading %s from %s", s.opts.IndexFile, s.location.String())

	data, err := s.provider.ReadFile(ctx, s.location, s.opts.IndexFile, s.opts.MaxIndexBytes)
	if err != nil {
		var pe *provider.ProviderError
		if errors.As(err, &pe) && pe.Type == provider.ProviderNotFound {
			pe.Message += fmt.Sprintf("; a catalog root needs an index such as the output of `nix flake show --json > %s`", s.opts.IndexFile)
		}
		return nil, err
	}

	entries, err := Parse(data, s.opts.ParseOptions)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Location = s.location.WithPath(s.opts.IndexFile).String()
		}
		return nil, err
	}

	debug.Debug("[catalog] Found %d entries", len(entries))
	return entries, nil
}
