package provider

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/model"
)

// LocalProvider implements Provider for a catalog checked out on disk.
type LocalProvider struct {
	// FS overrides the filesystem rooted at ref.URL. Used by tests.
	FS billy.Filesystem
}

// NewLocalProvider creates a new local filesystem provider.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

// Name returns the provider name.
func (p *LocalProvider) Name() string {
	return "local"
}

func (p *LocalProvider) fs(ref model.TemplateRef) billy.Filesystem {
	if p.FS != nil {
		return p.FS
	}
	return osfs.New(ref.URL, osfs.WithBoundOS())
}

// ReadFile reads a single file relative to ref.Path.
func (p *LocalProvider) ReadFile(ctx context.Context, ref model.TemplateRef, name string, maxBytes int64) ([]byte, error) {
	rel := path.Join(ref.Path, name)
	display := ref.WithPath(name).String()
	debug.Debug("[local] Reading %s", display)

	f, err := p.fs(ref).Open("/" + rel)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError(p.Name(), display, fmt.Sprintf("file %q not found", rel))
		}
		return nil, NewFetchError(p.Name(), display, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, NewFetchError(p.Name(), display, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, &model.SizeLimitError{Kind: model.LimitBytes, Limit: maxBytes, Path: name}
	}
	return data, nil
}

// Fetch walks b.Root() and adds every regular file. Symlinks are not followed.
func (p *LocalProvider) Fetch(ctx context.Context, ref model.TemplateRef, b *model.TreeBuilder) error {
	fsys := p.fs(ref)
	display := ref.String()
	start := "/" + b.Root()

	info, err := fsys.Lstat(start)
	if err != nil || !info.IsDir() {
		debug.Debug("[local] Template root %s unusable: %v", start, err)
		return NewNotFoundError(p.Name(), display, fmt.Sprintf("template path %q not found", b.Root()))
	}

	return util.Walk(fsys, start, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return NewFetchError(p.Name(), display, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(filepath.ToSlash(name), "/")
		if !info.Mode().IsRegular() {
			debug.Debug("[local] Skipping non-regular entry %s", rel)
			return nil
		}

		f, err := fsys.Open(name)
		if err != nil {
			return NewFetchError(p.Name(), display, fmt.Errorf("failed to open %s: %w", rel, err))
		}
		defer f.Close()

		return b.AddReader(rel, f, info.Mode()&0111 != 0)
	})
}
