package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/tpick/internal/template/model"
)

var localRef = model.TemplateRef{Provider: "local", URL: "/catalog"}

func TestLocalProvider_FetchSubtree(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "templates.json", []byte(`{}`), 0644))
	require.NoError(t, util.WriteFile(fs, "basic/flake.nix", []byte("{ }"), 0644))
	require.NoError(t, util.WriteFile(fs, "basic/scripts/setup.sh", []byte("#!/bin/sh"), 0755))
	require.NoError(t, fs.Symlink("../templates.json", "basic/link.json"))

	p := &LocalProvider{FS: fs}
	b, err := model.NewTreeBuilder("basic", model.Limits{})
	require.NoError(t, err)
	require.NoError(t, p.Fetch(context.Background(), localRef, b))

	tree := b.Build()
	assert.ElementsMatch(t, []string{"flake.nix", "scripts/setup.sh"}, tree.Paths())
	setup, ok := tree.Lookup("scripts/setup.sh")
	require.True(t, ok)
	assert.True(t, setup.Executable)
}

func TestLocalProvider_MissingSubtree(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "basic/flake.nix", []byte("{ }"), 0644))

	p := &LocalProvider{FS: fs}
	b, err := model.NewTreeBuilder("other", model.Limits{})
	require.NoError(t, err)
	assert.True(t, IsNotFound(p.Fetch(context.Background(), localRef, b)))

	b, err = model.NewTreeBuilder("basic/flake.nix", model.Limits{})
	require.NoError(t, err)
	assert.True(t, IsNotFound(p.Fetch(context.Background(), localRef, b)))
}

func TestLocalProvider_ReadFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "templates.json", []byte(`{"templates":{}}`), 0644))
	p := &LocalProvider{FS: fs}

	data, err := p.ReadFile(context.Background(), localRef, "templates.json", 1024)
	require.NoError(t, err)
	assert.Equal(t, `{"templates":{}}`, string(data))

	_, err = p.ReadFile(context.Background(), localRef, "missing.json", 1024)
	assert.True(t, IsNotFound(err))

	_, err = p.ReadFile(context.Background(), localRef, "templates.json", 3)
	var limitErr *model.SizeLimitError
	assert.ErrorAs(t, err, &limitErr)
}

func TestLocalProvider_OnDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tmpl", "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmpl", "a.txt"), []byte("hi"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmpl", "sub", "b.txt"), []byte("there"), 0644))

	ref, err := ParseLocation(dir)
	require.NoError(t, err)

	p := NewLocalProvider()
	b, err := model.NewTreeBuilder("tmpl", model.Limits{})
	require.NoError(t, err)
	require.NoError(t, p.Fetch(context.Background(), *ref, b))

	assert.ElementsMatch(t, []string{"a.txt", "sub/b.txt"}, b.Build().Paths())
}
