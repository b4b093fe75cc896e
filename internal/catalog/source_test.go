package catalog

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/tpick/internal/template/model"
	"github.com/tacogips/tpick/internal/template/provider"
)

type failingProvider struct {
	provider.LocalProvider
	err error
}

func (p *failingProvider) ReadFile(ctx context.Context, ref model.TemplateRef, name string, maxBytes int64) ([]byte, error) {
	return nil, p.err
}

var location = model.TemplateRef{Provider: "local", URL: "/catalog"}

func TestSource_List(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "index.yaml", []byte("templates:\n  - {id: b, path: b}\n  - {id: a, path: a}\n"), 0644))

	src := NewSource(&provider.LocalProvider{FS: fs}, location, Options{IndexFile: "index.yaml"})
	entries, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(entries))
	assert.Equal(t, location, src.Location())
}

func TestSource_ListFormatErrorNamesLocation(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "templates.json", []byte(`{"templates": [{"id": "x", "path": "x"}, {"id": "x", "path": "y"}]}`), 0644))

	src := NewSource(&provider.LocalProvider{FS: fs}, location, Options{})
	_, err := src.List(context.Background())

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "x", fe.EntryID)
	assert.Equal(t, "/catalog/templates.json", fe.Location)
}

func TestSource_ListPropagatesNetworkErrors(t *testing.T) {
	netErr := provider.NewNetworkError("github", "github.com/o/r", assert.AnError)
	src := NewSource(&failingProvider{err: netErr}, location, Options{})

	_, err := src.List(context.Background())
	assert.True(t, provider.IsNetwork(err))
}

func TestSource_ListMissingIndex(t *testing.T) {
	src := NewSource(&provider.LocalProvider{FS: memfs.New()}, location, Options{})
	_, err := src.List(context.Background())
	assert.True(t, provider.IsNotFound(err))
	assert.Contains(t, err.Error(), "nix flake show --json > templates.json")
}
