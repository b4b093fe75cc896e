package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/tpick/internal/catalog"
	"github.com/tacogips/tpick/internal/config"
	"github.com/tacogips/tpick/internal/prompt"
	"github.com/tacogips/tpick/internal/template/materializer"
	"github.com/tacogips/tpick/internal/template/model"
	"github.com/tacogips/tpick/internal/template/provider"
)

// scriptedPrompter answers every question from fixed values.
type scriptedPrompter struct {
	choose    string
	selectErr error
	dest      string
	overwrite bool

	selected  []string
	destAsked []string
	asked     []string
}

func (p *scriptedPrompter) Select(_ context.Context, entries []catalog.Entry) (catalog.Entry, error) {
	for _, e := range entries {
		p.selected = append(p.selected, e.ID)
	}
	if p.selectErr != nil {
		return catalog.Entry{}, p.selectErr
	}
	for _, e := range entries {
		if e.ID == p.choose {
			return e, nil
		}
	}
	return catalog.Entry{}, prompt.ErrNoSelection
}

func (p *scriptedPrompter) ConfirmDestination(_ context.Context, def string) (string, error) {
	p.destAsked = append(p.destAsked, def)
	return p.dest, nil
}

func (p *scriptedPrompter) ConfirmOverwrite(_ context.Context, path string) (bool, error) {
	p.asked = append(p.asked, path)
	return p.overwrite, nil
}

// writeCatalog lays out a local catalog: an index plus one directory per template.
func writeCatalog(t *testing.T, templates map[string]map[string]string) string {
	t.Helper()
	root := t.TempDir()

	index := map[string]interface{}{}
	for id, files := range templates {
		index[id] = map[string]string{
			"description": "Nix Flake Template for " + id,
			"path":        id,
		}
		for rel, content := range files {
			p := filepath.Join(root, id, filepath.FromSlash(rel))
			require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
			require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		}
	}
	data, err := json.Marshal(map[string]interface{}{"templates": index})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, catalog.DefaultIndexFile), data, 0644))
	return root
}

func newTestApp(t *testing.T, catalogDir string, p prompt.Prompter, mutate ...func(*config.Config)) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Catalog.Location = catalogDir
	for _, m := range mutate {
		m(cfg)
	}
	a, err := New(cfg, Options{Prompter: p})
	require.NoError(t, err)
	return a
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInit_NewProject(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{
		"default": {"flake.nix": "{ }"},
		"rust": {
			"flake.nix":               `{ description = "project_name"; }`,
			"src/main.rs":             "fn main() {}",
			"crates/project_name/lib": "// project_name",
		},
	})
	p := &scriptedPrompter{choose: "rust"}
	a := newTestApp(t, dir, p)
	out := t.TempDir()

	result, err := a.Init(context.Background(), InitOptions{Destination: out, NewProject: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "rust", result.Entry.ID)
	assert.Equal(t, "rust", result.Entry.Description)
	assert.Equal(t, filepath.Join(out, "hello"), result.Destination)
	assert.Equal(t, "hello", result.ProjectName)
	assert.Equal(t, 3, result.Report.Created)
	assert.Empty(t, p.destAsked)

	assert.Equal(t, `{ description = "hello"; }`, readFile(t, filepath.Join(out, "hello", "flake.nix")))
	assert.Equal(t, "// hello", readFile(t, filepath.Join(out, "hello", "crates", "hello", "lib")))
	assert.FileExists(t, filepath.Join(out, "hello", "src", "main.rs"))
}

func TestInit_SelectionOrderFollowsIndex(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "a.txt"), []byte("hi"), 0644))
	index := `{"templates": {"zeta": {"path": "b"}, "alpha": {"path": "b2"}, "default": {"path": "b"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(root, catalog.DefaultIndexFile), []byte(index), 0644))

	p := &scriptedPrompter{choose: "zeta"}
	a := newTestApp(t, root, p)

	_, err := a.Init(context.Background(), InitOptions{Destination: t.TempDir()})
	require.NoError(t, err)
	// default aliases zeta's path and is folded away.
	assert.Equal(t, []string{"zeta", "alpha"}, p.selected)
}

func TestInit_PromptsForDestination(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi"}})
	out := t.TempDir()
	p := &scriptedPrompter{choose: "basic", dest: out}
	a := newTestApp(t, dir, p)

	result, err := a.Init(context.Background(), InitOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"."}, p.destAsked)
	assert.Equal(t, out, result.Destination)
	assert.Equal(t, filepath.Base(out), result.ProjectName)
	assert.Equal(t, "hi", readFile(t, filepath.Join(out, "a.txt")))
}

func TestInit_SkipsExistingFiles(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi", "b.txt": "new"}})
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "a.txt"), []byte("mine"), 0644))

	a := newTestApp(t, dir, &scriptedPrompter{choose: "basic"})
	result, err := a.Init(context.Background(), InitOptions{Destination: out})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.Created)
	assert.Equal(t, 1, result.Report.Skipped)
	assert.Equal(t, []string{"a.txt"}, result.Report.SkippedPaths)
	assert.Equal(t, "mine", readFile(t, filepath.Join(out, "a.txt")))
	assert.Equal(t, "new", readFile(t, filepath.Join(out, "b.txt")))
}

func TestInit_AskPolicyUsesPrompter(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi"}})
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "a.txt"), []byte("mine"), 0644))

	p := &scriptedPrompter{choose: "basic", overwrite: true}
	a := newTestApp(t, dir, p, func(c *config.Config) { c.Materialize.Conflict = "ask" })

	result, err := a.Init(context.Background(), InitOptions{Destination: out})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, p.asked)
	assert.Equal(t, 1, result.Report.Overwritten)
	assert.Equal(t, "hi", readFile(t, filepath.Join(out, "a.txt")))
}

func TestInit_SizeLimitWritesNothing(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"big": {"a.txt": "hello world"}})
	a := newTestApp(t, dir, &scriptedPrompter{choose: "big"}, func(c *config.Config) {
		c.Limits.MaxBytes = 4
	})
	out := filepath.Join(t.TempDir(), "out")

	_, err := a.Init(context.Background(), InitOptions{Destination: out})

	var sizeErr *model.SizeLimitError
	require.ErrorAs(t, err, &sizeErr)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, FetchFailed, appErr.Type)
	assert.NoDirExists(t, out)
}

func TestInit_DryRun(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi", "b/c.txt": "x"}})
	out := filepath.Join(t.TempDir(), "out")
	a := newTestApp(t, dir, &scriptedPrompter{choose: "basic"})

	result, err := a.Init(context.Background(), InitOptions{Destination: out, DryRun: true, Git: true})
	require.NoError(t, err)

	assert.Nil(t, result.Report)
	assert.Equal(t, 2, result.Plan.Count(materializer.ActionCreate))
	assert.NoDirExists(t, out)
}

func TestInit_NoSelection(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi"}})
	out := filepath.Join(t.TempDir(), "out")
	a := newTestApp(t, dir, &scriptedPrompter{selectErr: prompt.ErrNoSelection})

	_, err := a.Init(context.Background(), InitOptions{Destination: out})
	require.Error(t, err)
	assert.True(t, errors.Is(err, prompt.ErrNoSelection))
	assert.NoDirExists(t, out)
}

func TestInit_TemplateID(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi"}})
	p := &scriptedPrompter{}
	a := newTestApp(t, dir, p)

	_, err := a.Init(context.Background(), InitOptions{Destination: t.TempDir(), TemplateID: "basic"})
	require.NoError(t, err)
	assert.Empty(t, p.selected)

	_, err = a.Init(context.Background(), InitOptions{Destination: t.TempDir(), TemplateID: "missing"})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, SelectionFailed, appErr.Type)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestInit_ClearReadmeAndGit(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{
		"basic": {"README.md": "# Template docs\n\nlong text\n", "a.txt": "hi"},
	})
	out := t.TempDir()
	a := newTestApp(t, dir, &scriptedPrompter{choose: "basic"})

	result, err := a.Init(context.Background(), InitOptions{
		Destination: out,
		NewProject:  "demo",
		ClearReadme: true,
		Git:         true,
	})
	require.NoError(t, err)

	assert.True(t, result.ReadmeCleared)
	assert.True(t, result.GitInitialized)
	assert.Equal(t, "# demo\n", readFile(t, filepath.Join(out, "demo", "README.md")))

	_, err = git.PlainOpen(filepath.Join(out, "demo"))
	require.NoError(t, err)
}

func TestInit_ClearReadmeKeepsSkippedReadme(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"README.md": "template readme\n"}})
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "README.md"), []byte("user readme\n"), 0644))
	a := newTestApp(t, dir, &scriptedPrompter{choose: "basic"})

	result, err := a.Init(context.Background(), InitOptions{Destination: out, ClearReadme: true})
	require.NoError(t, err)

	assert.False(t, result.ReadmeCleared)
	assert.Equal(t, "user readme\n", readFile(t, filepath.Join(out, "README.md")))
}

func TestInit_GitKeepsExistingRepository(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi"}})
	out := t.TempDir()
	_, err := git.PlainInit(out, false)
	require.NoError(t, err)

	a := newTestApp(t, dir, &scriptedPrompter{choose: "basic"})
	result, err := a.Init(context.Background(), InitOptions{Destination: out, Git: true})
	require.NoError(t, err)
	assert.False(t, result.GitInitialized)
}

func TestInit_InvalidNames(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi"}})
	a := newTestApp(t, dir, &scriptedPrompter{choose: "basic"})

	for _, opts := range []InitOptions{
		{NewProject: "../escape"},
		{NewProject: "a/b"},
		{ProjectName: " padded"},
	} {
		_, err := a.Init(context.Background(), opts)
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, ValidationFailed, appErr.Type)
	}
}

func TestInit_FailPolicyWritesNothing(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi", "b.txt": "x"}})
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "b.txt"), []byte("mine"), 0644))
	a := newTestApp(t, dir, &scriptedPrompter{choose: "basic"}, func(c *config.Config) {
		c.Materialize.Conflict = "fail"
	})

	_, err := a.Init(context.Background(), InitOptions{Destination: out})
	var fsErr *materializer.FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, materializer.FilesystemConflict, fsErr.Type)
	assert.NoFileExists(t, filepath.Join(out, "a.txt"))
}

func TestList(t *testing.T) {
	dir := writeCatalog(t, map[string]map[string]string{"basic": {"a.txt": "hi"}})

	var titles []string
	cfg := config.DefaultConfig()
	cfg.Catalog.Location = dir
	a, err := New(cfg, Options{
		Prompter: &scriptedPrompter{},
		Runner: func(ctx context.Context, title string, step func(context.Context) error) error {
			titles = append(titles, title)
			return step(ctx)
		},
	})
	require.NoError(t, err)

	entries, err := a.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "basic", entries[0].ID)
	assert.Equal(t, []string{"Loading catalog"}, titles)
}

func TestList_MissingCatalog(t *testing.T) {
	a := newTestApp(t, t.TempDir(), &scriptedPrompter{})

	_, err := a.List(context.Background())
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, CatalogFailed, appErr.Type)
	assert.True(t, provider.IsNotFound(err))
}

func TestNew_InvalidLocation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Catalog.Location = "github:owner"
	_, err := New(cfg, Options{Prompter: &scriptedPrompter{}})
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ValidationFailed, appErr.Type)
}
