package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/tpick/internal/template/model"
)

func buildTree(t *testing.T, files map[string]string, order ...string) *model.Tree {
	t.Helper()
	b, err := model.NewTreeBuilder("", model.Limits{})
	require.NoError(t, err)
	for _, p := range order {
		require.NoError(t, b.Add(p, []byte(files[p]), false))
	}
	return b.Build()
}

func TestApply(t *testing.T) {
	files := map[string]string{
		"flake.nix":                `{ description = "project_name"; }`,
		"src/project_name/main.rs": "fn main() {}",
		"project_name.cabal":       "name: project_name",
		"README.md":                "# project_name\n",
		"assets/logo.png":          "\x89PNG\r\n\x1a\nproject_name",
	}
	tree := buildTree(t, files, "flake.nix", "src/project_name/main.rs", "project_name.cabal", "README.md", "assets/logo.png")

	got, err := Apply(tree, "hello", model.Limits{})
	require.NoError(t, err)

	assert.Equal(t, []string{"flake.nix", "src/hello/main.rs", "hello.cabal", "README.md", "assets/logo.png"}, got.Paths())

	nix, _ := got.Lookup("flake.nix")
	assert.Equal(t, `{ description = "hello"; }`, string(nix.Content))
	cabal, _ := got.Lookup("hello.cabal")
	assert.Equal(t, "name: hello", string(cabal.Content))
	logo, _ := got.Lookup("assets/logo.png")
	assert.Equal(t, files["assets/logo.png"], string(logo.Content))

	// The input tree is left untouched.
	orig, _ := tree.Lookup("flake.nix")
	assert.Equal(t, files["flake.nix"], string(orig.Content))
}

func TestApply_RejectsCollisions(t *testing.T) {
	tree := buildTree(t, map[string]string{"project_name.txt": "a", "demo.txt": "b"}, "project_name.txt", "demo.txt")

	_, err := Apply(tree, "demo", model.Limits{})
	var pathErr *model.PathError
	assert.ErrorAs(t, err, &pathErr)
}

func TestApply_EnforcesLimits(t *testing.T) {
	tree := buildTree(t, map[string]string{"a.txt": "project_name"}, "a.txt")

	_, err := Apply(tree, "a-much-longer-project-name", model.Limits{MaxBytes: 16})
	var limitErr *model.SizeLimitError
	assert.ErrorAs(t, err, &limitErr)
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"my-app", false},
		{"my_app.v2", false},
		{"", true},
		{".", true},
		{"..", true},
		{"a/b", true},
		{`a\b`, true},
		{"c:", true},
		{"tab\there", true},
		{" padded", true},
	}

	for _, tt := range tests {
		err := ValidateProjectName(tt.name)
		if tt.wantErr {
			assert.Error(t, err, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary("main.go", []byte("package main\n")))
	assert.False(t, IsBinary("data.json", []byte(`{"a": 1}`)))
	assert.False(t, IsBinary("empty", nil))
	assert.True(t, IsBinary("blob", []byte{0x00, 0x01, 0x02, 0xff, 0xfe}))
	assert.True(t, IsBinary("font.ttf", []byte("plain looking text")))
}

func TestUses(t *testing.T) {
	plain := buildTree(t, map[string]string{"a.txt": "hi"}, "a.txt")
	assert.False(t, Uses(plain))

	inPath := buildTree(t, map[string]string{"project_name/a.txt": "hi"}, "project_name/a.txt")
	assert.True(t, Uses(inPath))

	inText := buildTree(t, map[string]string{"a.txt": "name = project_name"}, "a.txt")
	assert.True(t, Uses(inText))

	inBinary := buildTree(t, map[string]string{"logo.png": "\x89PNG\r\n\x1a\nproject_name"}, "logo.png")
	assert.False(t, Uses(inBinary))
}
