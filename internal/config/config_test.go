package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateXDG points the default config path at an empty directory.
func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	isolateXDG(t)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_DefaultPathUnderXDG(t *testing.T) {
	dir := isolateXDG(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tpick"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tpick", "config.yaml"),
		[]byte("materialize:\n  conflict: overwrite\n"), 0644))

	assert.Equal(t, filepath.Join(dir, "tpick", "config.yaml"), DefaultConfigPath())

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "overwrite", cfg.Materialize.Conflict)
}

func TestLoad_YAMLFile(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, "config.yaml", `
catalog:
  location: ./my-templates
  index: index.yaml
network:
  timeout: 5s
  retries: 0
limits:
  max_files: 10
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./my-templates", cfg.Catalog.Location)
	assert.Equal(t, "index.yaml", cfg.Catalog.Index)
	assert.Equal(t, DefaultStripPrefix, cfg.Catalog.StripPrefix)
	assert.Equal(t, 5*time.Second, cfg.Network.Timeout)
	assert.Equal(t, 0, cfg.Network.Retries)
	assert.Equal(t, 10, cfg.Limits.MaxFiles)
	assert.Equal(t, DefaultConfig().Limits.MaxBytes, cfg.Limits.MaxBytes)
}

func TestLoad_JSONFile(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, "config.json", `{"catalog": {"location": "github:owner/repo@v1"}}`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "github:owner/repo@v1", cfg.Catalog.Location)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateXDG(t)
	path := writeConfig(t, "config.yaml", "catalog:\n  location: ./from-file\n")
	t.Setenv("TPICK_CATALOG_LOCATION", "github:env/override")
	t.Setenv("TPICK_NETWORK_RETRIES", "4")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "github:env/override", cfg.Catalog.Location)
	assert.Equal(t, 4, cfg.Network.Retries)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	isolateXDG(t)
	t.Setenv("TPICK_MATERIALIZE_CONFLICT", "overwrite")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("conflict", "", "")
	require.NoError(t, flags.Parse([]string{"--conflict", "fail"}))

	l := NewLoader()
	require.NoError(t, l.BindFlag("materialize.conflict", flags.Lookup("conflict")))
	require.NoError(t, l.BindFlag("unused", nil))

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "fail", cfg.Materialize.Conflict)
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	isolateXDG(t)
	t.Setenv("TPICK_MATERIALIZE_CONFLICT", "overwrite")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("conflict", "", "")
	require.NoError(t, flags.Parse(nil))

	l := NewLoader()
	require.NoError(t, l.BindFlag("materialize.conflict", flags.Lookup("conflict")))

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "overwrite", cfg.Materialize.Conflict)
}

func TestLoad_Errors(t *testing.T) {
	isolateXDG(t)

	t.Run("explicit file missing", func(t *testing.T) {
		_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, ConfigNotFound, cfgErr.Type)
	})

	t.Run("syntax error", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "catalog: [unclosed\n")
		_, err := NewLoader().Load(path)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, ConfigInvalid, cfgErr.Type)
	})

	t.Run("validation error names file and field", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "materialize:\n  conflict: merge\n")
		_, err := NewLoader().Load(path)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, ConfigValidationFailed, cfgErr.Type)
		assert.Equal(t, "materialize.conflict", cfgErr.Field)
		assert.Equal(t, path, cfgErr.File)
		assert.Contains(t, err.Error(), "[field: materialize.conflict]")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty location", func(c *Config) { c.Catalog.Location = "" }, "catalog.location"},
		{"bad location", func(c *Config) { c.Catalog.Location = "github:owner" }, "catalog.location"},
		{"empty index", func(c *Config) { c.Catalog.Index = "" }, "catalog.index"},
		{"escaping index", func(c *Config) { c.Catalog.Index = "../index.json" }, "catalog.index"},
		{"negative timeout", func(c *Config) { c.Network.Timeout = -time.Second }, "network.timeout"},
		{"too many retries", func(c *Config) { c.Network.Retries = 11 }, "network.retries"},
		{"zero max bytes", func(c *Config) { c.Limits.MaxBytes = 0 }, "limits.max_bytes"},
		{"zero max files", func(c *Config) { c.Limits.MaxFiles = 0 }, "limits.max_files"},
		{"bad policy", func(c *Config) { c.Materialize.Conflict = "merge" }, "materialize.conflict"},
	}

	require.NoError(t, Validate(DefaultConfig()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
