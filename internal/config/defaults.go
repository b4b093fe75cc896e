package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/tacogips/tpick/internal/catalog"
	"github.com/tacogips/tpick/internal/template/materializer"
	"github.com/tacogips/tpick/internal/template/model"
	"github.com/tacogips/tpick/internal/template/provider"
)

// Default catalog settings.
const (
	DefaultLocation    = "github:nulladmin1/nix-flake-templates"
	DefaultStripPrefix = "Nix Flake Template for "
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Location:    DefaultLocation,
			Index:       catalog.DefaultIndexFile,
			StripPrefix: DefaultStripPrefix,
		},
		Network: NetworkConfig{
			Timeout: provider.DefaultTimeout,
			Retries: provider.DefaultRetries,
		},
		Limits: LimitsConfig{
			MaxBytes: model.DefaultMaxBytes,
			MaxFiles: model.DefaultMaxFiles,
		},
		Materialize: MaterializeConfig{
			Conflict: string(materializer.PolicySkip),
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

// defaultValues flattens DefaultConfig into viper keys.
func defaultValues() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"catalog.location":     d.Catalog.Location,
		"catalog.index":        d.Catalog.Index,
		"catalog.strip_prefix": d.Catalog.StripPrefix,
		"network.timeout":      d.Network.Timeout,
		"network.retries":      d.Network.Retries,
		"network.token":        d.Network.Token,
		"limits.max_bytes":     d.Limits.MaxBytes,
		"limits.max_files":     d.Limits.MaxFiles,
		"materialize.conflict": d.Materialize.Conflict,
		"output.color":         d.Output.Color,
		"output.quiet":         d.Output.Quiet,
		"output.debug":         d.Output.Debug,
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "tpick", "config.yaml")
}

// ModelLimits converts the configured limits.
func (c *Config) ModelLimits() model.Limits {
	return model.Limits{MaxBytes: c.Limits.MaxBytes, MaxFiles: c.Limits.MaxFiles}
}
