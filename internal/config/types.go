// Package config loads tpick settings from file, environment, and flags.
package config

import "time"

// Config represents the global tpick configuration.
type Config struct {
	// Catalog selects where templates are listed from.
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	// Network bounds remote access.
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	// Limits bounds the size of a fetched template.
	Limits LimitsConfig `mapstructure:"limits" yaml:"limits"`
	// Materialize controls how files are written.
	Materialize MaterializeConfig `mapstructure:"materialize" yaml:"materialize"`
	// Output configuration for display and logging.
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// CatalogConfig represents catalog settings.
type CatalogConfig struct {
	// Location is the catalog source (e.g. github:owner/repo, ./dir).
	Location string `mapstructure:"location" yaml:"location"`
	// Index is the index file path relative to the catalog root.
	Index string `mapstructure:"index" yaml:"index"`
	// StripPrefix is removed from template descriptions.
	StripPrefix string `mapstructure:"strip_prefix" yaml:"strip_prefix"`
}

// NetworkConfig represents remote access settings.
type NetworkConfig struct {
	// Timeout bounds each HTTP request and each clone.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// Retries is the number of retries of transient failures.
	Retries int `mapstructure:"retries" yaml:"retries"`
	// Token is the access token for private repositories.
	Token string `mapstructure:"token" yaml:"token,omitempty"`
}

// LimitsConfig represents template size bounds.
type LimitsConfig struct {
	// MaxBytes is the maximum aggregate template size.
	MaxBytes int64 `mapstructure:"max_bytes" yaml:"max_bytes"`
	// MaxFiles is the maximum number of template files.
	MaxFiles int `mapstructure:"max_files" yaml:"max_files"`
}

// MaterializeConfig represents write settings.
type MaterializeConfig struct {
	// Conflict is the policy for existing files: skip, overwrite, ask, or fail.
	Conflict string `mapstructure:"conflict" yaml:"conflict"`
}

// OutputConfig represents output and display settings.
type OutputConfig struct {
	// Color enables colored terminal output.
	Color bool `mapstructure:"color" yaml:"color"`
	// Quiet suppresses non-error output.
	Quiet bool `mapstructure:"quiet" yaml:"quiet"`
	// Debug enables diagnostic logging.
	Debug bool `mapstructure:"debug" yaml:"debug"`
}
