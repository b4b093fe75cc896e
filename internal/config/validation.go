package config

import (
	"fmt"

	"github.com/tacogips/tpick/internal/template/materializer"
	"github.com/tacogips/tpick/internal/template/model"
	"github.com/tacogips/tpick/internal/template/provider"
)

// maxRetries caps network.retries.
const maxRetries = 10

// Validate validates the global configuration.
func Validate(config *Config) error {
	if config.Catalog.Location == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "catalog.location", "catalog location is required")
	}
	if _, err := provider.ParseLocation(config.Catalog.Location); err != nil {
		return &ConfigError{
			Type:    ConfigValidationFailed,
			Field:   "catalog.location",
			Message: fmt.Sprintf("invalid catalog location %q", config.Catalog.Location),
			Cause:   err,
		}
	}
	if config.Catalog.Index == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "catalog.index", "index file name is required")
	}
	if _, err := model.ValidateRelPath(config.Catalog.Index); err != nil {
		return &ConfigError{
			Type:    ConfigValidationFailed,
			Field:   "catalog.index",
			Message: "index file must be a relative path inside the catalog",
			Cause:   err,
		}
	}

	if config.Network.Timeout < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "network.timeout", "timeout cannot be negative")
	}
	if config.Network.Retries < 0 || config.Network.Retries > maxRetries {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "network.retries",
			fmt.Sprintf("retries must be between 0 and %d", maxRetries))
	}

	if config.Limits.MaxBytes <= 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "limits.max_bytes", "max bytes must be positive")
	}
	if config.Limits.MaxFiles <= 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "limits.max_files", "max files must be positive")
	}

	if _, err := materializer.ParsePolicy(config.Materialize.Conflict); err != nil {
		return &ConfigError{
			Type:    ConfigValidationFailed,
			Field:   "materialize.conflict",
			Message: "invalid conflict policy",
			Cause:   err,
		}
	}
	return nil
}
