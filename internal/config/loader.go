package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tacogips/tpick/internal/debug"
)

// Environment variable prefix for tpick configuration.
const envPrefix = "TPICK"

// Loader merges configuration from defaults, a config file, TPICK_* environment
// variables, and bound command-line flags, in increasing precedence.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}

	// TPICK_CATALOG_LOCATION -> catalog.location
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// BindFlag makes a command-line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads configFile and returns the merged, validated configuration.
// An empty configFile means DefaultConfigPath, which may be absent.
// An explicitly named file must exist.
func (l *Loader) Load(configFile string) (*Config, error) {
	explicit := configFile != ""
	if !explicit {
		configFile = DefaultConfigPath()
	}

	l.v.SetConfigFile(configFile)
	if ext := strings.TrimPrefix(filepath.Ext(configFile), "."); ext == "" {
		l.v.SetConfigType("yaml")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		switch {
		case missing && explicit:
			return nil, NewConfigErrorWithCause(ConfigNotFound, configFile, "configuration file not found", err)
		case missing:
			debug.Debug("[config] No config file at %s, using defaults", configFile)
		default:
			return nil, NewConfigErrorWithCause(ConfigInvalid, configFile, "failed to read configuration file", err)
		}
	} else {
		debug.Debug("[config] Loaded %s", configFile)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, configFile, "failed to decode configuration", err)
	}

	if err := Validate(&cfg); err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.File == "" {
			cfgErr.File = configFile
		}
		return nil, err
	}

	debug.DebugValue("catalog.location", cfg.Catalog.Location)
	debug.DebugValue("materialize.conflict", cfg.Materialize.Conflict)
	return &cfg, nil
}
