// Package config provides configuration loading for the artifacts tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

// EnvPrefix is the prefix of environment variables that override configuration
const EnvPrefix = "ARTIFACTS"

// Keys under which overrides are looked up in viper. With EnvPrefix they map
// to ARTIFACTS_DEFINITIONS, ARTIFACTS_STRICT and so on.
const (
	KeyDefinitions      = "definitions"
	KeyStrict           = "strict"
	KeySchemaValidation = "schema_validation"
	KeyLogLevel         = "log_level"
)

var validLogLevels = []string{"", "debug", "info", "warn", "warning", "error"}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path      string
	overrides *viper.Viper
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// WithOverrides applies the values set in v on top of the configuration file.
// Only keys that are explicitly set (environment, changed flags or Set calls)
// take effect.
func WithOverrides(v *viper.Viper) Option {
	return func(cfg *loaderConfig) error {
		if v == nil {
			return fmt.Errorf("viper instance is required")
		}
		cfg.overrides = v
		return nil
	}
}

// NewEnvViper returns a viper instance reading ARTIFACTS_* environment variables
func NewEnvViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Config represents the root configuration structure
type Config struct {
	// Definitions are the files or directories definitions are read from.
	// Relative paths in a configuration file are relative to that file.
	Definitions []string `yaml:"definitions,omitempty"`

	// Strict enables the style checks of the validate command
	Strict bool `yaml:"strict,omitempty"`

	// SchemaValidation validates every record against the definition schema
	SchemaValidation bool `yaml:"schemaValidation,omitempty"`

	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"logLevel,omitempty"`

	// Filter selects the definitions the list and export commands output
	Filter *FilterConfig `yaml:"filter,omitempty"`
}

// FilterConfig defines filtering rules for artifact definitions
type FilterConfig struct {
	Names       *NameFilterConfig `yaml:"names,omitempty"`
	SupportedOS *OSFilterConfig   `yaml:"supportedOS,omitempty"`
}

// NameFilterConfig defines glob patterns matched against definition names
type NameFilterConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// OSFilterConfig defines operating system labels matched against supported_os
type OSFilterConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// LoadConfig loads the configuration from the configured file, if any, and
// applies overrides.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	config := &Config{}
	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		baseDir := filepath.Dir(loaderCfg.path)
		for i, path := range config.Definitions {
			if path != "" && !filepath.IsAbs(path) {
				config.Definitions[i] = filepath.Join(baseDir, path)
			}
		}
	}

	if loaderCfg.overrides != nil {
		config.applyOverrides(loaderCfg.overrides)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (c *Config) applyOverrides(v *viper.Viper) {
	if v.IsSet(KeyDefinitions) {
		switch value := v.Get(KeyDefinitions).(type) {
		case string:
			// Environment values are a path list
			c.Definitions = filepath.SplitList(value)
		default:
			c.Definitions = v.GetStringSlice(KeyDefinitions)
		}
	}
	if v.IsSet(KeyStrict) {
		c.Strict = v.GetBool(KeyStrict)
	}
	if v.IsSet(KeySchemaValidation) {
		c.SchemaValidation = v.GetBool(KeySchemaValidation)
	}
	if v.IsSet(KeyLogLevel) {
		c.LogLevel = v.GetString(KeyLogLevel)
	}
}

func (c *Config) validate() error {
	for i, path := range c.Definitions {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("definitions[%d]: path cannot be empty", i)
		}
	}

	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("logLevel must be one of debug, info, warn or error, got %q", c.LogLevel)
	}

	if c.Filter != nil && c.Filter.SupportedOS != nil {
		labels := slices.Concat(c.Filter.SupportedOS.Include, c.Filter.SupportedOS.Exclude)
		for _, label := range labels {
			if !artifacts.IsSupportedOS(label) {
				return fmt.Errorf("filter.supportedOS: unsupported operating system %q, expected one of %v",
					label, artifacts.SupportedOS)
			}
		}
	}

	return nil
}
