package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forensicartifacts/artifacts/internal/config"
	"github.com/forensicartifacts/artifacts/internal/filtering"
	"github.com/forensicartifacts/artifacts/internal/schema"
	"github.com/forensicartifacts/artifacts/pkg/artifacts"
	"github.com/forensicartifacts/artifacts/pkg/reader"
	"github.com/forensicartifacts/artifacts/pkg/registry"
	"github.com/forensicartifacts/artifacts/pkg/sources"
)

// errNoDefinitions is returned when neither arguments, flags nor the
// configuration name a definitions path
var errNoDefinitions = errors.New("no definition files or directories given")

// loadConfig loads the configuration file named by --config, if any, with
// flags and ARTIFACTS_* environment variables applied on top
func loadConfig(v *viper.Viper) (*config.Config, error) {
	opts := []config.Option{config.WithOverrides(v)}
	if path := v.GetString(flagConfig); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}

	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.LogLevel != "" {
		level, _ := ParseLogLevel(cfg.LogLevel)
		LogLevel.Set(level)
	}
	return cfg, nil
}

// loadRegistry reads every definitions path into a new registry. Positional
// arguments take precedence over configured paths.
func loadRegistry(cmd *cobra.Command, v *viper.Viper, args []string) (*registry.ArtifactDefinitionsRegistry, *config.Config, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, nil, err
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.Definitions
	}
	if len(paths) == 0 {
		return nil, nil, errNoDefinitions
	}

	registrar := sources.NewBuiltinRegistrar()
	readerOpts := []reader.Option{reader.WithSourceTypeFactory(registrar)}
	if cfg.SchemaValidation {
		validator, err := schema.New()
		if err != nil {
			return nil, nil, err
		}
		readerOpts = append(readerOpts, reader.WithRecordValidator(validator.ValidateRecord))
	}

	r := reader.New(readerOpts...)
	reg := registry.New(registry.WithRegistrar(registrar))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to access %s: %w", path, err)
		}
		if info.IsDir() {
			err = reg.ReadFromDirectory(r, path)
		} else {
			err = reg.ReadFromFile(r, path)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	slog.Debug("Loaded artifact definitions",
		"paths", paths,
		"count", len(reg.GetDefinitions()),
		"command", cmd.Name())
	return reg, cfg, nil
}

// addFilterFlags adds the definition selection flags of list and export
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice(flagInclude, nil, "Only output definitions whose name matches one of these glob patterns")
	cmd.Flags().StringSlice(flagExclude, nil, "Skip definitions whose name matches one of these glob patterns")
	cmd.Flags().String(flagOS, "", "Only output definitions supporting this operating system")
}

// filterDefinitions applies the configured filter, with flags taking
// precedence, to the definitions of reg
func filterDefinitions(
	cmd *cobra.Command,
	reg *registry.ArtifactDefinitionsRegistry,
	cfg *config.Config,
) ([]*artifacts.ArtifactDefinition, error) {
	filter := &config.FilterConfig{}
	if cfg.Filter != nil {
		*filter = *cfg.Filter
	}

	flags := cmd.Flags()
	if flags.Changed(flagInclude) || flags.Changed(flagExclude) {
		names := &config.NameFilterConfig{}
		if filter.Names != nil {
			*names = *filter.Names
		}
		if flags.Changed(flagInclude) {
			names.Include, _ = flags.GetStringSlice(flagInclude)
		}
		if flags.Changed(flagExclude) {
			names.Exclude, _ = flags.GetStringSlice(flagExclude)
		}
		filter.Names = names
	}

	label, err := flags.GetString(flagOS)
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s flag: %w", flagOS, err)
	}
	if label != "" {
		if !artifacts.IsSupportedOS(label) {
			return nil, fmt.Errorf("unsupported operating system %q, expected one of %v", label, artifacts.SupportedOS)
		}
		filter.SupportedOS = &config.OSFilterConfig{Include: []string{label}}
	}

	return filtering.NewDefaultFilterService().ApplyFilters(cmd.Context(), reg.GetDefinitions(), filter)
}
