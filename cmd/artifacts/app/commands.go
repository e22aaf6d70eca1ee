// Package app provides the commands of the artifacts command line tool.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/forensicartifacts/artifacts/internal/config"
	"github.com/forensicartifacts/artifacts/internal/versions"
)

const (
	flagConfig           = "config"
	flagDefinitions      = "definitions"
	flagSchemaValidation = "schema-validation"
	flagStrict           = "strict"
	flagFormat           = "format"
	flagOS               = "os"
	flagInclude          = "include"
	flagExclude          = "exclude"
	flagOutput           = "output"
	flagCheckMin         = "check-min"

	formatJSON = "json"
	formatYAML = "yaml"
)

// LogLevel is the level of the default logger. The configuration file can
// raise or lower it before a command runs.
var LogLevel = new(slog.LevelVar)

// ParseLogLevel maps a level name to a slog.Level. Unknown names map to
// slog.LevelInfo and report false.
func ParseLogLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewRootCmd creates a new root command with all subcommands attached. Every
// call returns an independent command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := config.NewEnvViper()

	rootCmd := &cobra.Command{
		Use:               "artifacts",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Digital forensics artifact definitions tool",
		Long: `artifacts reads, validates and exports YAML artifact definitions that describe
where forensic evidence lives on Windows, Linux, macOS and ESXi systems.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				slog.Error("Error displaying help", "error", err)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagConfig, "", "Path to configuration file (YAML format)")
	flags.StringSliceP(flagDefinitions, "d", nil, "Definition files or directories to read")
	flags.Bool(flagSchemaValidation, false, "Validate every record against the definition schema")
	bindFlag(v, flagConfig, flags.Lookup(flagConfig))
	bindFlag(v, config.KeyDefinitions, flags.Lookup(flagDefinitions))
	bindFlag(v, config.KeySchemaValidation, flags.Lookup(flagSchemaValidation))

	rootCmd.AddCommand(newValidateCmd(v))
	rootCmd.AddCommand(newListCmd(v))
	rootCmd.AddCommand(newShowCmd(v))
	rootCmd.AddCommand(newExportCmd(v))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()

			minimum, err := cmd.Flags().GetString(flagCheckMin)
			if err != nil {
				return fmt.Errorf("error retrieving %s flag: %w", flagCheckMin, err)
			}
			if minimum != "" {
				if err := versions.CheckMinimum(info.Version, minimum); err != nil {
					return err
				}
			}

			format, err := cmd.Flags().GetString(flagFormat)
			if err != nil {
				return fmt.Errorf("error retrieving %s flag: %w", flagFormat, err)
			}

			if format == formatJSON {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("error formatting version info as JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "artifacts %s (commit %s, built %s, %s %s)\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
			return nil
		},
	}
	cmd.Flags().String(flagFormat, "", "Output format (json)")
	cmd.Flags().String(flagCheckMin, "", "Fail unless the version is at least this semantic version")
	return cmd
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		slog.Error("Error binding flag", "flag", flag.Name, "error", err)
	}
}
