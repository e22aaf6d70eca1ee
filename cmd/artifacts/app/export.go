package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
	"github.com/forensicartifacts/artifacts/pkg/writer"
)

func newExportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [PATH...]",
		Short: "Write all definitions as a single YAML or JSON document stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString(flagFormat)
			if err != nil {
				return fmt.Errorf("error retrieving %s flag: %w", flagFormat, err)
			}
			if format != formatYAML && format != formatJSON {
				return fmt.Errorf("unsupported format %q, expected %s or %s", format, formatYAML, formatJSON)
			}
			output, err := cmd.Flags().GetString(flagOutput)
			if err != nil {
				return fmt.Errorf("error retrieving %s flag: %w", flagOutput, err)
			}

			reg, cfg, err := loadRegistry(cmd, v, args)
			if err != nil {
				return err
			}
			definitions, err := filterDefinitions(cmd, reg, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() {
					if err := file.Close(); err != nil {
						slog.Warn("Failed to close export file", "path", output, "error", err)
					}
				}()
				out = file
			}

			if err := export(out, format, definitions); err != nil {
				return err
			}
			slog.Info("Exported artifact definitions", "count", len(definitions), "format", format)
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().String(flagFormat, formatYAML, "Output format (yaml or json)")
	cmd.Flags().StringP(flagOutput, "o", "", "Write to this file instead of stdout")
	return cmd
}

func export(w io.Writer, format string, definitions []*artifacts.ArtifactDefinition) error {
	if format == formatYAML {
		return writer.WriteDefinitions(w, definitions)
	}

	dicts := make([]map[string]any, 0, len(definitions))
	for _, definition := range definitions {
		dicts = append(dicts, definition.AsDict())
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dicts); err != nil {
		return fmt.Errorf("failed to write definitions as JSON: %w", err)
	}
	return nil
}
