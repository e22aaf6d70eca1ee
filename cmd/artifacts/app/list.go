package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type listEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"doc,omitempty"`
	SupportedOS []string `json:"supported_os,omitempty"`
}

func newListCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [PATH...]",
		Short: "List artifact definition names",
		Long: `List prints the names of the artifact definitions read from the given files
and directories in the order they were read.

Definitions can be selected by name with --include and --exclude glob patterns
and by operating system with --os. Definitions without supported_os apply to
every operating system. A filter section in the configuration file is applied
when no flag overrides it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString(flagFormat)
			if err != nil {
				return fmt.Errorf("error retrieving %s flag: %w", flagFormat, err)
			}

			reg, cfg, err := loadRegistry(cmd, v, args)
			if err != nil {
				return err
			}
			definitions, err := filterDefinitions(cmd, reg, cfg)
			if err != nil {
				return err
			}

			entries := make([]listEntry, 0, len(definitions))
			for _, definition := range definitions {
				entries = append(entries, listEntry{
					Name:        definition.Name,
					Description: definition.Description,
					SupportedOS: definition.SupportedOS,
				})
			}

			if format == formatJSON {
				output, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return fmt.Errorf("error formatting definitions as JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}

			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry.Name)
			}
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().String(flagFormat, "", "Output format (json)")
	return cmd
}
