package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
	"github.com/forensicartifacts/artifacts/pkg/writer"
)

func newShowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print the definitions with the given name or alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := loadRegistry(cmd, v, nil)
			if err != nil {
				return err
			}

			name := args[0]
			var definitions []*artifacts.ArtifactDefinition
			if definition := reg.GetDefinitionByName(name); definition != nil {
				definitions = append(definitions, definition)
			} else {
				definitions = reg.GetDefinitionsByAlias(name)
			}
			if len(definitions) == 0 {
				return fmt.Errorf("artifact definition %s: %w", name, artifacts.ErrNotFound)
			}

			return writer.WriteDefinitions(cmd.OutOrStdout(), definitions)
		},
	}
}
