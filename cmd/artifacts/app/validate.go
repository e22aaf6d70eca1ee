package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forensicartifacts/artifacts/internal/config"
	"github.com/forensicartifacts/artifacts/internal/validators"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [PATH...]",
		Short: "Validate artifact definition files",
		Long: `Validate reads every definition from the given files and directories and
fails on the first malformed definition or on a duplicate name.

With --strict it also reports style issues such as names that are not
CamelCase, invalid reference URLs and artifact groups that reference
undefined artifacts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, cfg, err := loadRegistry(cmd, v, args)
			if err != nil {
				return err
			}

			count := len(reg.GetDefinitions())
			if cfg.Strict {
				issues := validators.Lint(reg)
				for _, issue := range issues {
					fmt.Fprintln(cmd.OutOrStdout(), issue.String())
				}
				if len(issues) > 0 {
					return fmt.Errorf("found %d issues in %d artifact definitions", len(issues), count)
				}
			}

			slog.Info("Validated artifact definitions", "count", count, "strict", cfg.Strict)
			fmt.Fprintf(cmd.OutOrStdout(), "%d artifact definitions are valid\n", count)
			return nil
		},
	}

	cmd.Flags().Bool(flagStrict, false, "Also report style issues")
	bindFlag(v, config.KeyStrict, cmd.Flags().Lookup(flagStrict))
	return cmd
}
