package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/pkg/cliui"
)

const setLongDesc string = `Write one configuration value to .nexus/config.toml.

The value is checked against the key before the file is written: integers,
durations and edge kinds must parse. List keys take comma separated values.

Examples:
  nexus config set snapshot.driver sqlite
  nexus config set snapshot.reload_interval 30s
  nexus config set navigation.known_types Task,Research,Fact`

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Write a configuration value",
		Long:              setLongDesc,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := checkKey(key); err != nil {
				return err
			}

			cfger, err := openConfiger(cmd)
			if err != nil {
				return err
			}
			printTarget(cmd, cfger.GetTarget())

			if err := cfger.SetConfigValue(key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s Set %s = %s\n\n",
				cliui.SuccessMark, cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
			return nil
		},
	}
}
