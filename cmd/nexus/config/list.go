package configcmder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/pkg/cliui"
	"github.com/papercomputeco/nexus/pkg/config"
)

const listLongDesc string = `List configuration values by TOML section.

With a section name only that section is shown.

Examples:
  nexus config list
  nexus config list snapshot`

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [section]",
		Short: "List configuration values",
		Long:  listLongDesc,
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return sections(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			only := ""
			if len(args) == 1 {
				only = args[0]
				if !slices.Contains(sections(), only) {
					return fmt.Errorf("unknown config section: %q\n\nSections: %s", only, strings.Join(sections(), ", "))
				}
			}

			cfger, err := openConfiger(cmd)
			if err != nil {
				return err
			}
			printTarget(cmd, cfger.GetTarget())
			return listSections(cmd, cfger, only)
		},
	}
}

func listSections(cmd *cobra.Command, cfger *config.Configer, only string) error {
	out := cmd.OutOrStdout()
	grouped := map[string][]string{}
	for _, key := range config.ValidConfigKeys() {
		section, field, _ := strings.Cut(key, ".")
		grouped[section] = append(grouped[section], field)
	}

	for _, section := range sections() {
		if only != "" && section != only {
			continue
		}
		fields := grouped[section]
		width := 0
		for _, f := range fields {
			width = max(width, len(f))
		}

		fmt.Fprintf(out, "  %s\n", cliui.HeaderStyle.Render("["+section+"]"))
		for _, field := range fields {
			value, err := cfger.GetConfigValue(section + "." + field)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "    %s = %s\n", cliui.KeyStyle.Render(fmt.Sprintf("%-*s", width, field)), styledValue(value, true))
		}
		fmt.Fprintln(out)
	}
	return nil
}
