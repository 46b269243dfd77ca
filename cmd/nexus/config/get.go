package configcmder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/pkg/cliui"
	"github.com/papercomputeco/nexus/pkg/config"
)

const getLongDesc string = `Print one configuration value from .nexus/config.toml.

Keys are dotted: the TOML section, then the field.

Examples:
  nexus config get snapshot.path
  nexus config get navigation.page_size`

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             "Print a configuration value",
		Long:              getLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := checkKey(key); err != nil {
				return err
			}

			cfger, err := openConfiger(cmd)
			if err != nil {
				return err
			}
			printTarget(cmd, cfger.GetTarget())

			value, err := cfger.GetConfigValue(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n\n", cliui.KeyStyle.Render(key), styledValue(value, false))
			return nil
		},
	}
}

func openConfiger(cmd *cobra.Command) (*config.Configer, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfger, nil
}

// checkKey rejects unknown keys, listing the keys of the same section when
// the section exists.
func checkKey(key string) error {
	if config.IsValidConfigKey(key) {
		return nil
	}

	section, _, _ := strings.Cut(key, ".")
	var siblings []string
	for _, k := range config.ValidConfigKeys() {
		if strings.HasPrefix(k, section+".") {
			siblings = append(siblings, k)
		}
	}
	if len(siblings) > 0 {
		return fmt.Errorf("unknown config key: %q\n\nKeys in [%s]: %s", key, section, strings.Join(siblings, ", "))
	}
	return fmt.Errorf("unknown config key: %q\n\nSections: %s", key, strings.Join(sections(), ", "))
}

// sections returns the TOML sections holding config keys, in key order.
func sections() []string {
	var out []string
	for _, k := range config.ValidConfigKeys() {
		section, _, _ := strings.Cut(k, ".")
		if !slices.Contains(out, section) {
			out = append(out, section)
		}
	}
	return out
}

func completeKey(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
}

// styledValue renders a config value, or a dimmed placeholder when unset.
func styledValue(value string, quoted bool) string {
	switch {
	case value == "":
		return cliui.DimStyle.Render("<not set>")
	case quoted:
		return cliui.ValueStyle.Render(fmt.Sprintf("%q", value))
	default:
		return cliui.ValueStyle.Render(value)
	}
}

func printTarget(cmd *cobra.Command, target string) {
	out := cmd.OutOrStdout()
	if target == "" {
		fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
		return
	}
	fmt.Fprintf(out, "\n  %s %s\n\n", cliui.KeyStyle.Render("Config file:"), cliui.DimStyle.Render(target))
}
