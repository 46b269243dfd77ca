// Package configcmder provides the config command for managing persistent
// nexus configuration stored in the .nexus/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent nexus configuration.

Configuration is stored as config.toml in the .nexus/ directory and provides
default values for command flags. CLI flags and NEXUS_ environment variables
always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  snapshot.driver, snapshot.path, snapshot.format, snapshot.dsn,
  snapshot.watch, snapshot.reload_interval,
  api.listen, api.session_ttl,
  navigation.page_size, navigation.preview_width, navigation.known_types,
  trace.preview_width, insights.page_size, insights.node_type,
  edges.process, edges.semantic, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  nexus config set <key> <value>    Set a configuration value
  nexus config get <key>            Get a configuration value
  nexus config list                 List all configuration values

Examples:
  nexus config set snapshot.path ./graph.json
  nexus config set edges.process DERIVED_FROM,CITES
  nexus config get snapshot.driver
  nexus config list`

const configShortDesc string = "Manage persistent nexus configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
