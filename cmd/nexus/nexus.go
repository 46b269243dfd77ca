// Package nexuscmder
package nexuscmder

import (
	"github.com/spf13/cobra"

	browsecmder "github.com/papercomputeco/nexus/cmd/nexus/browse"
	configcmder "github.com/papercomputeco/nexus/cmd/nexus/config"
	initcmder "github.com/papercomputeco/nexus/cmd/nexus/init"
	insightscmder "github.com/papercomputeco/nexus/cmd/nexus/insights"
	listcmder "github.com/papercomputeco/nexus/cmd/nexus/list"
	navcmder "github.com/papercomputeco/nexus/cmd/nexus/nav"
	servecmder "github.com/papercomputeco/nexus/cmd/nexus/serve"
	statcmder "github.com/papercomputeco/nexus/cmd/nexus/stat"
	tracecmder "github.com/papercomputeco/nexus/cmd/nexus/trace"
	versioncmder "github.com/papercomputeco/nexus/cmd/version"
)

const nexusLongDesc string = `Nexus queries knowledge graph snapshots.

A snapshot is a directed, typed graph of impulses, tasks, research, facts,
responses, concepts and insights, read from a JSON, YAML or GraphML file, a
SQLite database or PostgreSQL.

Explore a snapshot using:
  nexus stat              Summarize node and edge counts
  nexus list <type>       Page through the nodes of a type
  nexus get <id>          Focus a node and show its neighborhood
  nexus select <n>        Follow the n-th neighbor of the focused node
  nexus trace <id>        Follow the process chain behind a node
  nexus insights          List insights by status
  nexus browse            Navigate interactively
  nexus serve             Run the HTTP and MCP server`

const nexusShortDesc string = "Nexus - knowledge graph explorer"

func NewNexusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "nexus",
		Short:         nexusShortDesc,
		Long:          nexusLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .nexus/ config directory")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(statcmder.NewStatCmd())
	cmd.AddCommand(listcmder.NewListCmd())
	cmd.AddCommand(navcmder.NewGetCmd())
	cmd.AddCommand(navcmder.NewSelectCmd())
	cmd.AddCommand(navcmder.NewBackCmd())
	cmd.AddCommand(navcmder.NewResetCmd())
	cmd.AddCommand(navcmder.NewStatusCmd())
	cmd.AddCommand(tracecmder.NewTraceCmd())
	cmd.AddCommand(insightscmder.NewInsightsCmd())
	cmd.AddCommand(browsecmder.NewBrowseCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
