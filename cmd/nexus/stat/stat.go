// Package statcmder provides the stat command for summarizing a snapshot.
package statcmder

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/cmd/nexus/opener"
	"github.com/papercomputeco/nexus/cmd/nexus/render"
)

const statLongDesc string = `Summarize the knowledge graph snapshot.

Prints the total number of nodes and edges, the split of edges into process
and semantic categories, and the number of nodes of every type ordered by
count.

Examples:
  nexus stat
  nexus stat --snapshot ./graph.graphml
  nexus stat --json`

const statShortDesc string = "Summarize node and edge counts"

type statCommander struct {
	json bool
}

func NewStatCmd() *cobra.Command {
	cmder := &statCommander{}

	cmd := &cobra.Command{
		Use:   "stat",
		Short: statShortDesc,
		Long:  statLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	opener.AddSnapshotFlags(cmd)
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Print the summary as JSON")

	return cmd
}

func (c *statCommander) run(cmd *cobra.Command) error {
	o, err := opener.Open(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer o.Close()

	summary, err := o.Engine.Stats()
	if err != nil {
		return err
	}

	if c.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	render.Stats(cmd.OutOrStdout(), summary)
	return nil
}
