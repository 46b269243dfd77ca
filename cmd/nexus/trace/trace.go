// Package tracecmder provides the trace command for following the process
// chain behind a node.
package tracecmder

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/cmd/nexus/opener"
	"github.com/papercomputeco/nexus/cmd/nexus/render"
	"github.com/papercomputeco/nexus/pkg/config"
)

const traceLongDesc string = `Trace the process chain behind a node.

Follows process edges (tasks, results, research, facts, synthesis) outward
from the node, depth first and newest first. Semantic edges such as concept
links are never followed. A node reached a second time is shown as a link
back to its first occurrence instead of being expanded again.

Examples:
  nexus trace kc-0001
  nexus trace 3f9a --width 120
  nexus tr resp --json`

const traceShortDesc string = "Follow the process chain behind a node"

type traceCommander struct {
	width int
	json  bool
}

func NewTraceCmd() *cobra.Command {
	cmder := &traceCommander{}

	cmd := &cobra.Command{
		Use:     "trace <id>",
		Aliases: []string{"tr"},
		Short:   traceShortDesc,
		Long:    traceLongDesc,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	opener.AddSnapshotFlags(cmd)
	config.AddIntFlag(cmd, config.Flags, config.FlagTraceWidth, &cmder.width)
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Print the trace tree as JSON")

	return cmd
}

func (c *traceCommander) run(cmd *cobra.Command, id string) error {
	o, err := opener.Open(cmd.Context(), cmd, opener.WithFlags(config.FlagTraceWidth))
	if err != nil {
		return err
	}
	defer o.Close()

	tree, err := o.Engine.Trace(id)
	if err != nil {
		return err
	}

	if c.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	}

	render.Trace(cmd.OutOrStdout(), tree)
	return nil
}
