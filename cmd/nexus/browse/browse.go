// Package browsecmder provides an interactive terminal browser over a
// snapshot, driving the same Navigation Mode as the get, select and back
// commands.
package browsecmder

import (
	"context"
	"os"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/cmd/nexus/opener"
	"github.com/papercomputeco/nexus/pkg/config"
)

const browseLongDesc string = `Browse the knowledge graph interactively.

Pick a type, page through its nodes newest first, open a node and follow its
neighbors. Press t on a node to see its process trace. The focused node and
history are shared with "nexus get", "nexus select" and "nexus back", so
browsing resumes where the CLI left off.

Keys:
  j/k      move          enter/l  open or follow
  h/esc    back          n/p      next/previous page
  t        trace         r        reset
  q        quit

Examples:
  nexus browse
  nexus browse --snapshot ./graph.yaml`

const browseShortDesc string = "Navigate the graph interactively"

type browseCommander struct {
	pageSize int
}

func NewBrowseCmd() *cobra.Command {
	cmder := &browseCommander{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: browseShortDesc,
		Long:  browseLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	opener.AddSnapshotFlags(cmd)
	config.AddIntFlag(cmd, config.Flags, config.FlagPageSize, &cmder.pageSize)

	return cmd
}

func (c *browseCommander) run(ctx context.Context, cmd *cobra.Command) error {
	o, err := opener.Open(ctx, cmd, opener.WithFlags(config.FlagPageSize))
	if err != nil {
		return err
	}
	defer o.Close()

	sess, err := o.Session()
	if err != nil {
		return err
	}

	model, err := newBrowseModel(o.Engine, sess, o.Config.Navigation.PageSize)
	if err != nil {
		return err
	}

	// Query the background once up front; the alt screen hides the answer.
	lipgloss.SetHasDarkBackground(termenv.NewOutput(os.Stdout).HasDarkBackground())

	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return err
	}

	return o.SaveSession(sess)
}
