// Package navcmder provides the Navigation Mode commands. The focused node
// and the back-history persist in the .nexus/ directory between invocations.
package navcmder

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/cmd/nexus/opener"
	"github.com/papercomputeco/nexus/cmd/nexus/render"
	"github.com/papercomputeco/nexus/pkg/cliui"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/utils"
)

const getLongDesc string = `Focus a node and show its neighborhood.

The node is found by its full id or by a unique id prefix. Its predecessors
and successors are listed newest first and numbered; use "nexus select <n>" to
follow one of them and "nexus back" to return.

Examples:
  nexus get kc-0001
  nexus get 3f9a`

const selectLongDesc string = `Follow the n-th neighbor of the focused node.

Neighbors are numbered predecessors first, then successors, as printed by
"nexus get". The previously focused node is pushed onto the history.

Examples:
  nexus select 2`

const backLongDesc string = `Return to the previously focused node.

Pops the navigation history. With an empty history nothing changes.`

const resetLongDesc string = `Leave Navigation Mode.

Clears the focused node and the history.`

const statusLongDesc string = `Show the Navigation Mode state.

Prints the focused node and the history, oldest first.`

// NewGetCmd creates the get command.
func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Focus a node and show its neighborhood",
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, true, func(s *navigator.Session) error {
				d, err := s.Get(args[0])
				if err != nil {
					return err
				}
				render.Node(cmd.OutOrStdout(), d)
				return nil
			})
		},
	}
	opener.AddSnapshotFlags(cmd)
	return cmd
}

// NewSelectCmd creates the select command.
func NewSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <n>",
		Short: "Follow the n-th neighbor of the focused node",
		Long:  selectLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid choice %q: expected a neighbor number", args[0])
			}
			return withSession(cmd, true, func(s *navigator.Session) error {
				d, err := s.Select(n)
				if err != nil {
					return err
				}
				render.Node(cmd.OutOrStdout(), d)
				return nil
			})
		},
	}
	opener.AddSnapshotFlags(cmd)
	return cmd
}

// NewBackCmd creates the back command.
func NewBackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "back",
		Short: "Return to the previously focused node",
		Long:  backLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, true, func(s *navigator.Session) error {
				d, moved, err := s.Back()
				if err != nil {
					return err
				}
				if !moved {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s No history to go back to.\n", cliui.DimStyle.Render("●"))
					return nil
				}
				render.Node(cmd.OutOrStdout(), d)
				return nil
			})
		},
	}
	opener.AddSnapshotFlags(cmd)
	return cmd
}

// NewResetCmd creates the reset command.
func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Leave Navigation Mode",
		Long:  resetLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, true, func(s *navigator.Session) error {
				s.Reset()
				fmt.Fprintf(cmd.OutOrStdout(), "  %s Navigation reset.\n", cliui.SuccessMark)
				return nil
			})
		},
	}
	opener.AddSnapshotFlags(cmd)
	return cmd
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the Navigation Mode state",
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, false, func(s *navigator.Session) error {
				printStatus(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
	opener.AddSnapshotFlags(cmd)
	return cmd
}

// withSession restores the persisted session and applies fn. With persist the
// result is saved; a failed transition is only saved when it reset the session.
func withSession(cmd *cobra.Command, persist bool, fn func(*navigator.Session) error) error {
	o, err := opener.Open(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer o.Close()

	sess, err := o.Session()
	if err != nil {
		return err
	}

	if err := fn(sess); err != nil {
		if persist && sess.Mode() == navigator.Idle {
			_ = o.SaveSession(sess)
		}
		return err
	}

	if !persist {
		return nil
	}
	return o.SaveSession(sess)
}

func printStatus(w io.Writer, s *navigator.Session) {
	if s.Mode() == navigator.Idle {
		fmt.Fprintf(w, "  %s Not navigating. Use \"nexus get <id>\" to focus a node.\n", cliui.DimStyle.Render("●"))
		return
	}

	d := s.Last()
	fmt.Fprintf(w, "\n  %s  %s %s\n",
		cliui.KeyStyle.Render("Focused:"),
		cliui.TypeStyle.Render(d.Node.Type),
		cliui.IDStyle.Render(d.Node.ID),
	)
	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render("Preview:"), cliui.PreviewStyle.Render(d.Node.Preview))

	history := s.History()
	fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render("History:"), cliui.NameStyle.Render(strconv.Itoa(len(history))))
	for i, id := range history {
		fmt.Fprintf(w, "  %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.IDStyle.Render(utils.ShortID(id)),
		)
	}
	fmt.Fprintln(w)
}
