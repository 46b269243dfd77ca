// Package listcmder provides the list command for paging through the nodes of
// a type.
package listcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/cmd/nexus/opener"
	"github.com/papercomputeco/nexus/cmd/nexus/render"
	"github.com/papercomputeco/nexus/pkg/config"
)

const listLongDesc string = `List the nodes of a type, newest first.

The type may be given by its exact name, by its number in the type listing,
or by a unique case-insensitive fragment of its name. Without a type, lists
the schema types with their instance counts.

Examples:
  nexus list
  nexus list Task
  nexus list concept --page 2
  nexus list 3 --limit 25`

const listShortDesc string = "Page through the nodes of a type"

type listCommander struct {
	page     int
	pageSize int
}

func NewListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:     "list [type]",
		Aliases: []string{"ls"},
		Short:   listShortDesc,
		Long:    listLongDesc,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmder.runTypes(cmd)
			}
			return cmder.run(cmd, args[0])
		},
	}

	opener.AddSnapshotFlags(cmd)
	config.AddIntFlag(cmd, config.Flags, config.FlagPageSize, &cmder.pageSize)
	cmd.Flags().IntVarP(&cmder.page, "page", "p", 1, "Page number, starting at 1")

	return cmd
}

func (c *listCommander) runTypes(cmd *cobra.Command) error {
	o, err := opener.Open(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer o.Close()

	types, err := o.Engine.Types()
	if err != nil {
		return err
	}

	render.Types(cmd.OutOrStdout(), types)
	return nil
}

func (c *listCommander) run(cmd *cobra.Command, query string) error {
	o, err := opener.Open(cmd.Context(), cmd, opener.WithFlags(config.FlagPageSize))
	if err != nil {
		return err
	}
	defer o.Close()

	nodeType, err := o.Engine.Navigator().ResolveType(query)
	if err != nil {
		return err
	}

	page, err := o.Engine.ListByType(nodeType, c.page, o.Config.Navigation.PageSize)
	if err != nil {
		return err
	}

	render.Page(cmd.OutOrStdout(), page)
	return nil
}
