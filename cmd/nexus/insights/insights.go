// Package insightscmder provides the insights command for listing and
// inspecting knowledge crystal insights.
package insightscmder

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/cmd/nexus/opener"
	"github.com/papercomputeco/nexus/cmd/nexus/render"
	"github.com/papercomputeco/nexus/pkg/cliui"
	"github.com/papercomputeco/nexus/pkg/config"
	"github.com/papercomputeco/nexus/pkg/insight"
)

const insightsLongDesc string = `List insights by status.

Insights are ordered VERIFIED, then UNVERIFIED, then ARCHIVED, and within a
status by strength then recency. Filter by a single status with --status.

Use subcommands to look insights up:
  nexus insights find <concept>    Insights derived from a concept
  nexus insights get <id>          One insight with its provenance

Examples:
  nexus insights
  nexus insights --status verified --page 2
  nexus i find "attention"`

const insightsShortDesc string = "List insights by status"

type insightsCommander struct {
	status   string
	page     int
	pageSize int
}

func NewInsightsCmd() *cobra.Command {
	cmder := &insightsCommander{}

	cmd := &cobra.Command{
		Use:     "insights",
		Aliases: []string{"i"},
		Short:   insightsShortDesc,
		Long:    insightsLongDesc,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	opener.AddSnapshotFlags(cmd)
	config.AddIntFlag(cmd, config.Flags, config.FlagInsightsLimit, &cmder.pageSize)
	cmd.Flags().IntVarP(&cmder.page, "page", "p", 1, "Page number, starting at 1")
	cmd.Flags().StringVar(&cmder.status, "status", "", "Only list insights with this status (verified, unverified, archived)")

	cmd.AddCommand(newFindCmd())
	cmd.AddCommand(newGetCmd())

	return cmd
}

func (c *insightsCommander) run(cmd *cobra.Command) error {
	var filter *insight.Status
	if c.status != "" {
		st, err := insight.ParseStatus(c.status)
		if err != nil {
			return err
		}
		filter = &st
	}

	o, err := opener.Open(cmd.Context(), cmd, opener.WithFlags(config.FlagInsightsLimit))
	if err != nil {
		return err
	}
	defer o.Close()

	page, err := o.Engine.ListInsights(filter, c.page, o.Config.Insights.PageSize)
	if err != nil {
		return err
	}

	render.Insights(cmd.OutOrStdout(), page)
	return nil
}

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <concept>",
		Short: "List the insights derived from a concept",
		Long: `List the insights derived from a concept.

The concept is matched by its exact content. Multiple arguments are joined
with spaces.

Examples:
  nexus insights find attention
  nexus insights find context window`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			concept := strings.Join(args, " ")

			o, err := opener.Open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer o.Close()

			items, err := o.Engine.FindInsightsByConcept(concept)
			if err != nil {
				return err
			}

			render.ConceptInsights(cmd.OutOrStdout(), concept, items)
			return nil
		},
	}
	opener.AddSnapshotFlags(cmd)
	return cmd
}

func newGetCmd() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one insight with its provenance",
		Long: `Show one insight with its provenance.

Prints the status, strength, source concepts and originating impulse of the
insight. With --markdown the content is rendered as markdown.

Examples:
  nexus insights get kc-0001 --markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opener.Open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer o.Close()

			d, err := o.Engine.GetInsight(args[0])
			if err != nil {
				return err
			}

			body := d.Content
			if markdown {
				rendered, err := cliui.RenderMarkdown(d.Content, cliui.TerminalWidth(cmd.OutOrStdout()))
				if err != nil {
					o.Logger.Debug("rendering markdown", "error", err)
				}
				body = rendered
			}

			render.Insight(cmd.OutOrStdout(), d, body)
			return nil
		},
	}
	opener.AddSnapshotFlags(cmd)
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the insight content as markdown")
	return cmd
}
