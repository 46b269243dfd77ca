// Package render prints query results for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/nexus/pkg/cliui"
	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/insight"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/stats"
	"github.com/papercomputeco/nexus/pkg/tracer"
	"github.com/papercomputeco/nexus/pkg/utils"
)

const timeLayout = "2006-01-02 15:04:05"

// Timestamp formats a node time, or "-" for undated nodes.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

// Stats prints the snapshot summary.
func Stats(w io.Writer, s *stats.Summary) {
	fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render("Knowledge graph"))
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Nodes:"), cliui.ValueStyle.Render(strconv.Itoa(s.TotalNodes)))
	fmt.Fprintf(w, "  %s %s %s\n",
		cliui.KeyStyle.Render("Edges:"),
		cliui.ValueStyle.Render(strconv.Itoa(s.TotalEdges)),
		cliui.DimStyle.Render(fmt.Sprintf("(%d process, %d semantic)", s.ProcessEdges, s.SemanticEdges)),
	)

	if len(s.CountsByType) == 0 {
		fmt.Fprintln(w)
		return
	}

	width := 0
	for _, tc := range s.CountsByType {
		width = max(width, len(tc.Type))
	}
	fmt.Fprintf(w, "\n  %s\n", cliui.KeyStyle.Render("By type:"))
	for _, tc := range s.CountsByType {
		fmt.Fprintf(w, "    %s  %s\n",
			cliui.TypeStyle.Render(fmt.Sprintf("%-*s", width, tc.Type)),
			cliui.ValueStyle.Render(strconv.Itoa(tc.Count)),
		)
	}
	fmt.Fprintln(w)
}

// Types prints the schema types with their instance counts.
func Types(w io.Writer, types []graph.TypeCount) {
	fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render("Node types"))
	if len(types) == 0 {
		fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("The snapshot is empty."))
		return
	}
	width := 0
	for _, tc := range types {
		width = max(width, len(tc.Type))
	}
	for _, tc := range types {
		fmt.Fprintf(w, "  %s  %s\n",
			cliui.TypeStyle.Render(fmt.Sprintf("%-*s", width, tc.Type)),
			cliui.DimStyle.Render(strconv.Itoa(tc.Count)),
		)
	}
	fmt.Fprintln(w)
}

// Page prints one page of a type listing.
func Page(w io.Writer, p *navigator.Page) {
	fmt.Fprintf(w, "\n  %s %s\n\n",
		cliui.TypeStyle.Render(p.Type),
		cliui.DimStyle.Render(fmt.Sprintf("page %d of %d, %d total", p.Page, max(p.TotalPages, 1), p.Total)),
	)
	if len(p.Items) == 0 {
		fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("No nodes on this page."))
		return
	}
	for i, item := range p.Items {
		fmt.Fprintf(w, "  %s %s %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%2d.", (p.Page-1)*p.PageSize+i+1)),
			cliui.IDStyle.Render(utils.ShortID(item.ID)),
			cliui.DimStyle.Render(Timestamp(item.Timestamp)),
			cliui.PreviewStyle.Render(item.Preview),
		)
	}
	if p.Page < p.TotalPages {
		fmt.Fprintf(w, "\n  %s\n", cliui.DimStyle.Render(fmt.Sprintf("Next page: --page %d", p.Page+1)))
	}
	fmt.Fprintln(w)
}

// Node prints a node with its numbered neighborhood.
func Node(w io.Writer, d *navigator.NodeDetail) {
	fmt.Fprintf(w, "\n  %s %s\n", cliui.TypeStyle.Render(d.Node.Type), cliui.IDStyle.Render(d.Node.ID))
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Timestamp:"), cliui.ValueStyle.Render(Timestamp(d.Node.Timestamp)))

	for _, k := range slices.Sorted(maps.Keys(d.Attributes)) {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render(k+":"), cliui.ValueStyle.Render(fmt.Sprint(d.Attributes[k])))
	}

	fmt.Fprintf(w, "\n%s\n", indent(Content(d), "    "))

	neighbors(w, "Predecessors", d.Predecessors)
	neighbors(w, "Successors", d.Successors)
	fmt.Fprintln(w)
}

// Content returns the node content, pretty printed when it held structured data.
func Content(d *navigator.NodeDetail) string {
	if d.Decoded != nil {
		if b, err := json.MarshalIndent(d.Decoded, "", "  "); err == nil {
			return string(b)
		}
	}
	if strings.TrimSpace(d.Content) == "" {
		return cliui.DimStyle.Render("(no content)")
	}
	return d.Content
}

func neighbors(w io.Writer, title string, ns []navigator.Neighbor) {
	fmt.Fprintf(w, "\n  %s %s\n", cliui.KeyStyle.Render(title), cliui.DimStyle.Render(fmt.Sprintf("(%d)", len(ns))))
	for _, n := range ns {
		fmt.Fprintf(w, "  %s %s %s %s %s\n",
			cliui.NameStyle.Render(fmt.Sprintf("[%d]", n.Index)),
			cliui.EdgeKind(n.Kind, n.Category),
			cliui.TypeStyle.Render(n.Node.Type),
			cliui.IDStyle.Render(utils.ShortID(n.Node.ID)),
			cliui.PreviewStyle.Render(n.Node.Preview),
		)
	}
}

// Trace prints a trace tree with its connectors.
func Trace(w io.Writer, t *tracer.Tree) {
	fmt.Fprintln(w)
	for _, l := range tracer.Lines(t) {
		label := l.Label()
		if l.Node.BackRef {
			label = cliui.DimStyle.Render(label)
		}
		fmt.Fprintf(w, "  %s%s\n", cliui.DimStyle.Render(l.Prefix), label)
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("%d nodes, %d back-references", t.Size, t.BackRefs)))
}

// Insights prints one page of the insight listing.
func Insights(w io.Writer, p *insight.Page) {
	title := "Insights"
	if p.Status != nil {
		title = "Insights " + cliui.Status(p.Status.String())
	}
	fmt.Fprintf(w, "\n  %s %s\n\n",
		cliui.HeaderStyle.Render(title),
		cliui.DimStyle.Render(fmt.Sprintf("page %d of %d, %d total", p.Page, max(p.TotalPages, 1), p.Total)),
	)
	if len(p.Items) == 0 {
		fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("No insights on this page."))
		return
	}
	insightRows(w, p.Items)
	if p.Page < p.TotalPages {
		fmt.Fprintf(w, "\n  %s\n", cliui.DimStyle.Render(fmt.Sprintf("Next page: --page %d", p.Page+1)))
	}
	fmt.Fprintln(w)
}

// ConceptInsights prints the insights derived from a concept.
func ConceptInsights(w io.Writer, concept string, items []insight.Summary) {
	fmt.Fprintf(w, "\n  %s %s\n\n",
		cliui.HeaderStyle.Render("Insights from"),
		cliui.NameStyle.Render(strconv.Quote(concept)),
	)
	if len(items) == 0 {
		fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("No insights reference this concept."))
		return
	}
	insightRows(w, items)
	fmt.Fprintln(w)
}

func insightRows(w io.Writer, items []insight.Summary) {
	for _, s := range items {
		status := s.Status.String()
		fmt.Fprintf(w, "  %s %s%s %s %s\n",
			cliui.IDStyle.Render(utils.ShortID(s.ID)),
			cliui.Status(status),
			strings.Repeat(" ", max(0, len("UNVERIFIED")-len(status))),
			cliui.DimStyle.Render(fmt.Sprintf("strength %d", s.Strength)),
			cliui.PreviewStyle.Render(s.Preview),
		)
	}
}

// Insight prints a single insight with its provenance. body is the rendered
// content.
func Insight(w io.Writer, d *insight.Detail, body string) {
	fmt.Fprintf(w, "\n  %s %s\n", cliui.Status(d.Status.String()), cliui.IDStyle.Render(d.ID))
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Timestamp:"), cliui.ValueStyle.Render(Timestamp(d.Timestamp)))
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Strength: "), cliui.ValueStyle.Render(strconv.Itoa(d.Strength)))
	if len(d.SourceConcepts) > 0 {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Concepts: "), cliui.ValueStyle.Render(strings.Join(d.SourceConcepts, ", ")))
	}
	if d.SourceImpulse != "" {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Impulse:  "), cliui.IDStyle.Render(d.SourceImpulse))
	}
	fmt.Fprintf(w, "\n%s\n\n", indent(strings.TrimRight(body, "\n"), "    "))
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
