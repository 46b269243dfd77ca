package browsecmder

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/papercomputeco/nexus/cmd/nexus/render"
	"github.com/papercomputeco/nexus/pkg/cliui"
	"github.com/papercomputeco/nexus/pkg/engine"
	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/tracer"
	"github.com/papercomputeco/nexus/pkg/utils"
)

type browseView int

const (
	viewTypes browseView = iota
	viewList
	viewNode
	viewTrace
)

var (
	browseTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	browseHighlightStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "255", Dark: "235"}).
				Background(lipgloss.AdaptiveColor{Light: "25", Dark: "117"}).
				Bold(true)
	browseErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	browseDividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
)

type browseKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Back  key.Binding
	Next  key.Binding
	Prev  key.Binding
	Trace key.Binding
	Reset key.Binding
	Quit  key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Enter, k.Back, k.Next, k.Prev, k.Trace, k.Reset, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Down, k.Up, k.Enter, k.Back}, {k.Next, k.Prev, k.Trace, k.Reset, k.Quit}}
}

func defaultKeyMap() browseKeyMap {
	return browseKeyMap{
		Up:    key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:  key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Enter: key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "open")),
		Back:  key.NewBinding(key.WithKeys("h", "esc"), key.WithHelp("h", "back")),
		Next:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
		Prev:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev page")),
		Trace: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trace")),
		Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// browseModel drives a navigator session from the keyboard. Listing types and
// pages happens outside the session; opening a node focuses it.
type browseModel struct {
	engine   *engine.Engine
	session  *navigator.Session
	pageSize int

	view   browseView
	cursor int
	types  []graph.TypeCount
	page   *navigator.Page
	trace  []tracer.Line
	err    error

	width  int
	height int
	keys   browseKeyMap
	help   help.Model
}

func newBrowseModel(eng *engine.Engine, sess *navigator.Session, pageSize int) (browseModel, error) {
	if pageSize < 1 {
		pageSize = navigator.DefaultPageSize
	}
	m := browseModel{
		engine:   eng,
		session:  sess,
		pageSize: pageSize,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}

	types, err := eng.Types()
	if err != nil {
		return m, err
	}
	m.types = types

	if sess.Mode() == navigator.Focused {
		m.view = viewNode
	}
	return m, nil
}

func (m browseModel) Init() bubbletea.Cmd {
	return nil
}

func (m browseModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m browseModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, bubbletea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, m.rows()-1)
	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, m.rows()-1)
	case key.Matches(msg, m.keys.Enter):
		return m.open(), nil
	case key.Matches(msg, m.keys.Back):
		return m.back(), nil
	case key.Matches(msg, m.keys.Next):
		if m.view == viewList && m.page != nil && m.page.Page < m.page.TotalPages {
			return m.loadPage(m.page.Type, m.page.Page+1), nil
		}
	case key.Matches(msg, m.keys.Prev):
		if m.view == viewList && m.page != nil && m.page.Page > 1 {
			return m.loadPage(m.page.Type, m.page.Page-1), nil
		}
	case key.Matches(msg, m.keys.Trace):
		if m.view == viewNode {
			return m.showTrace(), nil
		}
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.view = viewTypes
		m.cursor = 0
		m.page = nil
	}
	return m, nil
}

// rows is the number of selectable rows of the current view.
func (m browseModel) rows() int {
	switch m.view {
	case viewTypes:
		return len(m.types)
	case viewList:
		if m.page == nil {
			return 0
		}
		return len(m.page.Items)
	case viewNode:
		if d := m.session.Last(); d != nil {
			return d.NeighborCount()
		}
	}
	return 0
}

func (m browseModel) open() browseModel {
	switch m.view {
	case viewTypes:
		if len(m.types) == 0 {
			return m
		}
		return m.loadPage(m.types[m.cursor].Type, 1)
	case viewList:
		if m.page == nil || len(m.page.Items) == 0 {
			return m
		}
		if _, err := m.session.Get(m.page.Items[m.cursor].ID); err != nil {
			m.err = err
			return m
		}
		m.view = viewNode
		m.cursor = 0
	case viewNode:
		if m.rows() == 0 {
			return m
		}
		if _, err := m.session.Select(m.cursor + 1); err != nil {
			m.err = err
			return m
		}
		m.cursor = 0
	}
	return m
}

func (m browseModel) back() browseModel {
	switch m.view {
	case viewTrace:
		m.view = viewNode
		m.trace = nil
	case viewNode:
		_, moved, err := m.session.Back()
		if err != nil {
			m.err = err
		}
		if !moved {
			m.session.Reset()
			m.view = viewList
			if m.page == nil {
				m.view = viewTypes
			}
		}
		m.cursor = 0
	case viewList:
		m.view = viewTypes
		m.page = nil
		m.cursor = 0
	}
	return m
}

func (m browseModel) loadPage(nodeType string, page int) browseModel {
	p, err := m.engine.ListByType(nodeType, page, m.pageSize)
	if err != nil {
		m.err = err
		return m
	}
	m.page = p
	m.view = viewList
	m.cursor = 0
	return m
}

func (m browseModel) showTrace() browseModel {
	tree, err := m.engine.Trace(m.session.Current())
	if err != nil {
		m.err = err
		return m
	}
	m.trace = tracer.Lines(tree)
	m.view = viewTrace
	return m
}

func (m browseModel) View() string {
	var b strings.Builder

	switch m.view {
	case viewTypes:
		m.viewTypes(&b)
	case viewList:
		m.viewList(&b)
	case viewNode:
		m.viewNode(&b)
	case viewTrace:
		m.viewTrace(&b)
	}

	if m.err != nil {
		b.WriteString("\n" + browseErrorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m browseModel) viewTypes(b *strings.Builder) {
	b.WriteString(browseTitleStyle.Render("Node types") + "\n\n")
	if len(m.types) == 0 {
		b.WriteString(cliui.DimStyle.Render("The snapshot is empty.") + "\n")
		return
	}
	for i, tc := range m.types {
		m.row(b, i, fmt.Sprintf("%-28s %d", tc.Type, tc.Count))
	}
}

func (m browseModel) viewList(b *strings.Builder) {
	p := m.page
	b.WriteString(browseTitleStyle.Render(p.Type) + " " +
		cliui.DimStyle.Render(fmt.Sprintf("page %d of %d, %d total", p.Page, max(p.TotalPages, 1), p.Total)) + "\n\n")
	if len(p.Items) == 0 {
		b.WriteString(cliui.DimStyle.Render("No nodes on this page.") + "\n")
		return
	}
	for i, item := range p.Items {
		m.row(b, i, fmt.Sprintf("%-8s %s  %s", utils.ShortID(item.ID), render.Timestamp(item.Timestamp), item.Preview))
	}
}

func (m browseModel) viewNode(b *strings.Builder) {
	d := m.session.Last()
	if d == nil {
		return
	}
	b.WriteString(browseTitleStyle.Render(d.Node.Type) + " " + cliui.IDStyle.Render(d.Node.ID) + "\n")
	b.WriteString(cliui.DimStyle.Render(render.Timestamp(d.Node.Timestamp)) +
		cliui.DimStyle.Render(fmt.Sprintf("  history %d", len(m.session.History()))) + "\n\n")

	for _, line := range strings.Split(render.Content(d), "\n") {
		b.WriteString(m.fit("  "+line) + "\n")
	}
	b.WriteString("\n" + browseDividerStyle.Render(strings.Repeat("─", max(m.width, 20))) + "\n")

	i := 0
	for _, n := range d.Predecessors {
		m.row(b, i, neighborLine("<-", n))
		i++
	}
	for _, n := range d.Successors {
		m.row(b, i, neighborLine("->", n))
		i++
	}
	if i == 0 {
		b.WriteString(cliui.DimStyle.Render("No neighbors.") + "\n")
	}
}

func (m browseModel) viewTrace(b *strings.Builder) {
	b.WriteString(browseTitleStyle.Render("Trace") + " " + cliui.IDStyle.Render(m.session.Current()) + "\n\n")
	for _, l := range m.trace {
		b.WriteString(m.fit(l.String()) + "\n")
	}
}

func (m browseModel) row(b *strings.Builder, i int, text string) {
	text = m.fit(text)
	if i == m.cursor {
		b.WriteString(browseHighlightStyle.Render("> "+text) + "\n")
		return
	}
	b.WriteString("  " + text + "\n")
}

// fit truncates a line to the terminal width once it is known.
func (m browseModel) fit(s string) string {
	if m.width <= 4 {
		return s
	}
	return ansi.Truncate(s, m.width-2, "…")
}

func neighborLine(arrow string, n navigator.Neighbor) string {
	return fmt.Sprintf("[%d] %s %s %s %s %s",
		n.Index, arrow, n.Kind, n.Node.Type, utils.ShortID(n.Node.ID), n.Node.Preview)
}

func clamp(value, maxValue int) int {
	if maxValue < 0 {
		return 0
	}
	return min(max(value, 0), maxValue)
}
