package tracer

import (
	"fmt"
	"io"

	"github.com/papercomputeco/nexus/pkg/utils"
)

const (
	branchConnector = "├─> "
	lastConnector   = "└─> "
	branchIndent    = "│   "
	lastIndent      = "    "
)

// Line is one row of a rendered trace: the tree drawing prefix and the node it
// belongs to.
type Line struct {
	Prefix string
	Node   *Node
}

// Label is the node text of a line without the prefix.
func (l Line) Label() string {
	return Label(l.Node)
}

// String is the full plain-text row.
func (l Line) String() string {
	return l.Prefix + l.Label()
}

// Label formats a trace node as "[id8] Type: preview", or as a link for
// back-references.
func Label(n *Node) string {
	if n.BackRef {
		return fmt.Sprintf("↪ link to %s [%s]", n.Type, utils.ShortID(n.ID))
	}
	if n.Preview == "" {
		return fmt.Sprintf("[%s] %s", utils.ShortID(n.ID), n.Type)
	}
	return fmt.Sprintf("[%s] %s: %s", utils.ShortID(n.ID), n.Type, n.Preview)
}

// Lines flattens the tree into indentation-prefixed rows in display order.
func Lines(t *Tree) []Line {
	if t == nil || t.Root == nil {
		return nil
	}

	lines := []Line{{Node: t.Root}}
	var walk func(n *Node, indent string)
	walk = func(n *Node, indent string) {
		for i, c := range n.Children {
			connector, next := branchConnector, indent+branchIndent
			if i == len(n.Children)-1 {
				connector, next = lastConnector, indent+lastIndent
			}
			lines = append(lines, Line{Prefix: indent + connector, Node: c})
			walk(c, next)
		}
	}
	walk(t.Root, "")

	return lines
}

// Render writes the tree as plain text, one node per line.
func Render(w io.Writer, t *Tree) error {
	for _, l := range Lines(t) {
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			return err
		}
	}
	return nil
}
