package graph

// Direction selects which side of a node an edge list is taken from.
type Direction uint8

const (
	// In selects edges whose target is the node (predecessors).
	In Direction = iota + 1

	// Out selects edges whose source is the node (successors).
	Out
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return "unknown"
	}
}

// Edge is a directed, labeled connection between two nodes of a snapshot.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Kind     string   `json:"kind"`
	Category Category `json:"category"`

	order int
}

// Order is the zero-based load position of the edge.
func (e Edge) Order() int { return e.order }

// Other returns the endpoint opposite to id.
func (e Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Document is the decoded, unvalidated form of a serialized snapshot as
// produced by a source. Build turns it into a Snapshot.
type Document struct {
	Nodes []NodeRecord
	Edges []EdgeRecord
}

// NodeRecord is a single node as read from a source.
type NodeRecord struct {
	ID         string
	Type       string
	Timestamp  string
	Content    string
	Attributes map[string]any
}

// EdgeRecord is a single edge as read from a source.
type EdgeRecord struct {
	Source string
	Target string
	Kind   string
}
