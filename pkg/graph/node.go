package graph

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"
)

// Node types the query layers treat specially.
const (
	TypeUserImpulse      = "UserImpulse"
	TypeConcept          = "ConceptNode"
	TypeKnowledgeCrystal = "KnowledgeCrystalNode"
)

// Insight attribute keys parsed into InsightAttributes.
const (
	AttrState          = "state"
	AttrActiveStatus   = "active_status"
	AttrStrength       = "strength"
	AttrSourceConcepts = "source_concepts"
	AttrSourceImpulse  = "source_impulse"
)

// Node is a single vertex of a snapshot. Nodes are immutable once built.
type Node struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	Content   string     `json:"content"`
	Attrs     Attributes `json:"-"`

	// order is the position of the node in the source document.
	order int
}

// Order is the zero-based load position of the node, the final tie-breaker
// for every newest-first ordering.
func (n *Node) Order() int { return n.order }

// HasTimestamp reports whether the source record carried a timestamp.
func (n *Node) HasTimestamp() bool { return !n.Timestamp.IsZero() }

// AttributeMap returns the full set of extra attributes, typed fields included.
func (n *Node) AttributeMap() map[string]any {
	out := maps.Clone(n.Attrs.Extra)
	if out == nil {
		out = make(map[string]any)
	}
	if ins := n.Attrs.Insight; ins != nil {
		ins.fill(out)
	}
	return out
}

// Newer orders a before b when a is more recent. Equal timestamps fall back to
// load order, later-loaded first.
func Newer(a, b *Node) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.order > b.order
}

// CompareNewest is the slices.SortFunc form of Newer.
func CompareNewest(a, b *Node) int {
	switch {
	case Newer(a, b):
		return -1
	case Newer(b, a):
		return 1
	default:
		return 0
	}
}

// Attributes is the per-node attribute bag. Known node types get a typed view;
// everything unrecognized is kept verbatim in Extra.
type Attributes struct {
	Insight *InsightAttributes
	Extra   map[string]any
}

// InsightAttributes is the typed view over an insight node's attributes.
type InsightAttributes struct {
	// State is the explicit tri-state label when the producer wrote one.
	State string

	// ActiveStatus is the legacy binary flag, 1 active and 0 archived.
	ActiveStatus *int

	Strength       *int
	SourceConcepts string
	SourceImpulse  string
}

// StrengthOr returns the strength, or def when the attribute was absent.
func (a *InsightAttributes) StrengthOr(def int) int {
	if a == nil || a.Strength == nil {
		return def
	}
	return *a.Strength
}

// Concepts splits the comma separated source_concepts attribute.
func (a *InsightAttributes) Concepts() []string {
	if a == nil || strings.TrimSpace(a.SourceConcepts) == "" {
		return nil
	}
	parts := strings.Split(a.SourceConcepts, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *InsightAttributes) fill(m map[string]any) {
	if a.State != "" {
		m[AttrState] = a.State
	}
	if a.ActiveStatus != nil {
		m[AttrActiveStatus] = *a.ActiveStatus
	}
	if a.Strength != nil {
		m[AttrStrength] = *a.Strength
	}
	if a.SourceConcepts != "" {
		m[AttrSourceConcepts] = a.SourceConcepts
	}
	if a.SourceImpulse != "" {
		m[AttrSourceImpulse] = a.SourceImpulse
	}
}

// splitAttributes separates the typed insight view from the residual map
// when the node is of the snapshot's insight type.
func splitAttributes(insight bool, raw map[string]any) (Attributes, error) {
	if !insight {
		return Attributes{Extra: maps.Clone(raw)}, nil
	}
	ins, extra, err := ParseInsightAttributes(raw)
	if err != nil {
		return Attributes{}, err
	}
	return Attributes{Insight: ins, Extra: extra}, nil
}

// ParseInsightAttributes reads the insight keys of raw into InsightAttributes
// and returns the remaining keys. It fails on a non-integer active_status or
// strength.
func ParseInsightAttributes(raw map[string]any) (*InsightAttributes, map[string]any, error) {
	ins := &InsightAttributes{}
	extra := make(map[string]any, len(raw))
	for k, v := range raw {
		var err error
		switch k {
		case AttrState:
			ins.State = strings.ToUpper(strings.TrimSpace(fmt.Sprint(v)))
		case AttrActiveStatus:
			var n int
			n, err = attrInt(v)
			ins.ActiveStatus = &n
		case AttrStrength:
			var n int
			n, err = attrInt(v)
			ins.Strength = &n
		case AttrSourceConcepts:
			ins.SourceConcepts = fmt.Sprint(v)
		case AttrSourceImpulse:
			ins.SourceImpulse = fmt.Sprint(v)
		default:
			extra[k] = v
		}
		if err != nil {
			return nil, nil, fmt.Errorf("attribute %s: %w", k, err)
		}
	}
	return ins, extra, nil
}

func attrInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("%v is not an integer", t)
		}
		return int(t), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// ParseTimestamp parses the timestamp forms written by snapshot producers.
// Values without a zone are read as UTC. An empty string is the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
