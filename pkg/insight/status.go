package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/papercomputeco/nexus/pkg/graph"
)

// Status is the canonical tri-state of an insight. The numeric value is the
// sort precedence: Verified sorts before Unverified before Archived.
type Status uint8

const (
	Verified Status = iota
	Unverified
	Archived
)

func (s Status) String() string {
	switch s {
	case Verified:
		return "VERIFIED"
	case Unverified:
		return "UNVERIFIED"
	case Archived:
		return "ARCHIVED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseStatus accepts the status names, the legacy active/inactive labels and
// the numbered shorthands 1, 2 and 3, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VERIFIED", "ACTIVE", "1":
		return Verified, nil
	case "UNVERIFIED", "2":
		return Unverified, nil
	case "ARCHIVED", "INACTIVE", "3":
		return Archived, nil
	default:
		return 0, fmt.Errorf("unknown insight status %q (want verified, unverified or archived)", s)
	}
}

// StatusOf derives the status of an insight node: an explicit state label wins,
// then the binary active_status flag (1 verified, anything else archived),
// otherwise Unverified.
func StatusOf(n *graph.Node) Status {
	return statusFrom(n.Attrs.Insight)
}

func statusFrom(ins *graph.InsightAttributes) Status {
	if ins == nil {
		return Unverified
	}
	if ins.State != "" {
		if st, err := ParseStatus(ins.State); err == nil {
			return st
		}
	}
	if ins.ActiveStatus != nil {
		if *ins.ActiveStatus == 1 {
			return Verified
		}
		return Archived
	}
	return Unverified
}
