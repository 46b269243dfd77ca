package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Category partitions edge kinds into two disjoint classes.
type Category uint8

const (
	// Process edges carry causal or operational flow and are followed by the tracer.
	Process Category = iota + 1

	// Semantic edges carry topical association and are never traced.
	Semantic
)

func (c Category) String() string {
	switch c {
	case Process:
		return "process"
	case Semantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// MarshalText renders the category by name in JSON and TOML output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names written by MarshalText.
func (c *Category) UnmarshalText(b []byte) error {
	cat, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = cat
	return nil
}

// ParseCategory parses "process" or "semantic", case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "process":
		return Process, nil
	case "semantic":
		return Semantic, nil
	default:
		return 0, fmt.Errorf("unknown edge category %q", s)
	}
}

// Well known edge kinds written by the knowledge core.
const (
	KindIsTaskFor          = "IS_TASK_FOR"
	KindIsResultOf         = "IS_RESULT_OF"
	KindContainsPlan       = "CONTAINS_PLAN"
	KindWasSynthesizedFrom = "WAS_SYNTHESIZED_FROM"
	KindIsResponseTo       = "IS_RESPONSE_TO"
	KindIsInstinctFor      = "IS_INSTINCT_FOR"
	KindHasResearch        = "HAS_RESEARCH"
	KindUsedQuery          = "USED_QUERY"
	KindFoundSource        = "FOUND_SOURCE"
	KindContainsFact       = "CONTAINS_FACT"
	KindSourcedFrom        = "SOURCED_FROM"
	KindSupersedes         = "SUPERSEDES"

	KindContainsConcept    = "CONTAINS_CONCEPT"
	KindInsightFromConcept = "INSIGHT_FROM_CONCEPT"
	KindArchivesImpulse    = "ARCHIVES_IMPULSE"
	KindArchivesResponse   = "ARCHIVES_RESPONSE"
	KindRelatesTo          = "RELATES_TO"
	KindMentions           = "MENTIONS"
)

var defaultProcessKinds = []string{
	KindIsTaskFor,
	KindIsResultOf,
	KindContainsPlan,
	KindWasSynthesizedFrom,
	KindIsResponseTo,
	KindIsInstinctFor,
	KindHasResearch,
	KindUsedQuery,
	KindFoundSource,
	KindContainsFact,
	KindSourcedFrom,
	KindSupersedes,
}

var defaultSemanticKinds = []string{
	KindContainsConcept,
	KindInsightFromConcept,
	KindArchivesImpulse,
	KindArchivesResponse,
	KindRelatesTo,
	KindMentions,
}

// KindRegistry is the static kind -> category mapping consulted at load time.
// A registry is never modified after it is handed to Build.
type KindRegistry struct {
	kinds map[string]Category
}

// DefaultKinds returns a registry with the built-in process and semantic kinds.
func DefaultKinds() *KindRegistry {
	r := &KindRegistry{kinds: make(map[string]Category, len(defaultProcessKinds)+len(defaultSemanticKinds))}
	for _, k := range defaultProcessKinds {
		r.kinds[k] = Process
	}
	for _, k := range defaultSemanticKinds {
		r.kinds[k] = Semantic
	}
	return r
}

// Extend returns a copy of the registry with additional kinds. A kind that is
// already registered under the other category, or listed in both slices, is
// rejected so a kind can never change category.
func (r *KindRegistry) Extend(process, semantic []string) (*KindRegistry, error) {
	out := &KindRegistry{kinds: maps.Clone(r.kinds)}

	add := func(kind string, cat Category) error {
		if kind == "" {
			return fmt.Errorf("empty edge kind in %s list", cat)
		}
		if existing, ok := out.kinds[kind]; ok && existing != cat {
			return fmt.Errorf("edge kind %s is already registered as %s", kind, existing)
		}
		out.kinds[kind] = cat
		return nil
	}

	for _, k := range process {
		if err := add(k, Process); err != nil {
			return nil, err
		}
	}
	for _, k := range semantic {
		if err := add(k, Semantic); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Category reports the category of kind.
func (r *KindRegistry) Category(kind string) (Category, bool) {
	c, ok := r.kinds[kind]
	return c, ok
}

// Kinds returns the registered kinds of a category, sorted.
func (r *KindRegistry) Kinds(cat Category) []string {
	var out []string
	for k, c := range r.kinds {
		if c == cat {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
