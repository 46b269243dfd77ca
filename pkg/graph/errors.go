package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLoad is matched by every *LoadError.
	ErrLoad = errors.New("graph: load failed")

	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("graph: not found")

	// ErrAmbiguousID is matched by every *AmbiguousIDError.
	ErrAmbiguousID = errors.New("graph: ambiguous id")

	// ErrUnknownType is matched by every *UnknownTypeError.
	ErrUnknownType = errors.New("graph: unknown type")
)

// LoadError reports why a snapshot document could not be turned into a Snapshot.
// Record names the offending record (e.g. "node[3]" or "edge[7]") when the failure
// is tied to one.
type LoadError struct {
	Source string
	Record string
	ID     string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("loading snapshot")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Record != "" {
		fmt.Fprintf(&b, ": %s", e.Record)
		if e.ID != "" {
			fmt.Fprintf(&b, " (%s)", e.ID)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// NotFoundError is returned when no node matches an id or prefix.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "node not found: " + e.ID
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AmbiguousIDError is returned when a prefix matches more than one node.
// Matches holds at most maxAmbiguousMatches candidates; Total is the full count.
type AmbiguousIDError struct {
	Prefix  string
	Matches []string
	Total   int
}

func (e *AmbiguousIDError) Error() string {
	return fmt.Sprintf("ambiguous id %q matches %d nodes: %s",
		e.Prefix, e.Total, strings.Join(e.Matches, ", "))
}

func (e *AmbiguousIDError) Is(target error) bool { return target == ErrAmbiguousID }

// UnknownTypeError is returned when a type name is not part of the schema at all.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return "unknown node type: " + e.Type
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }
