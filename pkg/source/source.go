// Package source defines where serialized snapshots come from.
package source

import (
	"context"
	"fmt"

	"github.com/papercomputeco/nexus/pkg/graph"
)

// Source reads one complete serialized graph per call. Implementations return
// decode failures as *graph.LoadError so callers see one error taxonomy.
type Source interface {
	// Read performs a single bulk read of the current document.
	Read(ctx context.Context) (*graph.Document, error)

	// Name identifies the source in logs and load errors.
	Name() string

	// Close releases any held resources.
	Close() error
}

// Watchable is implemented by sources backed by a local file. Path is the file
// whose changes should trigger a reload.
type Watchable interface {
	Path() string
}

// LoadError wraps err as a *graph.LoadError for the named source, keeping an
// existing LoadError as is.
func LoadError(name string, err error) error {
	if err == nil {
		return nil
	}
	if le, ok := err.(*graph.LoadError); ok {
		if le.Source == "" {
			le.Source = name
		}
		return le
	}
	return &graph.LoadError{Source: name, Err: err}
}

// RecordError builds a *graph.LoadError for a malformed record.
func RecordError(name, kind string, index int, id string, err error) error {
	return &graph.LoadError{
		Source: name,
		Record: fmt.Sprintf("%s[%d]", kind, index),
		ID:     id,
		Err:    err,
	}
}
