package testutils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/papercomputeco/nexus/pkg/graph"
)

// Workspace is a temporary working directory with a local .nexus/ and a
// graph.json snapshot, used by the command suites.
type Workspace struct {
	Dir      string
	Snapshot string

	orig string
}

// NewWorkspace writes doc to graph.json in a fresh temporary directory and
// changes into it.
func NewWorkspace(doc *graph.Document) (*Workspace, error) {
	tmp, err := os.MkdirTemp("", "nexus-cmd-test-*")
	if err != nil {
		return nil, err
	}
	// Resolve symlinked temp dirs so paths match what os.Getwd reports.
	dir, err := filepath.EvalSymlinks(tmp)
	if err != nil {
		return nil, err
	}
	orig, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	w := &Workspace{Dir: dir, Snapshot: filepath.Join(dir, "graph.json"), orig: orig}
	if err := os.MkdirAll(filepath.Join(dir, ".nexus"), 0o755); err != nil {
		return nil, err
	}
	if err := WriteJSON(w.Snapshot, doc); err != nil {
		return nil, err
	}
	if err := os.Chdir(dir); err != nil {
		return nil, err
	}
	return w, nil
}

// Restore changes back to the original directory and removes the workspace.
func (w *Workspace) Restore() error {
	return errors.Join(os.Chdir(w.orig), os.RemoveAll(w.Dir))
}
