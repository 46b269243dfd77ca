// Package snapshotpath finds the snapshot to open when none is configured.
package snapshotpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	fileNames   = []string{"graph.json", "graph.yaml", "graph.yml", "graph.graphml"}
	sqliteNames = []string{"graph.db", "graph.sqlite"}
)

// ResolveSnapshotPath returns override when set, otherwise the first existing
// well-known snapshot file for the driver. The working directory is searched
// first, then ./.nexus, ~/.nexus and $XDG_DATA_HOME/nexus.
func ResolveSnapshotPath(override, driver string) (string, error) {
	if override != "" {
		return override, nil
	}

	for _, candidate := range snapshotCandidates(driver) {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("could not find a %s snapshot; pass --snapshot or set snapshot.path", driverLabel(driver))
}

func snapshotCandidates(driver string) []string {
	names := fileNames
	if driver == "sqlite" {
		names = sqliteNames
	}

	dirs := []string{".", ".nexus"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".nexus"))
	}
	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		dirs = append(dirs, filepath.Join(xdgHome, "nexus"))
	}

	candidates := make([]string, 0, len(dirs)*len(names))
	for _, dir := range dirs {
		for _, name := range names {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	return candidates
}

func driverLabel(driver string) string {
	if driver == "" {
		return "file"
	}
	return driver
}
