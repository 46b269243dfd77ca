package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	navigationFile = "navigation.json"
)

// NavigationState is the CLI's persisted Navigation Mode: the focused node and
// the back-history, oldest first. Source records which snapshot the ids came
// from so a state saved against another snapshot can be discarded.
type NavigationState struct {
	Source    string    `json:"source"`
	Current   string    `json:"current,omitempty"`
	History   []string  `json:"history,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoadNavigationState loads the state from a target .nexus/navigation.json.
// Returns nil, nil if no state exists (Idle).
func (m *Manager) LoadNavigationState(overrideDir string) (*NavigationState, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return nil, nil
	}

	data, err := os.ReadFile(filepath.Join(dir, navigationFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading navigation state: %w", err)
	}

	state := &NavigationState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing navigation state: %w", err)
	}

	return state, nil
}

// SaveNavigationState persists the state to a target .nexus/navigation.json,
// creating ~/.nexus/ if needed.
func (m *Manager) SaveNavigationState(state *NavigationState, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil navigation state")
	}

	dir, err := m.EnsureTarget(overrideDir)
	if err != nil {
		return err
	}

	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling navigation state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, navigationFile), data, 0o600); err != nil {
		return fmt.Errorf("writing navigation state: %w", err)
	}

	return nil
}

// ClearNavigationState removes the state file, returning the CLI to Idle.
// Returns nil if the file doesn't exist (already cleared).
func (m *Manager) ClearNavigationState(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil || dir == "" {
		return err
	}

	if err := os.Remove(filepath.Join(dir, navigationFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing navigation state: %w", err)
	}

	return nil
}
