package navigator

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNotFocused is returned when selecting a neighbor outside Navigation Mode.
var ErrNotFocused = errors.New("no node in focus, get a node first")

// InvalidChoiceError is returned when a neighbor index is out of range.
type InvalidChoiceError struct {
	Choice int
	Max    int
}

func (e *InvalidChoiceError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("invalid choice %d: node has no neighbors", e.Choice)
	}
	return fmt.Sprintf("invalid choice %d: pick a neighbor between 1 and %d", e.Choice, e.Max)
}

// Mode is the Navigation Mode state of a session.
type Mode uint8

const (
	// Idle has no focused node and no history.
	Idle Mode = iota

	// Focused has a current node and a back-history stack.
	Focused
)

func (m Mode) String() string {
	if m == Focused {
		return "focused"
	}
	return "idle"
}

// SessionState is the serializable form of a session.
type SessionState struct {
	Current string   `json:"current,omitempty"`
	History []string `json:"history,omitempty"`
}

// Session is one Navigation Mode: a focused node plus the stack of nodes
// visited before it. A Session is not safe for concurrent use; see Registry.
type Session struct {
	nav     *Navigator
	current string
	history []string
	last    *NodeDetail
}

// NewSession starts an Idle session.
func (n *Navigator) NewSession() *Session {
	return &Session{nav: n}
}

// Mode reports whether the session is Idle or Focused.
func (s *Session) Mode() Mode {
	if s.current == "" {
		return Idle
	}
	return Focused
}

// Current is the focused node id, empty when Idle.
func (s *Session) Current() string { return s.current }

// History returns the back stack, oldest first.
func (s *Session) History() []string { return slices.Clone(s.history) }

// Last is the detail of the focused node as of the last transition.
func (s *Session) Last() *NodeDetail { return s.last }

// State captures the session for persistence.
func (s *Session) State() SessionState {
	return SessionState{Current: s.current, History: s.History()}
}

// Get focuses the node matching idOrPrefix. When the session was already
// Focused the previous node is pushed onto the history. On failure the session
// is left unchanged.
func (s *Session) Get(idOrPrefix string) (*NodeDetail, error) {
	d, err := s.nav.Get(idOrPrefix)
	if err != nil {
		return nil, err
	}
	s.push(d)
	return d, nil
}

func (s *Session) push(d *NodeDetail) {
	if s.current != "" {
		s.history = append(s.history, s.current)
	}
	s.current = d.Node.ID
	s.last = d
}

// Select focuses the n-th neighbor (1-based, predecessors before successors) of
// the focused node. The neighbor is looked up by its exact id in the current
// snapshot.
func (s *Session) Select(n int) (*NodeDetail, error) {
	if s.Mode() != Focused || s.last == nil {
		return nil, ErrNotFocused
	}

	nb, ok := s.last.Neighbor(n)
	if !ok {
		return nil, &InvalidChoiceError{Choice: n, Max: s.last.NeighborCount()}
	}

	d, err := s.nav.getExact(nb.Node.ID)
	if err != nil {
		return nil, err
	}
	s.push(d)
	return d, nil
}

// Back pops the history and focuses the popped node without pushing the
// current one. With an empty history it is a no-op and moved is false. If the
// popped id is no longer in the snapshot the session resets and the error is
// returned, even when another node's id starts with it.
func (s *Session) Back() (d *NodeDetail, moved bool, err error) {
	if len(s.history) == 0 {
		return nil, false, nil
	}

	prev := s.history[len(s.history)-1]
	d, err = s.nav.getExact(prev)
	if err != nil {
		s.Reset()
		return nil, false, fmt.Errorf("returning to %s: %w", prev, err)
	}

	s.history = s.history[:len(s.history)-1]
	s.current = d.Node.ID
	s.last = d

	return d, true, nil
}

// Reset returns the session to Idle and clears the history.
func (s *Session) Reset() {
	s.current = ""
	s.history = nil
	s.last = nil
}

// Restore rebuilds a session from a persisted state, refreshing the focused
// node against the current snapshot. If the focused node no longer exists the
// session is reset and the error returned.
func (s *Session) Restore(state SessionState) error {
	s.Reset()
	if state.Current == "" {
		return nil
	}

	d, err := s.nav.getExact(state.Current)
	if err != nil {
		return fmt.Errorf("restoring focus %s: %w", state.Current, err)
	}

	s.current = d.Node.ID
	s.history = slices.Clone(state.History)
	s.last = d

	return nil
}
