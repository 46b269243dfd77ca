package navigator

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("navigation session not found")

type entry struct {
	// mu serializes transitions of the session.
	mu      sync.Mutex
	session *Session

	// lastUsed is guarded by Registry.mu.
	lastUsed time.Time
}

// Registry keeps independent navigation sessions keyed by id for multi-client
// surfaces. Operations on one session are serialized; different sessions never
// block each other beyond the map lookup.
type Registry struct {
	nav *Navigator
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates an empty registry whose sessions use nav.
func NewRegistry(nav *Navigator) *Registry {
	return &Registry{
		nav:      nav,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new Idle session and returns its id.
func (r *Registry) Create() string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &entry{session: r.nav.NewSession(), lastUsed: r.now()}

	return id
}

// Do runs fn with exclusive access to the session. A session deleted or
// pruned while Do waited for it is reported as not found and fn is not run.
func (r *Registry) Do(id string, fn func(*Session) error) error {
	e := r.touch(id)
	if e == nil {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !r.live(id, e) {
		return ErrSessionNotFound
	}

	return fn(e.session)
}

func (r *Registry) touch(id string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil
	}
	e.lastUsed = r.now()
	return e
}

func (r *Registry) live(id string, e *entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id] == e
}

// Delete drops a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune drops sessions idle for longer than ttl and returns how many were
// removed. Sessions in the middle of a transition are kept.
func (r *Registry) Prune(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}
