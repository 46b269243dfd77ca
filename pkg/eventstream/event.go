package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeSnapshotLoaded is emitted after a snapshot is built and swapped in.
	EventTypeSnapshotLoaded = "nexus.snapshot.loaded"

	// EventTypeSnapshotLoadFailed is emitted when a reload is rejected and the
	// previous snapshot stays active.
	EventTypeSnapshotLoadFailed = "nexus.snapshot.load_failed"
)

// SnapshotEvent is a transport-neutral event payload for a snapshot lifecycle change.
type SnapshotEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`
	Source        string    `json:"source"`
	Generation    uint64    `json:"generation"`
	Stats         *Counts   `json:"stats,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// Counts summarizes the size of a loaded snapshot.
type Counts struct {
	Nodes      int   `json:"nodes"`
	Edges      int   `json:"edges"`
	Types      int   `json:"types"`
	DurationMs int64 `json:"duration_ms"`
}

// NewSnapshotLoaded builds a loaded event stamped with a fresh id.
func NewSnapshotLoaded(source string, generation uint64, counts Counts) *SnapshotEvent {
	return &SnapshotEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeSnapshotLoaded,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Generation:    generation,
		Stats:         &counts,
	}
}

// NewSnapshotLoadFailed builds a failure event. generation is the one still active.
func NewSnapshotLoadFailed(source string, generation uint64, err error) *SnapshotEvent {
	ev := &SnapshotEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeSnapshotLoadFailed,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Generation:    generation,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}
