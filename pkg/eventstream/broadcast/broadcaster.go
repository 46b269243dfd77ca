// Package broadcast hands snapshot events to in-process subscribers, such as
// the API server's event stream.
package broadcast

import (
	"context"
	"sync"

	"github.com/papercomputeco/nexus/pkg/eventstream"
)

// DefaultBuffer is the per-subscriber queue length used by Subscribe when
// buffer is not positive.
const DefaultBuffer = 16

// Broadcaster is an eventstream.Publisher that copies every event to all
// current subscribers. A subscriber whose queue is full misses the event
// rather than stalling the reload that published it.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[uint64]chan *eventstream.SnapshotEvent
	nextID  uint64
	dropped uint64
	closed  bool
}

func New() *Broadcaster {
	return &Broadcaster{subs: make(map[uint64]chan *eventstream.SnapshotEvent)}
}

// Subscribe registers a subscriber. The channel is closed by cancel or by
// Close, whichever comes first.
func (b *Broadcaster) Subscribe(buffer int) (<-chan *eventstream.SnapshotEvent, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan *eventstream.SnapshotEvent, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Subscribers reports the number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped reports how many deliveries were skipped because a subscriber was
// full.
func (b *Broadcaster) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// PublishSnapshot never blocks.
func (b *Broadcaster) PublishSnapshot(_ context.Context, event *eventstream.SnapshotEvent) error {
	if event == nil {
		return eventstream.ErrNilSnapshotEvent
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.dropped++
		}
	}
	return nil
}

// Close ends every subscription. Later subscribers get a closed channel.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}
