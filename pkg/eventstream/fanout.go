package eventstream

import (
	"context"
	"errors"
)

// fanout publishes every event to each of its publishers.
type fanout struct {
	publishers []Publisher
}

// Fanout returns a Publisher that forwards to all publishers. Every publisher
// sees every event even when an earlier one fails; the errors are joined.
func Fanout(publishers ...Publisher) Publisher {
	if len(publishers) == 1 {
		return publishers[0]
	}
	return &fanout{publishers: publishers}
}

func (f *fanout) PublishSnapshot(ctx context.Context, event *SnapshotEvent) error {
	if event == nil {
		return ErrNilSnapshotEvent
	}
	var errs []error
	for _, p := range f.publishers {
		errs = append(errs, p.PublishSnapshot(ctx, event))
	}
	return errors.Join(errs...)
}

func (f *fanout) Close() error {
	var errs []error
	for _, p := range f.publishers {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}
