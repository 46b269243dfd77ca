package eventstream

import "errors"

// ErrNilSnapshotEvent indicates a nil snapshot event payload was provided to a publisher.
var ErrNilSnapshotEvent = errors.New("nil snapshot event")
