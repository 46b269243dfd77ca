// Package api provides an HTTP API server for querying the knowledge graph.
package api

import (
	"time"

	"github.com/papercomputeco/nexus/pkg/eventstream/broadcast"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., "127.0.0.1:8008")
	ListenAddr string

	// SessionTTL drops navigation sessions idle for longer. Zero keeps them
	// until they are deleted.
	SessionTTL time.Duration

	// PageSize and InsightPageSize are the defaults for omitted page_size
	// query parameters.
	PageSize        int
	InsightPageSize int

	// DisableMCP leaves the /mcp endpoint unmounted.
	DisableMCP bool

	// Events, when set, serves snapshot lifecycle events on /v1/events.
	Events *broadcast.Broadcaster

	// KeepAlive is the comment interval of idle event streams. Defaults to 15s.
	KeepAlive time.Duration
}
