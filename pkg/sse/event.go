// Package sse writes and reads Server-Sent Events. The API server streams
// snapshot lifecycle events with Write; clients and tests parse them back
// with Reader.
//
// See https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import (
	"fmt"
	"io"
	"strings"
)

// Event is a single SSE event, delimited by a blank line on the wire.
type Event struct {
	// Type is the "event:" field. Empty means the default "message" type.
	Type string

	// Data is the payload. Multiple "data:" lines are joined with "\n".
	Data string

	// ID is the "id:" field, if present.
	ID string
}

// Write encodes ev to w followed by the blank line that ends it. Newlines in
// Data become separate data lines.
func Write(w io.Writer, ev Event) error {
	var b strings.Builder
	if ev.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", ev.ID)
	}
	if ev.Type != "" {
		fmt.Fprintf(&b, "event: %s\n", ev.Type)
	}
	for line := range strings.SplitSeq(ev.Data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Comment writes a comment line. Clients ignore it, which makes it a
// keep-alive.
func Comment(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, ": %s\n\n", text)
	return err
}
