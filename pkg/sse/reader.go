package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

const maxLine = 1 << 20

// Reader decodes events from a stream. The last seen id carries over to
// later events that do not set one, and blocks without a data field are
// dropped, as an EventSource does.
type Reader struct {
	lines *bufio.Scanner

	lastID string
	retry  time.Duration

	typ     string
	data    []string
	hasData bool
}

// NewReader returns a Reader over src.
func NewReader(src io.Reader) *Reader {
	lines := bufio.NewScanner(src)
	lines.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{lines: lines}
}

// Next returns the next event. It returns nil, nil at the end of the stream.
// A final event missing its blank line is still returned.
func (r *Reader) Next() (*Event, error) {
	for r.lines.Scan() {
		line := r.lines.Text()
		switch {
		case line == "":
			if ev := r.dispatch(); ev != nil {
				return ev, nil
			}
		case line[0] == ':':
		default:
			r.field(line)
		}
	}
	if err := r.lines.Err(); err != nil {
		return nil, err
	}
	return r.dispatch(), nil
}

// LastID is the id most recently set by the stream.
func (r *Reader) LastID() string { return r.lastID }

// Retry is the reconnection delay last announced by the stream, or zero.
func (r *Reader) Retry() time.Duration { return r.retry }

func (r *Reader) field(line string) {
	name, value, found := strings.Cut(line, ":")
	if found {
		value = strings.TrimPrefix(value, " ")
	}

	switch name {
	case "event":
		r.typ = value
	case "data":
		r.data = append(r.data, value)
		r.hasData = true
	case "id":
		if !strings.ContainsRune(value, 0) {
			r.lastID = value
		}
	case "retry":
		if ms, err := strconv.ParseUint(value, 10, 32); err == nil {
			r.retry = time.Duration(ms) * time.Millisecond
		}
	}
}

// dispatch ends the pending block, returning its event when it carried data.
func (r *Reader) dispatch() *Event {
	defer func() {
		r.typ, r.data, r.hasData = "", r.data[:0], false
	}()
	if !r.hasData {
		return nil
	}
	return &Event{Type: r.typ, Data: strings.Join(r.data, "\n"), ID: r.lastID}
}
