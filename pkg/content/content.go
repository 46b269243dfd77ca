// Package content unpacks the structured values producers serialize into a
// node's content string. Decoding is best effort: anything that is not JSON is
// returned unchanged and no function here ever fails.
package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Decode returns the parsed JSON object or array held in s, or s itself when it
// is not structured.
func Decode(s string) any {
	trimmed := strings.TrimSpace(s)
	if !looksStructured(trimmed) {
		return s
	}

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return s
	}
	return v
}

// Pretty returns s re-indented when it holds a JSON object or array, and s
// unchanged otherwise.
func Pretty(s string) string {
	trimmed := strings.TrimSpace(s)
	if !looksStructured(trimmed) {
		return s
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "  "); err != nil {
		return s
	}
	return buf.String()
}

// IsStructured reports whether s decodes to a JSON object or array.
func IsStructured(s string) bool {
	_, ok := Decode(s).(string)
	return !ok
}

func looksStructured(s string) bool {
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}
