package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/papercomputeco/nexus/pkg/graph"
)

// Reserved keys of a node record. Everything else is an extra attribute.
const (
	KeyID         = "id"
	KeyType       = "type"
	KeyTimestamp  = "timestamp"
	KeyContent    = "content"
	KeyAttributes = "attributes"

	KeySource = "source"
	KeyTarget = "target"
	KeyKind   = "kind"
	KeyLabel  = "label"
)

// NodeFromMap converts a loosely typed node object, as decoded from JSON or
// YAML, into a record. Extra attributes may be nested under "attributes" or sit
// next to the reserved keys.
func NodeFromMap(m map[string]any) (graph.NodeRecord, error) {
	var rec graph.NodeRecord
	var err error

	if rec.ID, err = Scalar(m[KeyID]); err != nil {
		return rec, fmt.Errorf("id: %w", err)
	}
	if rec.Type, err = Scalar(m[KeyType]); err != nil {
		return rec, fmt.Errorf("type: %w", err)
	}
	if rec.Timestamp, err = Scalar(m[KeyTimestamp]); err != nil {
		return rec, fmt.Errorf("timestamp: %w", err)
	}
	if rec.Content, err = Content(m[KeyContent]); err != nil {
		return rec, fmt.Errorf("content: %w", err)
	}

	attrs := make(map[string]any)
	if nested, ok := m[KeyAttributes]; ok && nested != nil {
		nm, ok := nested.(map[string]any)
		if !ok {
			return rec, fmt.Errorf("attributes: expected an object, got %T", nested)
		}
		for k, v := range nm {
			attrs[k] = v
		}
	}
	for k, v := range m {
		switch k {
		case KeyID, KeyType, KeyTimestamp, KeyContent, KeyAttributes:
		default:
			attrs[k] = v
		}
	}
	if len(attrs) > 0 {
		rec.Attributes = attrs
	}

	return rec, nil
}

// EdgeFromMap converts a loosely typed edge object into a record. The kind may
// be spelled "kind" or "label".
func EdgeFromMap(m map[string]any) (graph.EdgeRecord, error) {
	var rec graph.EdgeRecord
	var err error

	if rec.Source, err = Scalar(m[KeySource]); err != nil {
		return rec, fmt.Errorf("source: %w", err)
	}
	if rec.Target, err = Scalar(m[KeyTarget]); err != nil {
		return rec, fmt.Errorf("target: %w", err)
	}

	kind := m[KeyKind]
	if kind == nil {
		kind = m[KeyLabel]
	}
	if rec.Kind, err = Scalar(kind); err != nil {
		return rec, fmt.Errorf("kind: %w", err)
	}

	return rec, nil
}

// Scalar renders a decoded scalar as a string. nil becomes "".
func Scalar(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case bool:
		return strconv.FormatBool(t), nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %T", v)
	}
}

// Content renders a content value: strings pass through, structured values are
// serialized back to JSON.
func Content(v any) (string, error) {
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return Scalar(v)
	}
}

// DocumentFromMap converts a decoded top-level object with "nodes" and either
// "edges" or "links" into a document, reporting the first malformed record.
func DocumentFromMap(name string, top map[string]any) (*graph.Document, error) {
	nodes, err := objectList(top, "nodes")
	if err != nil {
		return nil, LoadError(name, err)
	}

	edgeKey := "edges"
	if _, ok := top[edgeKey]; !ok {
		edgeKey = "links"
	}
	edges, err := objectList(top, edgeKey)
	if err != nil {
		return nil, LoadError(name, err)
	}

	doc := &graph.Document{
		Nodes: make([]graph.NodeRecord, 0, len(nodes)),
		Edges: make([]graph.EdgeRecord, 0, len(edges)),
	}
	for i, raw := range nodes {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, RecordError(name, "node", i, "", fmt.Errorf("expected an object, got %T", raw))
		}
		rec, err := NodeFromMap(m)
		if err != nil {
			return nil, RecordError(name, "node", i, rec.ID, err)
		}
		doc.Nodes = append(doc.Nodes, rec)
	}
	for i, raw := range edges {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, RecordError(name, "edge", i, "", fmt.Errorf("expected an object, got %T", raw))
		}
		rec, err := EdgeFromMap(m)
		if err != nil {
			return nil, RecordError(name, "edge", i, "", err)
		}
		doc.Edges = append(doc.Edges, rec)
	}

	return doc, nil
}

func objectList(top map[string]any, key string) ([]any, error) {
	raw, ok := top[key]
	if !ok || raw == nil {
		if key == "nodes" {
			return nil, errors.New("document has no nodes list")
		}
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", key, raw)
	}
	return list, nil
}
