package file

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/source"
)

type graphmlDoc struct {
	XMLName xml.Name       `xml:"graphml"`
	Keys    []graphmlKey   `xml:"key"`
	Graphs  []graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID      string  `xml:"id,attr"`
	For     string  `xml:"for,attr"`
	Name    string  `xml:"attr.name,attr"`
	Type    string  `xml:"attr.type,attr"`
	Default *string `xml:"default"`
}

type graphmlGraph struct {
	Nodes []graphmlNode `xml:"node"`
	Edges []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// decodeGraphML reads the first graph of a GraphML document. Typed keys are
// converted to Go values; node keys named type, timestamp and content fill the
// record fields and the edge key named label or kind is the edge kind.
func decodeGraphML(name string, data []byte) (*graph.Document, error) {
	var doc graphmlDoc
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, source.LoadError(name, fmt.Errorf("decoding graphml: %w", err))
	}
	if len(doc.Graphs) == 0 {
		return nil, source.LoadError(name, errors.New("graphml document has no graph element"))
	}

	keys := make(map[string]graphmlKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Name == "" {
			k.Name = k.ID
		}
		keys[k.ID] = k
	}

	g := doc.Graphs[0]
	out := &graph.Document{
		Nodes: make([]graph.NodeRecord, 0, len(g.Nodes)),
		Edges: make([]graph.EdgeRecord, 0, len(g.Edges)),
	}

	for i, n := range g.Nodes {
		values, err := dataValues(keys, "node", n.Data)
		if err != nil {
			return nil, source.RecordError(name, "node", i, n.ID, err)
		}
		values[source.KeyID] = n.ID

		rec, err := source.NodeFromMap(values)
		if err != nil {
			return nil, source.RecordError(name, "node", i, n.ID, err)
		}
		out.Nodes = append(out.Nodes, rec)
	}

	for i, e := range g.Edges {
		values, err := dataValues(keys, "edge", e.Data)
		if err != nil {
			return nil, source.RecordError(name, "edge", i, e.Source+"->"+e.Target, err)
		}
		values[source.KeySource] = e.Source
		values[source.KeyTarget] = e.Target

		rec, err := source.EdgeFromMap(values)
		if err != nil {
			return nil, source.RecordError(name, "edge", i, e.Source+"->"+e.Target, err)
		}
		out.Edges = append(out.Edges, rec)
	}

	return out, nil
}

// dataValues resolves <data> elements through their key declarations and fills
// in declared defaults for the element kind.
func dataValues(keys map[string]graphmlKey, elem string, data []graphmlData) (map[string]any, error) {
	values := make(map[string]any, len(data))

	for _, k := range keys {
		if k.Default == nil || (k.For != elem && k.For != "all") {
			continue
		}
		v, err := typedValue(k, *k.Default)
		if err != nil {
			return nil, err
		}
		values[k.Name] = v
	}

	for _, d := range data {
		k, ok := keys[d.Key]
		if !ok {
			return nil, fmt.Errorf("data references undeclared key %s", d.Key)
		}
		v, err := typedValue(k, d.Value)
		if err != nil {
			return nil, err
		}
		values[k.Name] = v
	}

	return values, nil
}

func typedValue(k graphmlKey, raw string) (any, error) {
	switch strings.ToLower(k.Type) {
	case "", "string":
		return raw, nil
	case "int", "long":
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("key %s: %q is not an integer", k.Name, raw)
		}
		return int(n), nil
	case "float", "double":
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("key %s: %q is not a number", k.Name, raw)
		}
		return f, nil
	case "boolean":
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("key %s: %q is not a boolean", k.Name, raw)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("key %s: unsupported attr.type %s", k.Name, k.Type)
	}
}
