// Package testutils provides fixtures shared by the package test suites.
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/papercomputeco/nexus/pkg/graph"
)

// BaseTime is the reference instant fixture timestamps are offset from.
var BaseTime = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// TS returns an RFC 3339 timestamp the given number of minutes after BaseTime.
func TS(minutes int) string {
	return BaseTime.Add(time.Duration(minutes) * time.Minute).Format(time.RFC3339)
}

// DocBuilder assembles a graph.Document record by record.
type DocBuilder struct {
	doc graph.Document
}

// NewDocBuilder returns an empty builder.
func NewDocBuilder() *DocBuilder {
	return &DocBuilder{}
}

// Node appends a node record without extra attributes.
func (b *DocBuilder) Node(id, nodeType, ts, content string) *DocBuilder {
	return b.NodeWithAttrs(id, nodeType, ts, content, nil)
}

// NodeWithAttrs appends a node record.
func (b *DocBuilder) NodeWithAttrs(id, nodeType, ts, content string, attrs map[string]any) *DocBuilder {
	b.doc.Nodes = append(b.doc.Nodes, graph.NodeRecord{
		ID:         id,
		Type:       nodeType,
		Timestamp:  ts,
		Content:    content,
		Attributes: attrs,
	})
	return b
}

// Insight appends a KnowledgeCrystalNode with the given active_status and strength.
func (b *DocBuilder) Insight(id, ts, content string, active, strength int) *DocBuilder {
	return b.NodeWithAttrs(id, graph.TypeKnowledgeCrystal, ts, content, map[string]any{
		graph.AttrActiveStatus: active,
		graph.AttrStrength:     strength,
	})
}

// Edge appends an edge record.
func (b *DocBuilder) Edge(source, target, kind string) *DocBuilder {
	b.doc.Edges = append(b.doc.Edges, graph.EdgeRecord{Source: source, Target: target, Kind: kind})
	return b
}

// Document returns the assembled document.
func (b *DocBuilder) Document() *graph.Document {
	doc := b.doc
	return &doc
}

// MustSnapshot builds the document and panics on a load error.
func (b *DocBuilder) MustSnapshot(opts ...graph.BuildOption) *graph.Snapshot {
	snap, err := graph.Build(b.Document(), opts...)
	if err != nil {
		panic(err)
	}
	return snap
}

// MockSource is an in-memory snapshot source whose document and error can be
// swapped between reads.
type MockSource struct {
	mu    sync.Mutex
	doc   *graph.Document
	err   error
	reads int
}

// NewMockSource returns a source serving doc.
func NewMockSource(doc *graph.Document) *MockSource {
	return &MockSource{doc: doc}
}

// Set replaces the document served by subsequent reads and clears any error.
func (m *MockSource) Set(doc *graph.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc
	m.err = nil
}

// Fail makes subsequent reads return err.
func (m *MockSource) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Reads is the number of Read calls served so far.
func (m *MockSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *MockSource) Read(_ context.Context) (*graph.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Close() error { return nil }
