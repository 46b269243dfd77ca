package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/source/file"
)

const explicitJSON = `{
  "nodes": [
    {"id": "imp-1", "type": "UserImpulse", "timestamp": "2025-03-01T12:00:00Z", "content": "why is the sky blue"},
    {"id": "kc-1", "type": "KnowledgeCrystalNode", "timestamp": "2025-03-01T12:05:00Z",
     "content": {"insight": "rayleigh"}, "attributes": {"active_status": 1, "strength": 4}, "source_impulse": "imp-1"}
  ],
  "edges": [
    {"source": "kc-1", "target": "imp-1", "kind": "WAS_SYNTHESIZED_FROM"}
  ]
}`

const nodeLinkJSON = `{
  "directed": true,
  "multigraph": true,
  "graph": {},
  "nodes": [
    {"id": "a", "type": "ConceptNode", "content": "light"},
    {"id": "b", "type": "ConceptNode", "content": "scattering"}
  ],
  "links": [
    {"source": "a", "target": "b", "label": "RELATES_TO", "key": 0}
  ]
}`

const snapshotYAML = `
nodes:
  - id: imp-1
    type: UserImpulse
    timestamp: "2025-03-01T12:00:00Z"
    content: hello
  - id: kc-1
    type: KnowledgeCrystalNode
    timestamp: 2025-03-01T12:05:00Z
    content: insight
    attributes:
      strength: 3
edges:
  - source: kc-1
    target: imp-1
    kind: WAS_SYNTHESIZED_FROM
`

const snapshotGraphML = `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <key id="d0" for="node" attr.name="type" attr.type="string"/>
  <key id="d1" for="node" attr.name="timestamp" attr.type="string"/>
  <key id="d2" for="node" attr.name="content" attr.type="string"/>
  <key id="d3" for="node" attr.name="strength" attr.type="long"/>
  <key id="d4" for="node" attr.name="active_status" attr.type="int">
    <default>0</default>
  </key>
  <key id="d5" for="edge" attr.name="label" attr.type="string"/>
  <graph edgedefault="directed">
    <node id="imp-1">
      <data key="d0">UserImpulse</data>
      <data key="d1">2025-03-01T12:00:00</data>
      <data key="d2">hello</data>
    </node>
    <node id="kc-1">
      <data key="d0">KnowledgeCrystalNode</data>
      <data key="d1">2025-03-01T12:05:00</data>
      <data key="d2">insight</data>
      <data key="d3">5</data>
    </node>
    <edge source="kc-1" target="imp-1">
      <data key="d5">WAS_SYNTHESIZED_FROM</data>
    </edge>
  </graph>
</graphml>`

func writeFile(name, body string) string {
	path := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.WriteFile(path, []byte(body), 0o600)).To(Succeed())
	return path
}

func readDoc(path string) (*graph.Document, error) {
	src, err := file.New(path, file.FormatAuto)
	Expect(err).NotTo(HaveOccurred())
	return src.Read(context.Background())
}

var _ = Describe("Source", func() {
	Describe("JSON", func() {
		It("decodes explicit nodes and edges", func() {
			doc, err := readDoc(writeFile("snap.json", explicitJSON))
			Expect(err).NotTo(HaveOccurred())

			Expect(doc.Nodes).To(HaveLen(2))
			Expect(doc.Nodes[0].ID).To(Equal("imp-1"))
			Expect(doc.Nodes[0].Attributes).To(BeNil())

			kc := doc.Nodes[1]
			Expect(kc.Content).To(MatchJSON(`{"insight":"rayleigh"}`))
			Expect(kc.Attributes).To(HaveKeyWithValue("active_status", BeNumerically("==", 1)))
			Expect(kc.Attributes).To(HaveKeyWithValue("source_impulse", "imp-1"))

			Expect(doc.Edges).To(Equal([]graph.EdgeRecord{
				{Source: "kc-1", Target: "imp-1", Kind: "WAS_SYNTHESIZED_FROM"},
			}))
		})

		It("accepts node-link documents with labelled links", func() {
			doc, err := readDoc(writeFile("snap.json", nodeLinkJSON))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Edges).To(Equal([]graph.EdgeRecord{
				{Source: "a", Target: "b", Kind: "RELATES_TO"},
			}))
			Expect(doc.Nodes[0].Attributes).To(BeNil())
		})

		It("builds into a snapshot", func() {
			doc, err := readDoc(writeFile("snap.json", explicitJSON))
			Expect(err).NotTo(HaveOccurred())

			snap, err := graph.Build(doc)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.NodeCount()).To(Equal(2))
			n, err := snap.NodeByID("kc-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(n.Attrs.Insight.StrengthOr(0)).To(Equal(4))
		})

		It("reports syntax errors as load errors", func() {
			_, err := readDoc(writeFile("snap.json", `{"nodes": [`))
			Expect(errors.Is(err, graph.ErrLoad)).To(BeTrue())
		})

		It("reports a missing nodes list", func() {
			_, err := readDoc(writeFile("snap.json", `{"edges": []}`))
			Expect(errors.Is(err, graph.ErrLoad)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("no nodes list"))
		})

		It("names the malformed record", func() {
			_, err := readDoc(writeFile("snap.json", `{"nodes": [{"id": "a", "type": ["x"]}]}`))
			var le *graph.LoadError
			Expect(errors.As(err, &le)).To(BeTrue())
			Expect(le.Record).To(Equal("node[0]"))
			Expect(le.ID).To(Equal("a"))
		})
	})

	Describe("YAML", func() {
		It("decodes the same shape as JSON", func() {
			doc, err := readDoc(writeFile("snap.yaml", snapshotYAML))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Nodes).To(HaveLen(2))

			ts, err := graph.ParseTimestamp(doc.Nodes[1].Timestamp)
			Expect(err).NotTo(HaveOccurred())
			Expect(ts.Minute()).To(Equal(5))
			Expect(doc.Nodes[1].Attributes).To(HaveKeyWithValue("strength", 3))
			Expect(doc.Edges).To(HaveLen(1))
		})
	})

	Describe("GraphML", func() {
		It("maps typed keys onto records", func() {
			doc, err := readDoc(writeFile("snap.graphml", snapshotGraphML))
			Expect(err).NotTo(HaveOccurred())

			Expect(doc.Nodes).To(HaveLen(2))
			Expect(doc.Nodes[0]).To(Equal(graph.NodeRecord{
				ID:         "imp-1",
				Type:       "UserImpulse",
				Timestamp:  "2025-03-01T12:00:00",
				Content:    "hello",
				Attributes: map[string]any{"active_status": 0},
			}))
			Expect(doc.Nodes[1].Attributes).To(HaveKeyWithValue("strength", 5))
			Expect(doc.Edges).To(Equal([]graph.EdgeRecord{
				{Source: "kc-1", Target: "imp-1", Kind: "WAS_SYNTHESIZED_FROM"},
			}))
		})

		It("rejects values that do not match the key type", func() {
			body := `<graphml>
  <key id="s" for="node" attr.name="strength" attr.type="int"/>
  <graph><node id="x"><data key="s">strong</data></node></graph>
</graphml>`
			_, err := readDoc(writeFile("bad.graphml", body))
			var le *graph.LoadError
			Expect(errors.As(err, &le)).To(BeTrue())
			Expect(le.ID).To(Equal("x"))
		})

		It("rejects documents without a graph", func() {
			_, err := readDoc(writeFile("empty.graphml", `<graphml></graphml>`))
			Expect(errors.Is(err, graph.ErrLoad)).To(BeTrue())
		})
	})

	Describe("formats", func() {
		It("detects by extension", func() {
			for path, want := range map[string]file.Format{
				"a.json":    file.FormatJSON,
				"a.YML":     file.FormatYAML,
				"a.yaml":    file.FormatYAML,
				"a.graphml": file.FormatGraphML,
			} {
				got, err := file.DetectFormat(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want))
			}
		})

		It("requires an explicit format for unknown extensions", func() {
			_, err := file.New("snapshot.dat", file.FormatAuto)
			Expect(err).To(HaveOccurred())

			src, err := file.New("snapshot.dat", file.FormatJSON)
			Expect(err).NotTo(HaveOccurred())
			Expect(src.Format()).To(Equal(file.FormatJSON))
		})

		It("parses format names", func() {
			f, err := file.ParseFormat("XML")
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(file.FormatGraphML))

			_, err = file.ParseFormat("csv")
			Expect(err).To(HaveOccurred())
		})
	})

	It("reports a missing file as a load error", func() {
		src, err := file.New(filepath.Join(GinkgoT().TempDir(), "missing.json"), file.FormatAuto)
		Expect(err).NotTo(HaveOccurred())
		_, err = src.Read(context.Background())
		Expect(errors.Is(err, graph.ErrLoad)).To(BeTrue())
	})
})
