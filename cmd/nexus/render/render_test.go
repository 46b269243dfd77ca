package render_test

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/cmd/nexus/render"
	"github.com/papercomputeco/nexus/pkg/insight"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/stats"
	"github.com/papercomputeco/nexus/pkg/tracer"
	testutils "github.com/papercomputeco/nexus/pkg/utils/test"
)

var _ = Describe("render", func() {
	var (
		buf *bytes.Buffer
		nav *navigator.Navigator
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		nav = navigator.New(navigator.Static(testutils.KnowledgeSnapshot()))
	})

	Describe("Timestamp", func() {
		It("renders undated nodes as a dash", func() {
			Expect(render.Timestamp(time.Time{})).To(Equal("-"))
		})

		It("renders UTC wall time", func() {
			Expect(render.Timestamp(testutils.BaseTime)).To(Equal("2025-03-01 12:00:00"))
		})
	})

	It("prints stats with the category split", func() {
		render.Stats(buf, &stats.Summary{TotalNodes: 9, TotalEdges: 11, ProcessEdges: 6, SemanticEdges: 5})
		Expect(buf.String()).To(ContainSubstring("Nodes: 9"))
		Expect(buf.String()).To(ContainSubstring("(6 process, 5 semantic)"))
	})

	It("prints a page with the next page hint", func() {
		p, err := nav.List("ConceptNode", 1, 1)
		Expect(err).NotTo(HaveOccurred())

		render.Page(buf, p)
		Expect(buf.String()).To(ContainSubstring("page 1 of 2, 2 total"))
		Expect(buf.String()).To(ContainSubstring("--page 2"))
	})

	It("prints an empty page", func() {
		p, err := nav.List("ConceptNode", 5, 10)
		Expect(err).NotTo(HaveOccurred())

		render.Page(buf, p)
		Expect(buf.String()).To(ContainSubstring("No nodes on this page."))
	})

	It("prints a node with numbered neighbors", func() {
		d, err := nav.Get("task")
		Expect(err).NotTo(HaveOccurred())

		render.Node(buf, d)
		out := buf.String()
		Expect(out).To(ContainSubstring("task-0001"))
		Expect(out).To(ContainSubstring("Predecessors (1)"))
		Expect(out).To(ContainSubstring("Successors (2)"))
		Expect(out).To(ContainSubstring("[1] IS_RESULT_OF"))
	})

	It("pretty prints structured content", func() {
		d, err := nav.Get("res-0001")
		Expect(err).NotTo(HaveOccurred())
		Expect(render.Content(d)).To(ContainSubstring("\"query\": \"sparse attention survey\""))
	})

	It("prints a trace with its totals", func() {
		t, err := tracer.Trace(testutils.KnowledgeSnapshot(), "kc-0001")
		Expect(err).NotTo(HaveOccurred())

		render.Trace(buf, t)
		Expect(buf.String()).To(ContainSubstring("└─> [resp-000] Response"))
		Expect(buf.String()).To(ContainSubstring("6 nodes, 1 back-references"))
	})

	It("prints insight listings", func() {
		idx := insight.New(testutils.KnowledgeSnapshot())
		p, err := idx.List(nil, 1, 10)
		Expect(err).NotTo(HaveOccurred())

		render.Insights(buf, p)
		Expect(buf.String()).To(ContainSubstring("VERIFIED"))
		Expect(buf.String()).To(ContainSubstring("ARCHIVED"))
		Expect(buf.String()).To(ContainSubstring("strength 3"))
	})

	It("prints an empty concept lookup", func() {
		render.ConceptInsights(buf, "nothing", nil)
		Expect(buf.String()).To(ContainSubstring("No insights reference this concept."))
	})
})
