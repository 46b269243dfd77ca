package navigator_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/navigator"
	testutils "github.com/papercomputeco/nexus/pkg/utils/test"
)

func fixture() *graph.Snapshot {
	return testutils.NewDocBuilder().
		Node("imp1", "UserImpulse", testutils.TS(0), "what is memory?").
		Node("task1", "TaskNode", testutils.TS(1), `{"goal": "define memory"}`).
		Node("task2", "TaskNode", testutils.TS(2), "second task").
		Node("rep1", "ReportNode", testutils.TS(3), "memory is retention").
		Node("con1", "ConceptNode", testutils.TS(4), "memory").
		Edge("task1", "imp1", graph.KindIsTaskFor).
		Edge("task2", "imp1", graph.KindIsTaskFor).
		Edge("rep1", "task1", graph.KindIsResultOf).
		Edge("imp1", "con1", graph.KindContainsConcept).
		MustSnapshot()
}

var _ = Describe("Navigator", func() {
	var nav *navigator.Navigator

	BeforeEach(func() {
		nav = navigator.New(navigator.Static(fixture()), navigator.WithKnownTypes("ThemeNode"))
	})

	Describe("List", func() {
		It("lists a type newest first", func() {
			page, err := nav.List("TaskNode", 1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Total).To(Equal(2))
			Expect(page.TotalPages).To(Equal(1))
			Expect(page.Items).To(HaveLen(2))
			Expect(page.Items[0].ID).To(Equal("task2"))
			Expect(page.Items[1].ID).To(Equal("task1"))
		})

		It("returns an empty page past the end", func() {
			page, err := nav.List("TaskNode", 5, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(BeEmpty())
			Expect(page.Total).To(Equal(2))
		})

		It("fails with UnknownType for types outside the schema", func() {
			_, err := nav.List("DreamNode", 1, 10)
			Expect(errors.Is(err, graph.ErrUnknownType)).To(BeTrue())
		})

		It("returns an empty page for a declared type without instances", func() {
			page, err := nav.List("ThemeNode", 1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).To(BeEmpty())
			Expect(page.Total).To(BeZero())
		})

		It("rejects pages below one", func() {
			_, err := nav.List("TaskNode", 0, 10)
			Expect(err).To(MatchError(navigator.ErrInvalidPage))
		})
	})

	Describe("ResolveType", func() {
		It("accepts exact names, indices and unique fragments", func() {
			Expect(nav.ResolveType("ReportNode")).To(Equal("ReportNode"))
			// ConceptNode, ReportNode, TaskNode, ThemeNode, UserImpulse
			Expect(nav.ResolveType("3")).To(Equal("TaskNode"))
			Expect(nav.ResolveType("impulse")).To(Equal("UserImpulse"))
		})

		It("reports ambiguous fragments", func() {
			_, err := nav.ResolveType("node")
			var amb *navigator.AmbiguousTypeError
			Expect(errors.As(err, &amb)).To(BeTrue())
			Expect(amb.Matches).To(ContainElements("TaskNode", "ReportNode"))
		})

		It("rejects unknown names and out of range indices", func() {
			_, err := nav.ResolveType("zebra")
			Expect(errors.Is(err, graph.ErrUnknownType)).To(BeTrue())
			_, err = nav.ResolveType("42")
			Expect(errors.Is(err, graph.ErrUnknownType)).To(BeTrue())
		})
	})

	Describe("Get", func() {
		It("lists predecessors and successors across categories", func() {
			d, err := nav.Get("imp")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Node.ID).To(Equal("imp1"))

			Expect(d.Predecessors).To(HaveLen(2))
			Expect(d.Predecessors[0].Node.ID).To(Equal("task2"))
			Expect(d.Predecessors[1].Node.ID).To(Equal("task1"))
			Expect(d.Predecessors[0].Category).To(Equal(graph.Process))

			Expect(d.Successors).To(HaveLen(1))
			Expect(d.Successors[0].Node.ID).To(Equal("con1"))
			Expect(d.Successors[0].Category).To(Equal(graph.Semantic))
			Expect(d.Successors[0].Index).To(Equal(3))
		})

		It("matches the edge set of every node", func() {
			snap := fixture()
			for _, n := range snap.Nodes() {
				d, err := nav.Get(n.ID)
				Expect(err).NotTo(HaveOccurred())

				var preds, succs []string
				for _, e := range snap.Edges() {
					if e.Target == n.ID {
						preds = append(preds, e.Source+e.Kind)
					}
					if e.Source == n.ID {
						succs = append(succs, e.Target+e.Kind)
					}
				}

				var gotPreds, gotSuccs []string
				for _, p := range d.Predecessors {
					gotPreds = append(gotPreds, p.Node.ID+p.Kind)
				}
				for _, s := range d.Successors {
					gotSuccs = append(gotSuccs, s.Node.ID+s.Kind)
				}
				Expect(gotPreds).To(ConsistOf(preds))
				Expect(gotSuccs).To(ConsistOf(succs))
			}
		})

		It("decodes structured content", func() {
			d, err := nav.Get("task1")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Decoded).To(HaveKeyWithValue("goal", "define memory"))
		})

		It("fails for unknown ids", func() {
			_, err := nav.Get("nothing")
			Expect(errors.Is(err, graph.ErrNotFound)).To(BeTrue())
		})
	})
})
