package navcmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	navcmder "github.com/papercomputeco/nexus/cmd/nexus/nav"
	"github.com/papercomputeco/nexus/pkg/dotdir"
	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/navigator"
	testutils "github.com/papercomputeco/nexus/pkg/utils/test"
)

var _ = Describe("Navigation commands", func() {
	var (
		ws  *testutils.Workspace
		out *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		ws, err = testutils.NewWorkspace(testutils.KnowledgeDoc())
		Expect(err).NotTo(HaveOccurred())
		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		Expect(ws.Restore()).To(Succeed())
	})

	run := func(cmd *cobra.Command, args ...string) error {
		cmd.SetOut(out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	state := func() *dotdir.NavigationState {
		s, err := dotdir.NewManager().LoadNavigationState("")
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	It("starts idle", func() {
		Expect(run(navcmder.NewStatusCmd())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Not navigating"))
		Expect(state()).To(BeNil())
	})

	It("focuses a node and persists the state", func() {
		Expect(run(navcmder.NewGetCmd(), "task")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("task-0001"))
		Expect(out.String()).To(ContainSubstring("[1] IS_RESULT_OF"))

		s := state()
		Expect(s).NotTo(BeNil())
		Expect(s.Current).To(Equal("task-0001"))
		Expect(s.History).To(BeEmpty())
		Expect(s.Source).To(Equal(ws.Snapshot))
	})

	It("selects neighbors across invocations and goes back", func() {
		Expect(run(navcmder.NewGetCmd(), "task-0001")).To(Succeed())
		Expect(run(navcmder.NewSelectCmd(), "1")).To(Succeed())
		Expect(state().Current).To(Equal("resp-0001"))
		Expect(state().History).To(Equal([]string{"task-0001"}))

		out.Reset()
		Expect(run(navcmder.NewStatusCmd())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("resp-0001"))
		Expect(out.String()).To(ContainSubstring("History:  1"))

		Expect(run(navcmder.NewBackCmd())).To(Succeed())
		Expect(state().Current).To(Equal("task-0001"))
		Expect(state().History).To(BeEmpty())
	})

	It("does nothing on back with an empty history", func() {
		Expect(run(navcmder.NewGetCmd(), "imp")).To(Succeed())
		out.Reset()
		Expect(run(navcmder.NewBackCmd())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("No history"))
		Expect(state().Current).To(Equal("imp-0001"))
	})

	It("keeps the state when a get fails", func() {
		Expect(run(navcmder.NewGetCmd(), "imp")).To(Succeed())

		err := run(navcmder.NewGetCmd(), "kc")
		var ambiguous *graph.AmbiguousIDError
		Expect(err).To(BeAssignableToTypeOf(ambiguous))
		Expect(state().Current).To(Equal("imp-0001"))
	})

	It("rejects select outside Navigation Mode", func() {
		Expect(run(navcmder.NewSelectCmd(), "1")).To(MatchError(navigator.ErrNotFocused))
	})

	It("rejects an out of range choice", func() {
		Expect(run(navcmder.NewGetCmd(), "fact")).To(Succeed())
		err := run(navcmder.NewSelectCmd(), "9")
		var invalid *navigator.InvalidChoiceError
		Expect(err).To(BeAssignableToTypeOf(invalid))
	})

	It("rejects a non-numeric choice", func() {
		Expect(run(navcmder.NewSelectCmd(), "two")).To(MatchError(ContainSubstring("expected a neighbor number")))
	})

	It("clears the state on reset", func() {
		Expect(run(navcmder.NewGetCmd(), "imp")).To(Succeed())
		Expect(run(navcmder.NewResetCmd())).To(Succeed())
		Expect(state()).To(BeNil())
	})

	It("ignores state saved against another snapshot", func() {
		Expect(dotdir.NewManager().SaveNavigationState(&dotdir.NavigationState{
			Source:  "/elsewhere/graph.json",
			Current: "imp-0001",
		}, "")).To(Succeed())

		Expect(run(navcmder.NewStatusCmd())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Not navigating"))
		Expect(state().Source).To(Equal("/elsewhere/graph.json"))
	})

	It("discards a focus that vanished from the snapshot", func() {
		Expect(dotdir.NewManager().SaveNavigationState(&dotdir.NavigationState{
			Source:  ws.Snapshot,
			Current: "gone-0001",
		}, "")).To(Succeed())

		Expect(run(navcmder.NewStatusCmd())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Not navigating"))
		Expect(state()).To(BeNil())
	})
})
