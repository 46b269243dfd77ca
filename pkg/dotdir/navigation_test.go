package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/dotdir"
)

var _ = Describe("dotdir.Manager navigation state", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		m = dotdir.NewManager()
	})

	It("returns nil when no state file exists", func() {
		state, err := m.LoadNavigationState(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(BeNil())
	})

	It("round-trips the focus and history", func() {
		err := m.SaveNavigationState(&dotdir.NavigationState{
			Source:  "/data/graph.json",
			Current: "resp-0001",
			History: []string{"imp-0001", "task-0001"},
		}, tmpDir)
		Expect(err).NotTo(HaveOccurred())

		state, err := m.LoadNavigationState(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Source).To(Equal("/data/graph.json"))
		Expect(state.Current).To(Equal("resp-0001"))
		Expect(state.History).To(Equal([]string{"imp-0001", "task-0001"}))
		Expect(state.UpdatedAt.IsZero()).To(BeFalse())
	})

	It("rejects a nil state", func() {
		Expect(m.SaveNavigationState(nil, tmpDir)).To(HaveOccurred())
	})

	It("reports a corrupt state file", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "navigation.json"), []byte("{"), 0o600)).To(Succeed())
		_, err := m.LoadNavigationState(tmpDir)
		Expect(err).To(MatchError(ContainSubstring("parsing navigation state")))
	})

	It("clears the state and tolerates clearing twice", func() {
		Expect(m.SaveNavigationState(&dotdir.NavigationState{Current: "x"}, tmpDir)).To(Succeed())
		Expect(m.ClearNavigationState(tmpDir)).To(Succeed())
		Expect(filepath.Join(tmpDir, "navigation.json")).NotTo(BeAnExistingFile())
		Expect(m.ClearNavigationState(tmpDir)).To(Succeed())
	})
})
