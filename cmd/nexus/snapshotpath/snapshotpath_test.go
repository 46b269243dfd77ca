package snapshotpath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSnapshotPath", func() {
	var (
		homeDir string
		cwdDir  string
	)

	BeforeEach(func() {
		origCwd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			Expect(os.Chdir(origCwd)).To(Succeed())
		})

		homeDir = GinkgoT().TempDir()
		cwdDir = GinkgoT().TempDir()

		GinkgoT().Setenv("HOME", homeDir)
		GinkgoT().Setenv("XDG_DATA_HOME", "")
		Expect(os.Chdir(cwdDir)).To(Succeed())
	})

	It("prefers the override", func() {
		path, err := ResolveSnapshotPath("/tmp/custom.json", "file")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/custom.json"))
	})

	It("finds a snapshot in the working directory first", func() {
		Expect(os.WriteFile(filepath.Join(cwdDir, "graph.yaml"), []byte("nodes: []"), 0o644)).To(Succeed())

		homeSnap := filepath.Join(homeDir, ".nexus", "graph.json")
		Expect(os.MkdirAll(filepath.Dir(homeSnap), 0o755)).To(Succeed())
		Expect(os.WriteFile(homeSnap, []byte(`{"nodes": []}`), 0o644)).To(Succeed())

		path, err := ResolveSnapshotPath("", "file")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("graph.yaml"))
	})

	It("resolves ~/.nexus/graph.db for the sqlite driver", func() {
		dbPath := filepath.Join(homeDir, ".nexus", "graph.db")
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSnapshotPath("", "sqlite")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("looks under XDG_DATA_HOME", func() {
		xdg := GinkgoT().TempDir()
		GinkgoT().Setenv("XDG_DATA_HOME", xdg)

		snap := filepath.Join(xdg, "nexus", "graph.graphml")
		Expect(os.MkdirAll(filepath.Dir(snap), 0o755)).To(Succeed())
		Expect(os.WriteFile(snap, []byte("<graphml/>"), 0o644)).To(Succeed())

		path, err := ResolveSnapshotPath("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(snap))
	})

	It("fails when nothing is found", func() {
		_, err := ResolveSnapshotPath("", "file")
		Expect(err).To(MatchError(ContainSubstring("pass --snapshot")))
	})
})
