package sourceutils_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/source"
	"github.com/papercomputeco/nexus/pkg/source/file"
	sourceutils "github.com/papercomputeco/nexus/pkg/source/utils"
)

var _ = Describe("NewSource", func() {
	ctx := context.Background()

	It("defaults to the file driver", func() {
		path := filepath.Join(GinkgoT().TempDir(), "g.yaml")
		Expect(os.WriteFile(path, []byte("nodes: []\n"), 0o600)).To(Succeed())

		src, err := sourceutils.NewSource(ctx, &sourceutils.NewSourceOpts{Path: path})
		Expect(err).NotTo(HaveOccurred())
		Expect(src).To(BeAssignableToTypeOf(&file.Source{}))
		Expect(src.(source.Watchable).Path()).To(Equal(path))

		doc, err := src.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Nodes).To(BeEmpty())
	})

	It("honors an explicit format", func() {
		src, err := sourceutils.NewSource(ctx, &sourceutils.NewSourceOpts{
			Driver: sourceutils.DriverFile,
			Path:   "graph.dump",
			Format: "graphml",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(src.(*file.Source).Format()).To(Equal(file.FormatGraphML))
	})

	It("rejects unknown drivers", func() {
		_, err := sourceutils.NewSource(ctx, &sourceutils.NewSourceOpts{Driver: "neo4j"})
		Expect(err).To(MatchError(ContainSubstring("unsupported snapshot driver")))
	})

	It("requires a dsn for postgres", func() {
		_, err := sourceutils.NewSource(ctx, &sourceutils.NewSourceOpts{Driver: sourceutils.DriverPostgres})
		Expect(err).To(HaveOccurred())
	})
})
