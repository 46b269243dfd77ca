package postgres_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/source/postgres"
	"github.com/papercomputeco/nexus/pkg/source/sqldb"
	testutils "github.com/papercomputeco/nexus/pkg/utils/test"
)

// connStr returns the PostgreSQL connection string from environment or skips the test.
func connStr() string {
	dsn := os.Getenv("NEXUS_TEST_POSTGRES_DSN")
	if dsn == "" {
		Skip("NEXUS_TEST_POSTGRES_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

var _ = Describe("Source", func() {
	var (
		src *postgres.Source
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		dsn := connStr()

		var err error
		src, err = postgres.New(ctx, dsn)
		Expect(err).NotTo(HaveOccurred())
		Expect(sqldb.CreateSchema(ctx, src.DB(), sqldb.Postgres)).To(Succeed())
	})

	AfterEach(func() {
		if src != nil {
			src.Close()
		}
	})

	It("reads back what was written in order", func() {
		doc := testutils.NewDocBuilder().
			Node("z", graph.TypeUserImpulse, testutils.TS(0), "hello").
			Insight("a", testutils.TS(1), "insight", 1, 2).
			Edge("a", "z", graph.KindWasSynthesizedFrom).
			Document()
		Expect(sqldb.Write(ctx, src.DB(), sqldb.Postgres, doc)).To(Succeed())

		got, err := src.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Nodes).To(HaveLen(2))
		Expect(got.Nodes[0].ID).To(Equal("z"))
		Expect(got.Edges).To(Equal(doc.Edges))

		_, err = graph.Build(got)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects an empty dsn", func() {
		_, err := postgres.New(ctx, "")
		Expect(err).To(HaveOccurred())
	})
})
