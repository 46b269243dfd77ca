package opener_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/nexus/cmd/nexus/opener"
	"github.com/papercomputeco/nexus/pkg/config"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/store"
	testutils "github.com/papercomputeco/nexus/pkg/utils/test"
)

func newCmd(args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "probe"}
	cmd.Flags().Bool("debug", false, "")
	cmd.Flags().String("config-dir", "", "")
	opener.AddSnapshotFlags(cmd)
	config.AddIntFlag(cmd, config.Flags, config.FlagPageSize, new(int))
	Expect(cmd.Flags().Parse(args)).To(Succeed())
	return cmd
}

var _ = Describe("Open", func() {
	var (
		ctx context.Context
		ws  *testutils.Workspace
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		ws, err = testutils.NewWorkspace(testutils.KnowledgeDoc())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(ws.Restore()).To(Succeed())
	})

	It("discovers and loads the snapshot of the working directory", func() {
		o, err := opener.Open(ctx, newCmd())
		Expect(err).NotTo(HaveOccurred())
		defer o.Close()

		Expect(o.Store.Source().Name()).To(Equal(ws.Snapshot))
		s, err := o.Engine.Stats()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.TotalNodes).To(Equal(9))
	})

	It("applies bound flags over the defaults", func() {
		o, err := opener.Open(ctx, newCmd("--limit", "3"), opener.WithFlags(config.FlagPageSize))
		Expect(err).NotTo(HaveOccurred())
		defer o.Close()

		Expect(o.Config.Navigation.PageSize).To(Equal(3))
	})

	It("ignores flags that were not asked for", func() {
		o, err := opener.Open(ctx, newCmd("--limit", "3"))
		Expect(err).NotTo(HaveOccurred())
		defer o.Close()

		Expect(o.Config.Navigation.PageSize).To(Equal(10))
	})

	It("skips the initial load when asked", func() {
		o, err := opener.Open(ctx, newCmd(), opener.WithoutLoad())
		Expect(err).NotTo(HaveOccurred())
		defer o.Close()

		_, err = o.Engine.Stats()
		Expect(err).To(MatchError(store.ErrNotLoaded))
	})

	It("appends debug JSON logs to a log file", func() {
		path := filepath.Join(ws.Dir, "nexus.log")
		o, err := opener.Open(ctx, newCmd(), opener.WithLogFile(path))
		Expect(err).NotTo(HaveOccurred())

		o.Logger.Debug("probe written", "stage", "test")
		Expect(o.Close()).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"msg":"probe written"`))
		Expect(string(data)).To(ContainSubstring(`"level":"DEBUG"`))
	})

	It("fails when the log file cannot be opened", func() {
		_, err := opener.Open(ctx, newCmd(), opener.WithLogFile(filepath.Join(ws.Dir, "missing", "nexus.log")))
		Expect(err).To(MatchError(ContainSubstring("opening log file")))
	})

	It("rejects edge kinds that change category", func() {
		cfger, err := config.NewConfiger("")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfger.SetConfigValue("edges.semantic", "IS_TASK_FOR")).To(Succeed())

		_, err = opener.Open(ctx, newCmd())
		Expect(err).To(MatchError(ContainSubstring("already registered as process")))
	})

	Describe("navigation state", func() {
		It("round-trips a focused session", func() {
			o, err := opener.Open(ctx, newCmd())
			Expect(err).NotTo(HaveOccurred())
			defer o.Close()

			sess, err := o.Session()
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Mode()).To(Equal(navigator.Idle))

			_, err = sess.Get("task")
			Expect(err).NotTo(HaveOccurred())
			_, err = sess.Select(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(o.SaveSession(sess)).To(Succeed())

			restored, err := o.Session()
			Expect(err).NotTo(HaveOccurred())
			Expect(restored.Current()).To(Equal("resp-0001"))
			Expect(restored.History()).To(Equal([]string{"task-0001"}))
			Expect(restored.Last()).NotTo(BeNil())
		})
	})
})

var _ = Describe("NewLogger", func() {
	It("honors the level", func() {
		log := opener.NewLogger(slog.LevelWarn, true)
		Expect(log.Enabled(context.Background(), slog.LevelInfo)).To(BeFalse())
		Expect(log.Enabled(context.Background(), slog.LevelWarn)).To(BeTrue())
	})
})

var _ = Describe("Open as a service", func() {
	It("broadcasts snapshot events", func() {
		ws, err := testutils.NewWorkspace(testutils.KnowledgeDoc())
		Expect(err).NotTo(HaveOccurred())
		defer func() { Expect(ws.Restore()).To(Succeed()) }()

		ctx := context.Background()
		o, err := opener.Open(ctx, newCmd(), opener.AsService())
		Expect(err).NotTo(HaveOccurred())
		defer o.Close()
		Expect(o.Events).NotTo(BeNil())

		events, cancel := o.Events.Subscribe(1)
		defer cancel()

		_, err = o.Store.Reload(ctx)
		Expect(err).NotTo(HaveOccurred())
		Eventually(events).Should(Receive(HaveField("Generation", uint64(2))))
	})

	It("leaves one-shot commands without a broadcaster", func() {
		ws, err := testutils.NewWorkspace(testutils.KnowledgeDoc())
		Expect(err).NotTo(HaveOccurred())
		defer func() { Expect(ws.Restore()).To(Succeed()) }()

		o, err := opener.Open(context.Background(), newCmd())
		Expect(err).NotTo(HaveOccurred())
		defer o.Close()
		Expect(o.Events).To(BeNil())
	})
})
