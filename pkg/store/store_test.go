package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/eventstream"
	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/source/file"
	"github.com/papercomputeco/nexus/pkg/store"
	testutils "github.com/papercomputeco/nexus/pkg/utils/test"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.SnapshotEvent
}

func (p *recordingPublisher) PublishSnapshot(_ context.Context, ev *eventstream.SnapshotEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []string{}
	for _, ev := range p.events {
		out = append(out, ev.EventType)
	}
	return out
}

func smallDoc() *graph.Document {
	return testutils.NewDocBuilder().
		Node("imp", graph.TypeUserImpulse, testutils.TS(0), "hello").
		Node("resp", "Response", testutils.TS(1), "hi").
		Edge("resp", "imp", graph.KindIsResponseTo).
		Document()
}

var _ = Describe("Store", func() {
	var (
		ctx context.Context
		src *testutils.MockSource
		pub *recordingPublisher
		s   *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		src = testutils.NewMockSource(smallDoc())
		pub = &recordingPublisher{}
		s = store.New(src, store.WithPublisher(pub))
	})

	It("reports ErrNotLoaded before the first load", func() {
		_, err := s.Current()
		Expect(err).To(MatchError(store.ErrNotLoaded))
		Expect(s.Status().Loaded).To(BeFalse())
	})

	It("loads and publishes the snapshot", func() {
		snap, err := s.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(snap.Generation()).To(Equal(uint64(1)))

		cur, err := s.Current()
		Expect(err).NotTo(HaveOccurred())
		Expect(cur).To(BeIdenticalTo(snap))
		Expect(pub.types()).To(Equal([]string{eventstream.EventTypeSnapshotLoaded}))
	})

	It("swaps in a new snapshot while old handles stay intact", func() {
		old, err := s.Load(ctx)
		Expect(err).NotTo(HaveOccurred())

		src.Set(testutils.NewDocBuilder().Node("other", "Note", "", "").Document())
		fresh, err := s.Reload(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(fresh.Generation()).To(Equal(uint64(2)))
		Expect(old.NodeCount()).To(Equal(2))
		_, err = old.NodeByID("imp")
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh.NodeCount()).To(Equal(1))
	})

	It("keeps the previous snapshot when a reload fails validation", func() {
		old, err := s.Load(ctx)
		Expect(err).NotTo(HaveOccurred())

		src.Set(testutils.NewDocBuilder().
			Node("a", "Note", "", "").
			Node("a", "Note", "", "").
			Document())
		_, err = s.Reload(ctx)
		Expect(errors.Is(err, graph.ErrLoad)).To(BeTrue())

		cur, err := s.Current()
		Expect(err).NotTo(HaveOccurred())
		Expect(cur).To(BeIdenticalTo(old))

		st := s.Status()
		Expect(st.Generation).To(Equal(uint64(1)))
		Expect(st.LastError).To(ContainSubstring("duplicate id"))
		Expect(pub.types()).To(Equal([]string{
			eventstream.EventTypeSnapshotLoaded,
			eventstream.EventTypeSnapshotLoadFailed,
		}))
	})

	It("wraps read failures as load errors", func() {
		src.Fail(errors.New("disk gone"))
		_, err := s.Load(ctx)
		Expect(errors.Is(err, graph.ErrLoad)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("disk gone"))

		_, err = s.Current()
		Expect(err).To(MatchError(store.ErrNotLoaded))
	})

	It("clears the last error after a successful reload", func() {
		src.Fail(errors.New("transient"))
		_, _ = s.Load(ctx)
		Expect(s.Status().LastError).NotTo(BeEmpty())

		src.Set(smallDoc())
		_, err := s.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Status().LastError).To(BeEmpty())
		Expect(s.Status().Generation).To(Equal(uint64(1)))
	})

	It("validates against the configured kinds", func() {
		kinds, err := graph.DefaultKinds().Extend([]string{"CUSTOM_FLOW"}, nil)
		Expect(err).NotTo(HaveOccurred())

		src.Set(testutils.NewDocBuilder().
			Node("a", "Note", "", "").
			Node("b", "Note", "", "").
			Edge("a", "b", "CUSTOM_FLOW").
			Document())

		_, err = s.Load(ctx)
		Expect(err).To(HaveOccurred())

		s = store.New(src, store.WithKinds(kinds))
		snap, err := s.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(snap.Edges()[0].Category).To(Equal(graph.Process))
	})

	It("serves concurrent readers during reloads", func() {
		_, err := s.Load(ctx)
		Expect(err).NotTo(HaveOccurred())

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for range 50 {
					snap, err := s.Current()
					Expect(err).NotTo(HaveOccurred())
					Expect(snap.NodeCount()).To(Equal(2))
				}
			}()
		}
		for range 10 {
			_, err := s.Reload(ctx)
			Expect(err).NotTo(HaveOccurred())
		}
		wg.Wait()
		Expect(s.Status().Generation).To(Equal(uint64(11)))
	})

	Describe("Watch", func() {
		It("polls at the reload interval", func() {
			s = store.New(src, store.WithReloadInterval(10*time.Millisecond))
			wctx, cancel := context.WithCancel(ctx)
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- s.Watch(wctx) }()

			Eventually(func() uint64 { return s.Status().Generation }).Should(BeNumerically(">=", 2))
			cancel()
			Eventually(done).Should(Receive(BeNil()))
		})

		It("refuses to watch a source without a file", func() {
			Expect(s.Watch(ctx)).To(MatchError(ContainSubstring("cannot be watched")))
		})

		It("reloads after the file changes", func() {
			path := filepath.Join(GinkgoT().TempDir(), "graph.json")
			Expect(os.WriteFile(path, []byte(`{"nodes": [{"id": "a", "type": "Note"}]}`), 0o600)).To(Succeed())

			fsrc, err := file.New(path, file.FormatAuto)
			Expect(err).NotTo(HaveOccurred())
			s = store.New(fsrc, store.WithDebounce(20*time.Millisecond))
			_, err = s.Load(ctx)
			Expect(err).NotTo(HaveOccurred())

			wctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() { _ = s.Watch(wctx) }()

			// Give the watcher time to register before writing.
			time.Sleep(100 * time.Millisecond)
			Expect(os.WriteFile(path, []byte(`{"nodes": [{"id": "a", "type": "Note"}, {"id": "b", "type": "Note"}]}`), 0o600)).To(Succeed())

			Eventually(func() int {
				snap, _ := s.Current()
				return snap.NodeCount()
			}, 5*time.Second).Should(Equal(2))
		})
	})
})
