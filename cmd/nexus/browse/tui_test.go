package browsecmder

import (
	"context"

	bubbletea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/engine"
	"github.com/papercomputeco/nexus/pkg/navigator"
	"github.com/papercomputeco/nexus/pkg/store"
	testutils "github.com/papercomputeco/nexus/pkg/utils/test"
)

func keyRunes(s string) bubbletea.KeyMsg {
	return bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: []rune(s)}
}

func press(m browseModel, msgs ...bubbletea.Msg) browseModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(browseModel)
	}
	return m
}

var _ = Describe("Browse TUI", func() {
	var (
		eng   *engine.Engine
		sess  *navigator.Session
		model browseModel
		enter = bubbletea.KeyMsg{Type: bubbletea.KeyEnter}
	)

	BeforeEach(func() {
		eng = engine.New(store.New(testutils.NewMockSource(testutils.KnowledgeDoc())), engine.Config{})
		_, err := eng.LoadOrReload(context.Background())
		Expect(err).NotTo(HaveOccurred())

		sess = eng.NewSession()
		model, err = newBrowseModel(eng, sess, 1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts on the type list when idle", func() {
		Expect(model.view).To(Equal(viewTypes))
		Expect(model.types).To(HaveLen(7))
		Expect(model.View()).To(ContainSubstring("Node types"))
	})

	It("starts on the focused node when the session is focused", func() {
		_, err := sess.Get("kc-0001")
		Expect(err).NotTo(HaveOccurred())

		m, err := newBrowseModel(eng, sess, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.view).To(Equal(viewNode))
	})

	It("opens a type, pages and focuses a node", func() {
		// Types are sorted by name: ConceptNode comes first.
		m := press(model, enter)
		Expect(m.view).To(Equal(viewList))
		Expect(m.page.Type).To(Equal("ConceptNode"))
		Expect(m.page.TotalPages).To(Equal(2))

		m = press(m, keyRunes("n"))
		Expect(m.page.Page).To(Equal(2))
		m = press(m, keyRunes("p"))
		Expect(m.page.Page).To(Equal(1))

		m = press(m, enter)
		Expect(m.view).To(Equal(viewNode))
		Expect(sess.Mode()).To(Equal(navigator.Focused))
	})

	It("follows neighbors and walks back through the history", func() {
		_, err := sess.Get("task-0001")
		Expect(err).NotTo(HaveOccurred())
		m, err := newBrowseModel(eng, sess, 1)
		Expect(err).NotTo(HaveOccurred())

		m = press(m, enter)
		Expect(sess.Current()).To(Equal("resp-0001"))
		Expect(sess.History()).To(Equal([]string{"task-0001"}))

		m = press(m, keyRunes("h"))
		Expect(sess.Current()).To(Equal("task-0001"))
		Expect(m.view).To(Equal(viewNode))

		m = press(m, keyRunes("h"))
		Expect(sess.Mode()).To(Equal(navigator.Idle))
		Expect(m.view).To(Equal(viewTypes))
	})

	It("clamps the cursor to the rows of the view", func() {
		m := press(model, keyRunes("k"))
		Expect(m.cursor).To(Equal(0))

		for range 20 {
			m = press(m, keyRunes("j"))
		}
		Expect(m.cursor).To(Equal(len(m.types) - 1))
	})

	It("shows the trace of the focused node", func() {
		_, err := sess.Get("kc-0001")
		Expect(err).NotTo(HaveOccurred())
		m, err := newBrowseModel(eng, sess, 1)
		Expect(err).NotTo(HaveOccurred())

		m = press(m, keyRunes("t"))
		Expect(m.view).To(Equal(viewTrace))
		Expect(m.trace).To(HaveLen(7))
		Expect(m.View()).To(ContainSubstring("link to UserImpulse"))

		m = press(m, bubbletea.KeyMsg{Type: bubbletea.KeyEsc})
		Expect(m.view).To(Equal(viewNode))
	})

	It("resets to the type list", func() {
		_, err := sess.Get("kc-0001")
		Expect(err).NotTo(HaveOccurred())
		m, err := newBrowseModel(eng, sess, 1)
		Expect(err).NotTo(HaveOccurred())

		m = press(m, keyRunes("r"))
		Expect(m.view).To(Equal(viewTypes))
		Expect(sess.Mode()).To(Equal(navigator.Idle))
	})

	It("truncates rows to the window width", func() {
		m := press(model, bubbletea.WindowSizeMsg{Width: 12, Height: 20})
		Expect(m.fit("a very long line of text")).To(Equal("a very lo…"))
	})
})
