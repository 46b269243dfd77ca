package sse_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/sse"
)

func next(r *sse.Reader) *sse.Event {
	GinkgoHelper()
	ev, err := r.Next()
	Expect(err).NotTo(HaveOccurred())
	return ev
}

var _ = Describe("Reader", func() {
	Context("with standard SSE events", func() {
		It("parses a single event", func() {
			r := sse.NewReader(strings.NewReader("data: hello world\n\n"))

			ev := next(r)
			Expect(ev.Data).To(Equal("hello world"))
			Expect(ev.Type).To(BeEmpty())
			Expect(ev.ID).To(BeEmpty())

			Expect(next(r)).To(BeNil())
		})

		It("parses typed snapshot events in order", func() {
			input := "event: nexus.snapshot.loaded\ndata: {\"generation\":1}\n\n" +
				"event: nexus.snapshot.load_failed\ndata: {\"generation\":1,\"error\":\"bad edge\"}\n\n"
			r := sse.NewReader(strings.NewReader(input))

			ev1 := next(r)
			Expect(ev1.Type).To(Equal("nexus.snapshot.loaded"))
			Expect(ev1.Data).To(Equal(`{"generation":1}`))

			ev2 := next(r)
			Expect(ev2.Type).To(Equal("nexus.snapshot.load_failed"))
			Expect(ev2.Data).To(ContainSubstring("bad edge"))

			Expect(next(r)).To(BeNil())
		})

		It("parses the event ID", func() {
			ev := next(sse.NewReader(strings.NewReader("id: 42\ndata: hello\n\n")))
			Expect(ev.ID).To(Equal("42"))
			Expect(ev.Data).To(Equal("hello"))
		})

		It("joins multiple data lines with newline", func() {
			ev := next(sse.NewReader(strings.NewReader("data: line one\ndata: line two\ndata: line three\n\n")))
			Expect(ev.Data).To(Equal("line one\nline two\nline three"))
		})
	})

	Context("with comments", func() {
		It("skips keep-alive comments", func() {
			r := sse.NewReader(strings.NewReader(": keep-alive\n\n: keep-alive\n\ndata: hello\n\n"))
			Expect(next(r).Data).To(Equal("hello"))
		})
	})

	Context("with data field variations", func() {
		It("handles no space after the colon", func() {
			Expect(next(sse.NewReader(strings.NewReader("data:no-space\n\n"))).Data).To(Equal("no-space"))
		})

		It("handles an empty data field", func() {
			ev := next(sse.NewReader(strings.NewReader("data: \n\n")))
			Expect(ev).NotTo(BeNil())
			Expect(ev.Data).To(BeEmpty())
		})
	})

	Context("edge cases", func() {
		It("returns nil on empty input", func() {
			Expect(next(sse.NewReader(strings.NewReader("")))).To(BeNil())
		})

		It("returns nil on input with only blank lines", func() {
			Expect(next(sse.NewReader(strings.NewReader("\n\n\n")))).To(BeNil())
		})

		It("yields an event when the stream ends without a blank line", func() {
			r := sse.NewReader(strings.NewReader("data: unterminated"))
			Expect(next(r).Data).To(Equal("unterminated"))
			Expect(next(r)).To(BeNil())
		})

		It("ignores unknown fields", func() {
			ev := next(sse.NewReader(strings.NewReader("foo: bar\ndata: hello\n\n")))
			Expect(ev.Data).To(Equal("hello"))
		})

		It("drops blocks without data", func() {
			r := sse.NewReader(strings.NewReader("event: ping\n\ndata: after\n\n"))
			ev := next(r)
			Expect(ev.Type).To(BeEmpty())
			Expect(ev.Data).To(Equal("after"))
		})
	})

	Context("with reconnection fields", func() {
		It("carries the last id over to later events", func() {
			r := sse.NewReader(strings.NewReader("id: 3\ndata: a\n\ndata: b\n\nid:\ndata: c\n\n"))
			Expect(next(r).ID).To(Equal("3"))
			Expect(next(r).ID).To(Equal("3"))
			Expect(next(r).ID).To(BeEmpty())
			Expect(r.LastID()).To(BeEmpty())
		})

		It("records the retry delay", func() {
			r := sse.NewReader(strings.NewReader("retry: 3000\ndata: hello\n\nretry: soon\n\n"))
			Expect(next(r).Data).To(Equal("hello"))
			Expect(next(r)).To(BeNil())
			Expect(r.Retry()).To(Equal(3 * time.Second))
		})
	})
})

var _ = Describe("Write", func() {
	It("frames an event with its id and type", func() {
		var b strings.Builder
		Expect(sse.Write(&b, sse.Event{ID: "7", Type: "nexus.snapshot.loaded", Data: `{"generation":7}`})).To(Succeed())
		Expect(b.String()).To(Equal("id: 7\nevent: nexus.snapshot.loaded\ndata: {\"generation\":7}\n\n"))
	})

	It("splits multi-line data so the reader restores it", func() {
		var b strings.Builder
		Expect(sse.Write(&b, sse.Event{Data: "first\nsecond"})).To(Succeed())
		Expect(sse.Comment(&b, "keep-alive")).To(Succeed())
		Expect(sse.Write(&b, sse.Event{Type: "done", Data: "ok"})).To(Succeed())

		r := sse.NewReader(strings.NewReader(b.String()))
		Expect(next(r).Data).To(Equal("first\nsecond"))
		ev := next(r)
		Expect(ev.Type).To(Equal("done"))
		Expect(ev.Data).To(Equal("ok"))
	})
})
