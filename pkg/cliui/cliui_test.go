package cliui_test

import (
	"bytes"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/cliui"
	"github.com/papercomputeco/nexus/pkg/graph"
)

var _ = Describe("FormatDuration", func() {
	It("formats sub-second durations in milliseconds", func() {
		Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
	})

	It("formats longer durations in seconds", func() {
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})

var _ = Describe("Mark", func() {
	It("distinguishes success from failure", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
		Expect(cliui.Mark(errors.New("boom"))).To(Equal(cliui.FailMark))
	})
})

var _ = Describe("Step", func() {
	It("returns the error of the wrapped function", func() {
		var buf bytes.Buffer
		err := cliui.Step(&buf, "loading snapshot", func() error {
			return errors.New("broken")
		})
		Expect(err).To(MatchError("broken"))
		Expect(buf.String()).To(ContainSubstring("loading snapshot"))
	})

	It("writes a single line when the writer is not a terminal", func() {
		var buf bytes.Buffer
		Expect(cliui.Step(&buf, "loading snapshot", func() error {
			time.Sleep(100 * time.Millisecond)
			return nil
		})).To(Succeed())

		out := buf.String()
		Expect(out).NotTo(ContainSubstring("\r"))
		Expect(strings.Count(out, "\n")).To(Equal(1))
		Expect(out).To(ContainSubstring(cliui.SuccessMark + " loading snapshot"))
	})
})

var _ = Describe("TerminalWidth", func() {
	It("is zero for a buffer", func() {
		Expect(cliui.TerminalWidth(&bytes.Buffer{})).To(BeZero())
	})
})

var _ = Describe("RenderMarkdown", func() {
	It("keeps the text of the content", func() {
		out, err := cliui.RenderMarkdown("# Finding\n\nEdges **reuse** nodes.", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Finding"))
		Expect(out).To(ContainSubstring("reuse"))
	})
})

var _ = Describe("styles", func() {
	It("keeps the text of edge kinds and statuses", func() {
		Expect(cliui.EdgeKind("IS_TASK_FOR", graph.Process)).To(ContainSubstring("IS_TASK_FOR"))
		Expect(cliui.EdgeKind("MENTIONS", graph.Semantic)).To(ContainSubstring("MENTIONS"))
		Expect(cliui.Status("ARCHIVED")).To(ContainSubstring("ARCHIVED"))
	})
})
