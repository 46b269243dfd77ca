package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/logger"
)

// failingHandler accepts every level and fails every record.
type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("disk full")
}

func decodeJSON(buf *bytes.Buffer) map[string]any {
	GinkgoHelper()
	var parsed map[string]any
	Expect(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed(), buf.String())
	return parsed
}

var _ = Describe("New", func() {
	It("writes text at Info by default", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf))
		l.Debug("hidden")
		l.Info("snapshot loaded", "generation", 3)

		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("snapshot loaded"))
		Expect(buf.String()).To(ContainSubstring("generation=3"))
	})

	It("applies an explicit level", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithLevel(slog.LevelWarn))
		l.Info("quiet")
		l.Warn("loud")

		Expect(buf.String()).NotTo(ContainSubstring("quiet"))
		Expect(buf.String()).To(ContainSubstring("loud"))
	})

	It("writes JSON", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithFormat(logger.FormatJSON))
		l.Info("structured", "count", 42)

		parsed := decodeJSON(&buf)
		Expect(parsed["msg"]).To(Equal("structured"))
		Expect(parsed["count"]).To(BeNumerically("==", 42))
	})

	It("writes pretty output", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithFormat(logger.FormatPretty), logger.WithLevel(slog.LevelDebug))
		l.Debug("pretty output")

		Expect(buf.String()).To(ContainSubstring("pretty output"))
	})

	It("adds the caller location on request", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithFormat(logger.FormatJSON), logger.WithSource(true))
		l.Info("located")

		Expect(decodeJSON(&buf)).To(HaveKey(slog.SourceKey))
	})

	It("nests grouped keys", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithFormat(logger.FormatJSON))
		l.With("service", "api").WithGroup("request").Info("processed", "method", "GET")

		parsed := decodeJSON(&buf)
		Expect(parsed["service"]).To(Equal("api"))
		Expect(parsed["request"]).To(HaveKeyWithValue("method", "GET"))
	})
})

var _ = Describe("ParseFormat", func() {
	DescribeTable("known formats",
		func(in string, want logger.Format) {
			got, err := logger.ParseFormat(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
			if in != "" {
				Expect(got.String()).To(Equal(strings.ToLower(strings.TrimSpace(in))))
			}
		},
		Entry("empty", "", logger.FormatText),
		Entry("text", "text", logger.FormatText),
		Entry("pretty", "pretty", logger.FormatPretty),
		Entry("json, any case", " JSON ", logger.FormatJSON),
	)

	It("rejects unknown formats", func() {
		_, err := logger.ParseFormat("xml")
		Expect(err).To(MatchError(ContainSubstring(`unknown log format "xml"`)))
	})
})

var _ = Describe("Nop", func() {
	It("is disabled at every level", func() {
		l := logger.Nop()
		Expect(l.Enabled(context.Background(), slog.LevelError)).To(BeFalse())
		Expect(func() { l.With("k", "v").WithGroup("g").Error("msg") }).NotTo(Panic())
	})
})

var _ = Describe("Multi", func() {
	It("routes each record by every handler's own level", func() {
		var term, file bytes.Buffer
		l := logger.Multi(
			logger.New(logger.WithWriter(&term), logger.WithFormat(logger.FormatPretty)),
			logger.New(logger.WithWriter(&file), logger.WithFormat(logger.FormatJSON), logger.WithLevel(slog.LevelDebug)),
		)
		l.Debug("watching snapshot file", "path", "graph.json")

		Expect(term.String()).To(BeEmpty())
		Expect(file.String()).To(ContainSubstring(`"path":"graph.json"`))
	})

	It("carries With and WithGroup to every handler", func() {
		var a, b bytes.Buffer
		l := logger.Multi(
			logger.New(logger.WithWriter(&a), logger.WithFormat(logger.FormatJSON)),
			logger.New(logger.WithWriter(&b), logger.WithFormat(logger.FormatJSON)),
		)
		l.With("component", "store").WithGroup("snapshot").Info("loaded", "generation", 2)

		for _, buf := range []*bytes.Buffer{&a, &b} {
			parsed := decodeJSON(buf)
			Expect(parsed["component"]).To(Equal("store"))
			Expect(parsed["snapshot"]).To(HaveKeyWithValue("generation", BeNumerically("==", 2)))
		}
	})

	It("keeps writing after one handler fails", func() {
		var buf bytes.Buffer
		h := logger.Multi(
			slog.New(failingHandler{}),
			logger.New(logger.WithWriter(&buf)),
		).Handler()

		r := slog.NewRecord(time.Now(), slog.LevelInfo, "still here", 0)
		Expect(h.Handle(context.Background(), r)).To(MatchError("disk full"))
		Expect(buf.String()).To(ContainSubstring("still here"))
	})
})
