package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("truncate", func() {
	It("returns the string unchanged when within the limit", func() {
		Expect(Truncate("short", 10)).To(Equal("short"))
	})

	It("returns the string unchanged when exactly at the limit", func() {
		Expect(Truncate("12345", 5)).To(Equal("12345"))
	})

	It("truncates with ellipsis inside the limit", func() {
		result := Truncate("this is a long string", 10)
		Expect(result).To(Equal("this is..."))
	})
})

var _ = Describe("preview", func() {
	It("flattens newlines and repeated spaces", func() {
		Expect(Preview("line one\n\n  line   two", 80)).To(Equal("line one line two"))
	})

	It("keeps an 80 cell budget", func() {
		result := Preview(strings.Repeat("a", 100), 80)
		Expect(ansi.StringWidth(result)).To(Equal(80))
		Expect(result).To(HaveSuffix("..."))
	})
})

var _ = Describe("short id", func() {
	It("keeps the first eight characters", func() {
		Expect(ShortID("0123456789abcdef")).To(Equal("01234567"))
		Expect(ShortID("abc")).To(Equal("abc"))
	})

	It("cuts multi-byte ids on character boundaries", func() {
		short := ShortID("größenänderung")
		Expect(utf8.ValidString(short)).To(BeTrue())
		Expect(short).To(Equal("größenän"))

		Expect(utf8.ValidString(ShortID("ノード識別子です"))).To(BeTrue())
		Expect(ShortID("ノード識別子です")).To(Equal("ノード識"))
	})
})
