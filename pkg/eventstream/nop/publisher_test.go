package nop_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/eventstream"
	"github.com/papercomputeco/nexus/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	It("creates a non-nil publisher", func() {
		p := nop.NewPublisher()
		Expect(p).NotTo(BeNil())
	})

	It("returns ErrNilSnapshotEvent for nil events", func() {
		p := nop.NewPublisher()
		err := p.PublishSnapshot(context.Background(), nil)
		Expect(err).To(MatchError(eventstream.ErrNilSnapshotEvent))
	})

	It("succeeds for non-nil events", func() {
		p := nop.NewPublisher()
		err := p.PublishSnapshot(context.Background(), &eventstream.SnapshotEvent{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("closes successfully", func() {
		p := nop.NewPublisher()
		Expect(p.Close()).To(Succeed())
	})
})
