package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/eventstream"
	"github.com/papercomputeco/nexus/pkg/eventstream/kafka"
)

var _ = Describe("Publisher", func() {
	It("requires brokers", func() {
		_, err := kafka.NewPublisher(kafka.Config{})
		Expect(err).To(HaveOccurred())
	})

	It("creates a writer without dialing", func() {
		p, err := kafka.NewPublisher(kafka.Config{Brokers: []string{"127.0.0.1:1"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Close()).To(Succeed())
	})

	It("writes the event as json keyed by source", func() {
		var got []kafkago.Message
		p := kafka.NewPublisherWithWriter(func(ctx context.Context, msgs ...kafkago.Message) error {
			_, hasDeadline := ctx.Deadline()
			Expect(hasDeadline).To(BeTrue())
			got = append(got, msgs...)
			return nil
		}, time.Second)

		ev := eventstream.NewSnapshotLoaded("graph.json", 3, eventstream.Counts{Nodes: 2, Edges: 1, Types: 2})
		Expect(p.PublishSnapshot(context.Background(), ev)).To(Succeed())

		Expect(got).To(HaveLen(1))
		Expect(string(got[0].Key)).To(Equal("graph.json"))
		Expect(got[0].Headers).To(ContainElement(kafkago.Header{
			Key: "event_type", Value: []byte(eventstream.EventTypeSnapshotLoaded),
		}))

		var decoded eventstream.SnapshotEvent
		Expect(json.Unmarshal(got[0].Value, &decoded)).To(Succeed())
		Expect(decoded.Generation).To(Equal(uint64(3)))
		Expect(decoded.Stats.Nodes).To(Equal(2))
	})

	It("wraps writer failures", func() {
		p := kafka.NewPublisherWithWriter(func(context.Context, ...kafkago.Message) error {
			return errors.New("broker down")
		}, 0)
		err := p.PublishSnapshot(context.Background(), eventstream.NewSnapshotLoadFailed("x", 1, errors.New("bad")))
		Expect(err).To(MatchError(ContainSubstring("broker down")))
	})

	It("rejects nil events", func() {
		p := kafka.NewPublisherWithWriter(func(context.Context, ...kafkago.Message) error { return nil }, 0)
		Expect(p.PublishSnapshot(context.Background(), nil)).To(MatchError(eventstream.ErrNilSnapshotEvent))
	})
})
