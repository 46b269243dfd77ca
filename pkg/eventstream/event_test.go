package eventstream_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/nexus/pkg/eventstream"
)

var _ = Describe("Event", func() {
	It("marshals SnapshotEvent with expected top-level keys", func() {
		event := eventstream.NewSnapshotLoaded("graph.json", 2, eventstream.Counts{Nodes: 5, Edges: 4, Types: 2, DurationMs: 12})

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKeyWithValue("event_type", eventstream.EventTypeSnapshotLoaded))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKeyWithValue("source", "graph.json"))
		Expect(got).To(HaveKey("stats"))
		Expect(got).NotTo(HaveKey("error"))
	})

	It("stamps each event with a unique id", func() {
		a := eventstream.NewSnapshotLoaded("s", 1, eventstream.Counts{})
		b := eventstream.NewSnapshotLoaded("s", 1, eventstream.Counts{})
		Expect(a.EventID).NotTo(BeEmpty())
		Expect(a.EventID).NotTo(Equal(b.EventID))
	})

	It("carries the failure message", func() {
		ev := eventstream.NewSnapshotLoadFailed("s", 4, errors.New("duplicate id"))
		Expect(ev.EventType).To(Equal(eventstream.EventTypeSnapshotLoadFailed))
		Expect(ev.Generation).To(Equal(uint64(4)))
		Expect(ev.Error).To(Equal("duplicate id"))
		Expect(ev.Stats).To(BeNil())
	})

	It("provides ErrNilSnapshotEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilSnapshotEvent).To(MatchError("nil snapshot event"))
	})
})
