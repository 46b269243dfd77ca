package testutils

import "github.com/papercomputeco/nexus/pkg/graph"

// KnowledgeDoc is a small but complete knowledge graph: one impulse answered
// through a task, research and a response, two concepts and two insights.
//
// Tracing kc-0001 yields
//
//	kc-0001
//	└─> resp-0001
//	    ├─> task-0001
//	    │   ├─> res-0001
//	    │   │   └─> fact-0001
//	    │   └─> imp-0001
//	    └─> imp-0001 (back-reference)
func KnowledgeDoc() *graph.Document {
	return NewDocBuilder().
		Node("imp-0001", graph.TypeUserImpulse, TS(0), "How do transformers handle long context?").
		Node("con-0001", graph.TypeConcept, TS(0), "attention").
		Node("con-0002", graph.TypeConcept, TS(0), "context window").
		Node("task-0001", "Task", TS(1), "Research long-context attention").
		Node("res-0001", "Research", TS(2), `{"query": "sparse attention survey"}`).
		Node("fact-0001", "Fact", TS(3), "Sparse attention reduces quadratic cost").
		Node("resp-0001", "Response", TS(4), "Transformers extend context with sparse or linear attention.").
		Insight("kc-0001", TS(5), "Sparse attention is the main lever for long context", 1, 3).
		Insight("kc-0002", TS(6), "Context length is bounded by memory", 0, 5).
		Edge("task-0001", "imp-0001", graph.KindIsTaskFor).
		Edge("task-0001", "res-0001", graph.KindHasResearch).
		Edge("res-0001", "fact-0001", graph.KindContainsFact).
		Edge("resp-0001", "imp-0001", graph.KindIsResponseTo).
		Edge("resp-0001", "task-0001", graph.KindIsResultOf).
		Edge("kc-0001", "resp-0001", graph.KindWasSynthesizedFrom).
		Edge("kc-0001", "con-0001", graph.KindInsightFromConcept).
		Edge("kc-0001", "con-0002", graph.KindInsightFromConcept).
		Edge("kc-0002", "con-0001", graph.KindInsightFromConcept).
		Edge("kc-0001", "imp-0001", graph.KindArchivesImpulse).
		Edge("imp-0001", "con-0001", graph.KindContainsConcept).
		Document()
}

// KnowledgeSnapshot builds KnowledgeDoc with the default edge kinds.
func KnowledgeSnapshot() *graph.Snapshot {
	snap, err := graph.Build(KnowledgeDoc())
	if err != nil {
		panic(err)
	}
	return snap
}
