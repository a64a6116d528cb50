package drift

import (
	"testing"

	"github.com/probelabs/driftscan/internal/transcript"
	"github.com/probelabs/driftscan/pkg/report"
)

func userMsg(idx int, content string) transcript.Message {
	return transcript.Message{Idx: idx, Role: transcript.RoleUser, Content: content, Tokens: len(content) / 4}
}

func TestDetectRepetition_IdenticalMessages(t *testing.T) {
	msgs := []transcript.Message{
		userMsg(0, "Please reply in Bangla"),
		{Idx: 1, Role: transcript.RoleAssistant, Content: "Sure."},
		userMsg(2, "Please reply in Bangla"),
	}
	events := DetectRepetition(msgs, DefaultPolicy())
	if len(events) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(events))
	}
	e := events[0]
	if e.Type != report.EventRepetitionCluster {
		t.Errorf("type = %q", e.Type)
	}
	if e.ClusterSize != 2 {
		t.Errorf("cluster_size = %d, want 2", e.ClusterSize)
	}
	if len(e.Evidence.MsgIdxs) != e.ClusterSize {
		t.Errorf("cluster_size %d != len(msg_idxs) %d", e.ClusterSize, len(e.Evidence.MsgIdxs))
	}
	if e.Evidence.MsgIdxs[0] != 0 || e.Evidence.MsgIdxs[1] != 2 {
		t.Errorf("msg_idxs = %v, want [0 2]", e.Evidence.MsgIdxs)
	}
	if e.Confidence != 1.0 {
		t.Errorf("identical messages should have confidence 1.0, got %v", e.Confidence)
	}
	if e.Severity != 2 {
		t.Errorf("severity for k=2 should be 2, got %d", e.Severity)
	}
}

func TestDetectRepetition_SameSignatureDifferentAsk(t *testing.T) {
	// Same first-8-token prefix, but the tails diverge far enough that the
	// pairwise check fails: the bucket is discarded, no event.
	msgs := []transcript.Message{
		userMsg(0, "can you please help me with this one thing about kubernetes ingress controllers and load balancing"),
		userMsg(1, "can you please help me with this one thing about my cat who refuses to eat breakfast lately"),
	}
	events := DetectRepetition(msgs, DefaultPolicy())
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestDetectRepetition_IgnoresNonUserMessages(t *testing.T) {
	msgs := []transcript.Message{
		{Idx: 0, Role: transcript.RoleAssistant, Content: "same text here"},
		{Idx: 1, Role: transcript.RoleAssistant, Content: "same text here"},
		{Idx: 2, Role: transcript.RoleSystem, Content: "same text here"},
	}
	if events := DetectRepetition(msgs, DefaultPolicy()); len(events) != 0 {
		t.Errorf("only user messages should cluster, got %d events", len(events))
	}
}

func TestDetectRepetition_SkipsEmptyContent(t *testing.T) {
	msgs := []transcript.Message{
		userMsg(0, ""),
		userMsg(1, "   "),
		userMsg(2, ""),
	}
	if events := DetectRepetition(msgs, DefaultPolicy()); len(events) != 0 {
		t.Errorf("empty messages must not cluster, got %d events", len(events))
	}
}

func TestDetectRepetition_EmptyTranscript(t *testing.T) {
	if events := DetectRepetition(nil, DefaultPolicy()); len(events) != 0 {
		t.Errorf("expected no events for empty transcript")
	}
}

func TestDetectRepetition_LargeClusterSeverity(t *testing.T) {
	var msgs []transcript.Message
	for i := 0; i < 9; i++ {
		msgs = append(msgs, userMsg(i, "please summarize the document again"))
	}
	events := DetectRepetition(msgs, DefaultPolicy())
	if len(events) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(events))
	}
	if events[0].ClusterSize != 9 {
		t.Errorf("cluster_size = %d, want 9", events[0].ClusterSize)
	}
	if events[0].Severity != 5 {
		t.Errorf("severity for k=9 should be 5, got %d", events[0].Severity)
	}
	if len(events[0].Evidence.Snippets) != DefaultSnippetLimit {
		t.Errorf("snippets should be capped at %d, got %d", DefaultSnippetLimit, len(events[0].Evidence.Snippets))
	}
}

func TestClusterSeverity_Monotonic(t *testing.T) {
	prev := 0
	for k := 2; k <= 20; k++ {
		s := clusterSeverity(k)
		if s < prev {
			t.Fatalf("severity not monotonic at k=%d: %d < %d", k, s, prev)
		}
		if s < 1 || s > 5 {
			t.Fatalf("severity out of [1,5] at k=%d: %d", k, s)
		}
		prev = s
	}
}

func TestUnionFind_ConnectsTransitively(t *testing.T) {
	uf := newUnionFind(4)
	uf.union(0, 1)
	uf.union(1, 2)
	if uf.find(0) != uf.find(2) {
		t.Error("0 and 2 should share a root via 1")
	}
	if uf.find(3) == uf.find(0) {
		t.Error("3 should stay separate")
	}
}
