package drift

import (
	"testing"

	"github.com/probelabs/driftscan/internal/transcript"
	"github.com/probelabs/driftscan/pkg/report"
)

func assistantMsg(idx int, content string) transcript.Message {
	return transcript.Message{Idx: idx, Role: transcript.RoleAssistant, Content: content, Tokens: len(content) / 4}
}

func TestDetectSessionResets_Match(t *testing.T) {
	msgs := []transcript.Message{
		assistantMsg(0, "Okay, let's start over from the top."),
	}
	events := DetectSessionResets(msgs, DefaultPolicy())
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Type != report.EventSessionReset {
		t.Errorf("type = %q", e.Type)
	}
	if e.ResetPhrase != "lets start over" {
		t.Errorf("reset_phrase = %q", e.ResetPhrase)
	}
	if e.Confidence != DefaultResetConfidence {
		t.Errorf("confidence = %v, want %v", e.Confidence, DefaultResetConfidence)
	}
	if e.Severity != DefaultResetSeverity {
		t.Errorf("severity = %d, want %d", e.Severity, DefaultResetSeverity)
	}
}

func TestDetectSessionResets_CaseAndPunctuationInsensitive(t *testing.T) {
	msgs := []transcript.Message{
		assistantMsg(0, "LET'S START OVER!!!"),
	}
	if events := DetectSessionResets(msgs, DefaultPolicy()); len(events) != 1 {
		t.Errorf("expected normalized match, got %d events", len(events))
	}
}

func TestDetectSessionResets_OneEventPerMessage(t *testing.T) {
	// Message contains two trigger phrases; priority order picks the first.
	msgs := []transcript.Message{
		assistantMsg(3, "Let's start over and begin from scratch."),
	}
	events := DetectSessionResets(msgs, DefaultPolicy())
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event per message, got %d", len(events))
	}
	if events[0].ResetPhrase != "lets start over" {
		t.Errorf("priority order should pick %q, got %q", "lets start over", events[0].ResetPhrase)
	}
	if len(events[0].Evidence.MsgIdxs) != 1 || events[0].Evidence.MsgIdxs[0] != 3 {
		t.Errorf("msg_idxs = %v, want [3]", events[0].Evidence.MsgIdxs)
	}
}

func TestDetectSessionResets_IgnoresUserMessages(t *testing.T) {
	msgs := []transcript.Message{
		{Idx: 0, Role: transcript.RoleUser, Content: "let's start over"},
	}
	if events := DetectSessionResets(msgs, DefaultPolicy()); len(events) != 0 {
		t.Errorf("user messages must not trigger resets, got %d events", len(events))
	}
}

func TestDetectSessionResets_NoMatch(t *testing.T) {
	msgs := []transcript.Message{
		assistantMsg(0, "Here is the summary you asked for."),
	}
	if events := DetectSessionResets(msgs, DefaultPolicy()); len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}
