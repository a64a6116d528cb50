package extract

import (
	"testing"

	"github.com/probelabs/driftscan/internal/transcript"
)

func userMsg(idx int, content string) transcript.Message {
	return transcript.Message{Idx: idx, Role: transcript.RoleUser, Content: content}
}

func TestExtract_Name(t *testing.T) {
	facts := New().Extract([]transcript.Message{userMsg(0, "Hi, my name is Tusher.")})
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(facts))
	}
	f := facts[0]
	if f.FactKey != "identity:name" || f.FactValue != "tusher" {
		t.Errorf("fact = %s=%s", f.FactKey, f.FactValue)
	}
	if f.MsgIdx != 0 {
		t.Errorf("msg_idx = %d", f.MsgIdx)
	}
	if f.Confidence != 0.9 {
		t.Errorf("confidence = %v", f.Confidence)
	}
}

func TestExtract_LanguagePreference(t *testing.T) {
	facts := New().Extract([]transcript.Message{userMsg(2, "Please reply in Bangla")})
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact, got %d: %v", len(facts), facts)
	}
	if facts[0].FactKey != "pref:language" || facts[0].FactValue != "bangla" {
		t.Errorf("fact = %s=%s", facts[0].FactKey, facts[0].FactValue)
	}
}

func TestExtract_Location(t *testing.T) {
	facts := New().Extract([]transcript.Message{userMsg(1, "I live in New York, by the way")})
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact, got %d: %v", len(facts), facts)
	}
	if facts[0].FactKey != "identity:location" || facts[0].FactValue != "new york" {
		t.Errorf("fact = %s=%s", facts[0].FactKey, facts[0].FactValue)
	}
}

func TestExtract_MultiplePatternsOneMessage(t *testing.T) {
	facts := New().Extract([]transcript.Message{
		userMsg(0, "My name is Jane. Use bullet points and be concise."),
	})
	keys := map[string]bool{}
	for _, f := range facts {
		keys[f.FactKey] = true
	}
	for _, want := range []string{"identity:name", "pref:format", "pref:tone"} {
		if !keys[want] {
			t.Errorf("missing fact key %q in %v", want, facts)
		}
	}
}

func TestExtract_IgnoresAssistant(t *testing.T) {
	facts := New().Extract([]transcript.Message{
		{Idx: 0, Role: transcript.RoleAssistant, Content: "my name is HelperBot"},
	})
	if len(facts) != 0 {
		t.Errorf("assistant messages must not produce facts, got %v", facts)
	}
}

func TestExtract_NoMatch(t *testing.T) {
	facts := New().Extract([]transcript.Message{userMsg(0, "What is the capital of France?")})
	if len(facts) != 0 {
		t.Errorf("expected no facts, got %v", facts)
	}
}
