package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/probelabs/driftscan/pkg/report"
)

func sampleResult() *report.InspectResult {
	return &report.InspectResult{
		DriftScore:    25,
		RawScore:      25,
		TokenWastePct: 12.5,
		Events: []report.DriftEvent{
			{
				Type:       report.EventPreferenceForgotten,
				Severity:   3,
				Confidence: 0.8,
				Summary:    "user had to restate pref:language=bangla after 5 messages",
				Evidence:   report.EventEvidence{MsgIdxs: []int{2, 7}, Snippets: []string{"bangla"}, FactKey: "pref:language"},
			},
		},
		ShouldHaveBeenMemory: []report.ExtractedFact{
			{FactKey: "pref:language", FactValue: "bangla", MsgIdx: 2, Confidence: 0.8},
		},
		TimingsMs: map[string]float64{"total": 1.2},
	}
}

func TestText_ContainsScoreAndEvents(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, sampleResult()); err != nil {
		t.Fatalf("Text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"25/100", "preference_forgotten", "pref:language", "12.5%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestText_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	res := &report.InspectResult{TimingsMs: map[string]float64{}}
	if err := Text(&buf, res); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(buf.String(), "No drift events") {
		t.Errorf("expected empty-state message:\n%s", buf.String())
	}
}

func TestJSON_WireFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleResult()); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}
	for _, field := range []string{"drift_score", "raw_score", "token_waste_pct", "events", "should_have_been_memory", "timings_ms"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("missing wire field %q", field)
		}
	}
	events := decoded["events"].([]any)
	ev := events[0].(map[string]any)
	for _, field := range []string{"type", "severity", "confidence", "evidence", "summary", "preference_key", "preference_value"} {
		if _, ok := ev[field]; !ok {
			t.Errorf("event missing wire field %q", field)
		}
	}
}
