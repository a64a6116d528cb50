package providers

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/probelabs/driftscan/pkg/report"
)

// ParseEvents extracts drift events from model output. Models wrap JSON
// in code fences or prose more often than not, so this finds the first
// JSON array in the text and decodes it leniently: records missing a type
// or evidence are dropped, out-of-range severity/confidence are clamped,
// unknown types are kept verbatim (the scorer gives them weight 0).
func ParseEvents(content string) []report.DriftEvent {
	raw := extractJSONArray(content)
	if raw == "" {
		return nil
	}

	var decoded []report.DriftEvent
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		slog.Warn("hosted events not decodable", "error", err)
		return nil
	}

	events := make([]report.DriftEvent, 0, len(decoded))
	for _, e := range decoded {
		if e.Type == "" || len(e.Evidence.MsgIdxs) == 0 {
			slog.Debug("skipping malformed hosted event", "type", e.Type)
			continue
		}
		if e.Severity < 1 {
			e.Severity = 1
		}
		if e.Severity > 5 {
			e.Severity = 5
		}
		if e.Confidence < 0 {
			e.Confidence = 0
		}
		if e.Confidence > 1 {
			e.Confidence = 1
		}
		if e.Type == report.EventRepetitionCluster && e.ClusterSize != len(e.Evidence.MsgIdxs) {
			e.ClusterSize = len(e.Evidence.MsgIdxs)
		}
		events = append(events, e)
	}
	return events
}

// extractJSONArray returns the outermost [...] span in the text, skipping
// code fences and surrounding prose. Bracket depth is tracked so nested
// arrays inside events do not end the span early.
func extractJSONArray(s string) string {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
