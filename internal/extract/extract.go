// Package extract pulls memory-worthy facts out of user messages with a
// fixed regex pattern table. It is deliberately heuristic: a fact is a
// namespaced (key, value) pair with a per-pattern confidence, and recall
// matters more than precision because downstream detectors tolerate noise.
package extract

import (
	"regexp"
	"strings"

	"github.com/probelabs/driftscan/internal/transcript"
	"github.com/probelabs/driftscan/pkg/report"
)

// factPattern maps one regex onto a fact key. The value comes from the
// first capture group, lowercased and trimmed.
type factPattern struct {
	key        string
	pattern    *regexp.Regexp
	confidence float64
}

func defaultFactPatterns() []factPattern {
	return []factPattern{
		{
			key:        "identity:name",
			pattern:    regexp.MustCompile(`(?i)\bmy name is ([\p{L}][\p{L}'-]*)`),
			confidence: 0.9,
		},
		{
			key:        "identity:name",
			pattern:    regexp.MustCompile(`(?i)\bcall me ([\p{L}][\p{L}'-]*)`),
			confidence: 0.8,
		},
		{
			key:        "identity:location",
			pattern:    regexp.MustCompile(`(?i)\bi live in ([\p{L}][\p{L} '-]*?)(?:[.,;!?]|$)`),
			confidence: 0.7,
		},
		{
			key:        "pref:language",
			pattern:    regexp.MustCompile(`(?i)\b(?:reply|respond|answer|write)(?: to me)? in ([\p{L}]+)\b`),
			confidence: 0.8,
		},
		{
			key:        "pref:tone",
			pattern:    regexp.MustCompile(`(?i)\bbe (?:more )?(formal|casual|concise|direct|friendly|professional)\b`),
			confidence: 0.6,
		},
		{
			key:        "pref:format",
			pattern:    regexp.MustCompile(`(?i)\buse (bullet points|markdown|tables|plain text|code blocks)\b`),
			confidence: 0.7,
		},
		{
			key:        "pref:format",
			pattern:    regexp.MustCompile(`(?i)\bkeep (?:it|answers|responses) (short|brief|concise)\b`),
			confidence: 0.6,
		},
	}
}

// Extractor scans user messages against the pattern table.
type Extractor struct {
	patterns []factPattern
}

// New creates an Extractor with the default pattern table.
func New() *Extractor {
	return &Extractor{patterns: defaultFactPatterns()}
}

// Extract returns every fact found in the transcript's user messages, in
// message order. The same key may appear multiple times; the fact tracker
// downstream is what interprets restatements and changes.
func (x *Extractor) Extract(msgs []transcript.Message) []report.ExtractedFact {
	var facts []report.ExtractedFact
	for _, m := range msgs {
		if m.Role != transcript.RoleUser || m.Content == "" {
			continue
		}
		for _, fp := range x.patterns {
			match := fp.pattern.FindStringSubmatch(m.Content)
			if match == nil {
				continue
			}
			value := strings.ToLower(strings.TrimSpace(match[1]))
			if value == "" {
				continue
			}
			facts = append(facts, report.ExtractedFact{
				FactKey:    fp.key,
				FactValue:  value,
				MsgIdx:     m.Idx,
				Confidence: fp.confidence,
			})
		}
	}
	return facts
}
