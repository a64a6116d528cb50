package drift

import (
	"fmt"
	"strings"

	"github.com/probelabs/driftscan/internal/transcript"
	"github.com/probelabs/driftscan/pkg/report"
)

// DetectSessionResets scans assistant messages for reset trigger phrases.
// Matching runs on normalized content, so the phrase list is stored
// pre-normalized. At most one event per message: the first phrase in
// priority order that matches wins.
func DetectSessionResets(msgs []transcript.Message, pol Policy) []report.DriftEvent {
	pol = pol.normalized()

	var events []report.DriftEvent
	for _, m := range msgs {
		if m.Role != transcript.RoleAssistant || m.Content == "" {
			continue
		}
		norm := NormalizeText(m.Content)
		for _, phrase := range pol.ResetPhrases {
			if phrase == "" || !strings.Contains(norm, phrase) {
				continue
			}
			events = append(events, report.DriftEvent{
				Type:        report.EventSessionReset,
				Severity:    pol.ResetSeverity,
				Confidence:  clamp01(pol.ResetConfidence),
				ResetPhrase: phrase,
				Evidence: report.EventEvidence{
					MsgIdxs:  []int{m.Idx},
					Snippets: []string{truncateSnippet(m.Content)},
				},
				Summary: fmt.Sprintf("assistant reset the session (%q)", phrase),
			})
			break
		}
	}
	return events
}
