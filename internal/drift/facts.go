package drift

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/probelabs/driftscan/pkg/report"
)

// DetectFactDrift is a single left-to-right fold over the fact list
// (sorted by msg_idx), keyed by fact_key. It emits:
//
//   - contradiction: a key's value changes from its last recorded value
//   - preference_forgotten: the same (key, value) pair is restated at two
//     message indices at least PreferenceDistance apart. This checks
//     restatement only, not assistant behavior in between.
//
// Malformed facts (empty key or value) are skipped; one bad record never
// aborts the rest.
func DetectFactDrift(facts []report.ExtractedFact, pol Policy) []report.DriftEvent {
	pol = pol.normalized()

	sorted := make([]report.ExtractedFact, 0, len(facts))
	for _, f := range facts {
		if f.FactKey == "" || f.FactValue == "" {
			slog.Debug("skipping malformed fact", "key", f.FactKey, "msg_idx", f.MsgIdx)
			continue
		}
		sorted = append(sorted, f)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MsgIdx < sorted[j].MsgIdx })

	var events []report.DriftEvent

	// Contradictions: last-seen value per key.
	last := make(map[string]report.ExtractedFact)
	for _, f := range sorted {
		prev, seen := last[f.FactKey]
		if seen && prev.FactValue != f.FactValue {
			events = append(events, report.DriftEvent{
				Type:       report.EventContradiction,
				Severity:   pol.FactSeverity,
				Confidence: clamp01(minFloat(prev.Confidence, f.Confidence)),
				OldValue:   prev.FactValue,
				NewValue:   f.FactValue,
				Evidence: report.EventEvidence{
					MsgIdxs:  []int{prev.MsgIdx, f.MsgIdx},
					Snippets: []string{prev.FactValue, f.FactValue},
					FactKey:  f.FactKey,
				},
				Summary: fmt.Sprintf("%s changed from %q to %q", f.FactKey, prev.FactValue, f.FactValue),
			})
		}
		last[f.FactKey] = f
	}

	// Forgotten preferences: far-apart restatement of the same (key, value).
	type span struct {
		first report.ExtractedFact
		last  report.ExtractedFact
	}
	spans := make(map[string]*span)
	var pairOrder []string
	for _, f := range sorted {
		pair := f.FactKey + "\x00" + f.FactValue
		if sp, ok := spans[pair]; ok {
			sp.last = f
		} else {
			spans[pair] = &span{first: f, last: f}
			pairOrder = append(pairOrder, pair)
		}
	}
	for _, pair := range pairOrder {
		sp := spans[pair]
		if sp.last.MsgIdx-sp.first.MsgIdx < pol.PreferenceDistance {
			continue
		}
		f := sp.first
		events = append(events, report.DriftEvent{
			Type:            report.EventPreferenceForgotten,
			Severity:        pol.FactSeverity,
			Confidence:      clamp01(minFloat(sp.first.Confidence, sp.last.Confidence)),
			PreferenceKey:   f.FactKey,
			PreferenceValue: f.FactValue,
			Evidence: report.EventEvidence{
				MsgIdxs:  []int{sp.first.MsgIdx, sp.last.MsgIdx},
				Snippets: []string{f.FactValue},
				FactKey:  f.FactKey,
			},
			Summary: fmt.Sprintf("user had to restate %s=%s after %d messages",
				f.FactKey, f.FactValue, sp.last.MsgIdx-sp.first.MsgIdx),
		})
	}

	return events
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
