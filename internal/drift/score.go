package drift

import (
	"math"
	"sort"

	"github.com/probelabs/driftscan/internal/transcript"
	"github.com/probelabs/driftscan/pkg/report"
)

// SortEvents orders events by severity descending, ties broken by
// confidence descending. The sort is stable: further ties keep detector
// emission order. This ordering is externally observable in rendered
// reports and must stay exact.
func SortEvents(events []report.DriftEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Severity != events[j].Severity {
			return events[i].Severity > events[j].Severity
		}
		return events[i].Confidence > events[j].Confidence
	})
}

// CalculateDriftScore sums per-type weights over all events. Event types
// absent from the weights map contribute 0 and never error. The returned
// score is raw clamped to [0,100] and rounded; raw keeps full precision.
func CalculateDriftScore(events []report.DriftEvent, weights map[string]float64) (raw float64, score int) {
	for _, e := range events {
		raw += weights[e.Type]
	}
	clamped := raw
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	return raw, int(math.Round(clamped))
}

// CalculateTokenWaste estimates the fraction of conversation tokens spent
// on repeated user requests: the token sum of user messages referenced by
// any repetition_cluster event, over the token sum of all messages.
// Returns 0 when the transcript has no tokens. An approximation, never a
// billing figure.
func CalculateTokenWaste(msgs []transcript.Message, events []report.DriftEvent) float64 {
	repeated := make(map[int]bool)
	for _, e := range events {
		if e.Type != report.EventRepetitionCluster {
			continue
		}
		for _, idx := range e.Evidence.MsgIdxs {
			repeated[idx] = true
		}
	}

	waste, total := 0, 0
	for _, m := range msgs {
		total += m.Tokens
		if m.Role == transcript.RoleUser && repeated[m.Idx] {
			waste += m.Tokens
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(waste) / float64(total)
}

// MemoryPicks returns the top-limit facts by confidence: the things the
// assistant most clearly should have remembered. Stable on ties,
// preserving input order.
func MemoryPicks(facts []report.ExtractedFact, limit int) []report.ExtractedFact {
	picks := make([]report.ExtractedFact, len(facts))
	copy(picks, facts)
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Confidence > picks[j].Confidence })
	if limit > 0 && len(picks) > limit {
		picks = picks[:limit]
	}
	return picks
}
