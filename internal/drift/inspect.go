package drift

import (
	"log/slog"
	"time"

	"github.com/probelabs/driftscan/internal/transcript"
	"github.com/probelabs/driftscan/pkg/report"
)

// Inspect runs every deterministic detector over a transcript plus its
// extracted facts and scores the result. Degenerate input (empty
// transcript, empty fact list) is not an error: the result comes back
// well-formed with zero score and no events.
func Inspect(t *transcript.Transcript, facts []report.ExtractedFact, pol Policy) *report.InspectResult {
	pol = pol.normalized()
	timings := make(map[string]float64)
	started := time.Now()

	facts = validFacts(t, facts)

	var events []report.DriftEvent

	phase := time.Now()
	events = append(events, DetectRepetition(t.Messages, pol)...)
	timings["repetition"] = msSince(phase)

	phase = time.Now()
	events = append(events, DetectFactDrift(facts, pol)...)
	timings["facts"] = msSince(phase)

	phase = time.Now()
	events = append(events, DetectSessionResets(t.Messages, pol)...)
	timings["reset"] = msSince(phase)

	res := Score(t, facts, events, pol)
	for k, v := range res.TimingsMs {
		timings[k] = v
	}
	timings["total"] = msSince(started)
	res.TimingsMs = timings
	return res
}

// Score aggregates already-produced events into an InspectResult. This is
// the common scoring layer: it runs identically whether the events came
// from the deterministic detectors or from a hosted analyzer.
func Score(t *transcript.Transcript, facts []report.ExtractedFact, events []report.DriftEvent, pol Policy) *report.InspectResult {
	pol = pol.normalized()
	started := time.Now()

	events = validEvents(t, events)
	SortEvents(events)
	raw, score := CalculateDriftScore(events, pol.Weights)

	res := &report.InspectResult{
		DriftScore:           score,
		RawScore:             raw,
		TokenWastePct:        CalculateTokenWaste(t.Messages, events),
		Events:               events,
		ShouldHaveBeenMemory: MemoryPicks(facts, pol.MemoryLimit),
		TimingsMs:            map[string]float64{"score": msSince(started)},
	}
	return res
}

// validFacts drops facts that reference a message index the transcript
// does not contain. Facts come from an untrusted extraction step, so a
// bad reference is logged and skipped, never fatal.
func validFacts(t *transcript.Transcript, facts []report.ExtractedFact) []report.ExtractedFact {
	if len(facts) == 0 {
		return nil
	}
	known := t.IdxSet()
	valid := make([]report.ExtractedFact, 0, len(facts))
	for _, f := range facts {
		if !known[f.MsgIdx] {
			slog.Warn("fact references unknown message, skipping", "key", f.FactKey, "msg_idx", f.MsgIdx)
			continue
		}
		valid = append(valid, f)
	}
	return valid
}

// validEvents drops events with no evidence or with evidence pointing
// outside the transcript. Applies to hosted-mode events in particular,
// which arrive from a model and are not trusted.
func validEvents(t *transcript.Transcript, events []report.DriftEvent) []report.DriftEvent {
	known := t.IdxSet()
	valid := events[:0:0]
	for _, e := range events {
		if len(e.Evidence.MsgIdxs) == 0 {
			slog.Warn("event has no evidence, skipping", "type", e.Type)
			continue
		}
		ok := true
		for _, idx := range e.Evidence.MsgIdxs {
			if !known[idx] {
				ok = false
				break
			}
		}
		if !ok {
			slog.Warn("event references unknown message, skipping", "type", e.Type)
			continue
		}
		valid = append(valid, e)
	}
	return valid
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
