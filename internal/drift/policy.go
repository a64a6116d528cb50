package drift

import "github.com/probelabs/driftscan/pkg/report"

// Tunable defaults. These are policy constants, not derived values.
const (
	DefaultSimilarityThreshold = 0.65
	DefaultSignatureLength     = 8
	DefaultPreferenceDistance  = 5
	DefaultSnippetLimit        = 5
	DefaultMemoryLimit         = 10

	// Session resets are treated as an unambiguous signal.
	DefaultResetSeverity   = 4
	DefaultResetConfidence = 0.9

	DefaultFactSeverity = 3
)

// Policy bundles every tunable the detectors and scorer consume.
// The core never reads env or filesystem state; callers construct a
// Policy (usually DefaultPolicy, optionally overlaid from a policy file)
// and pass it in explicitly.
type Policy struct {
	SimilarityThreshold float64
	SignatureLength     int
	PreferenceDistance  int
	SnippetLimit        int
	MemoryLimit         int

	ResetSeverity   int
	ResetConfidence float64
	FactSeverity    int

	// Weights maps event type → score weight. Types absent from the map
	// contribute 0, so unknown event types never break scoring.
	Weights map[string]float64

	// ResetPhrases is an ordered priority list matched against normalized
	// assistant text; the first phrase that matches wins, so longer or more
	// specific phrases come first.
	ResetPhrases []string
}

// DefaultWeights returns the default event-type score weights.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		report.EventPreferenceForgotten: 15,
		report.EventRepetitionCluster:   10,
		report.EventSessionReset:        20,
		report.EventContradiction:       10,
	}
}

// DefaultResetPhrases returns the built-in reset phrase list in priority
// order. Phrases are stored pre-normalized (lowercase, no punctuation)
// because matching happens on NormalizeText output.
func DefaultResetPhrases() []string {
	return []string{
		"lets start over",
		"start from scratch",
		"forget everything",
		"start over",
		"from scratch",
		"new chat",
		"clean slate",
		"fresh start",
	}
}

// DefaultPolicy returns the default detector and scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		SimilarityThreshold: DefaultSimilarityThreshold,
		SignatureLength:     DefaultSignatureLength,
		PreferenceDistance:  DefaultPreferenceDistance,
		SnippetLimit:        DefaultSnippetLimit,
		MemoryLimit:         DefaultMemoryLimit,
		ResetSeverity:       DefaultResetSeverity,
		ResetConfidence:     DefaultResetConfidence,
		FactSeverity:        DefaultFactSeverity,
		Weights:             DefaultWeights(),
		ResetPhrases:        DefaultResetPhrases(),
	}
}

// normalized fills zero-valued fields with defaults so a partially
// populated Policy behaves like DefaultPolicy for the rest.
func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.SimilarityThreshold <= 0 {
		p.SimilarityThreshold = def.SimilarityThreshold
	}
	if p.SignatureLength <= 0 {
		p.SignatureLength = def.SignatureLength
	}
	if p.PreferenceDistance <= 0 {
		p.PreferenceDistance = def.PreferenceDistance
	}
	if p.SnippetLimit <= 0 {
		p.SnippetLimit = def.SnippetLimit
	}
	if p.MemoryLimit <= 0 {
		p.MemoryLimit = def.MemoryLimit
	}
	if p.ResetSeverity <= 0 {
		p.ResetSeverity = def.ResetSeverity
	}
	if p.ResetConfidence <= 0 {
		p.ResetConfidence = def.ResetConfidence
	}
	if p.FactSeverity <= 0 {
		p.FactSeverity = def.FactSeverity
	}
	if p.Weights == nil {
		p.Weights = def.Weights
	}
	if p.ResetPhrases == nil {
		p.ResetPhrases = def.ResetPhrases
	}
	return p
}
