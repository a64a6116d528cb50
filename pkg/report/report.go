// Package report defines the wire types produced by a drift inspection.
//
// Field names are a wire contract: the hosted-mode API reuses these
// structures verbatim, so names, numeric types, and emptiness conventions
// must not change.
package report

// Drift event type discriminators.
const (
	EventRepetitionCluster   = "repetition_cluster"
	EventSessionReset        = "session_reset"
	EventPreferenceForgotten = "preference_forgotten"
	EventContradiction       = "contradiction"
)

// EventEvidence is a reference bundle pointing back into the transcript.
// It never owns messages.
type EventEvidence struct {
	MsgIdxs  []int    `json:"msg_idxs"`
	Snippets []string `json:"snippets"`
	FactKey  string   `json:"fact_key,omitempty"`
}

// DriftEvent is a single detected instance of the assistant losing or
// contradicting established context. Type discriminates which of the
// variant fields are populated. Unrecognized type strings are carried
// through untouched and score zero (forward compatibility).
type DriftEvent struct {
	Type       string        `json:"type"`
	Severity   int           `json:"severity"`   // 1..5
	Confidence float64       `json:"confidence"` // 0..1
	Evidence   EventEvidence `json:"evidence"`
	Summary    string        `json:"summary"`

	// repetition_cluster
	ClusterSize int `json:"cluster_size,omitempty"`

	// session_reset
	ResetPhrase string `json:"reset_phrase,omitempty"`

	// preference_forgotten
	PreferenceKey   string `json:"preference_key,omitempty"`
	PreferenceValue string `json:"preference_value,omitempty"`

	// contradiction
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
}

// ExtractedFact is a (key, value) pair the assistant should remember,
// tied to the message it was stated in.
type ExtractedFact struct {
	FactKey    string  `json:"fact_key"`   // namespaced, e.g. "identity:name"
	FactValue  string  `json:"fact_value"`
	MsgIdx     int     `json:"msg_idx"`
	Confidence float64 `json:"confidence"` // 0..1
}

// InspectResult is the aggregate outcome of one inspection run.
// Immutable after construction; never persisted by the core.
type InspectResult struct {
	DriftScore           int                `json:"drift_score"` // clamped 0..100
	RawScore             float64            `json:"raw_score"`   // unclamped
	TokenWastePct        float64            `json:"token_waste_pct"`
	Events               []DriftEvent       `json:"events"`
	ShouldHaveBeenMemory []ExtractedFact    `json:"should_have_been_memory"`
	TimingsMs            map[string]float64 `json:"timings_ms"`
}
