package transcript

import "time"

// Message roles after coercion.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single transcript entry. Immutable once loaded.
// Idx values are monotonically non-decreasing and unique within a
// Transcript; index-based evidence relies on that.
type Message struct {
	Idx       int        `json:"idx"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Tokens    int        `json:"tokens"`
	TS        *time.Time `json:"ts,omitempty"`
	SessionID string     `json:"session_id,omitempty"`
}

// Transcript owns its message sequence exclusively.
type Transcript struct {
	SchemaVersion int       `json:"schema_version"`
	Messages      []Message `json:"messages"`
}

// IdxSet returns the set of message indices present in the transcript.
// Used to validate externally supplied fact references.
func (t *Transcript) IdxSet() map[int]bool {
	set := make(map[int]bool, len(t.Messages))
	for _, m := range t.Messages {
		set[m.Idx] = true
	}
	return set
}

// TotalTokens sums the (estimated) token counts over all messages.
func (t *Transcript) TotalTokens() int {
	total := 0
	for _, m := range t.Messages {
		total += m.Tokens
	}
	return total
}
