// Package session records per-turn decision transcripts for playtest runs.
//
// Information Hiding:
// - Transcript map structure hidden behind the Store interface
// - Thread-safe access via RWMutex hidden inside InMemoryStore
// - Turns are value snapshots, copied on read and write
package session

// Layer identifies the escalation tier that produced a turn's decision.
type Layer int

const (
	// LayerHeuristic is the first tier: genre action templates.
	LayerHeuristic Layer = 1
	// LayerVision is the second tier: model-driven screenshot analysis.
	LayerVision Layer = 2
	// LayerReserved is the third tier, recorded when both lower tiers
	// were exhausted without a confident decision.
	LayerReserved Layer = 3
)

// String returns the human-readable tier name.
func (l Layer) String() string {
	switch l {
	case LayerHeuristic:
		return "heuristic"
	case LayerVision:
		return "vision"
	case LayerReserved:
		return "reserved"
	default:
		return "unknown"
	}
}

// Turn is one recorded decision cycle.
type Turn struct {
	// Index is the zero-based position within the session.
	Index int `json:"index"`
	// Layer is the escalation tier that settled the turn.
	Layer Layer `json:"layer"`
	// Source names the deciding component, e.g. "heuristic:clicker" or
	// "vision:anthropic".
	Source string `json:"source"`
	// Action is the decided action label (empty when the turn failed).
	Action string `json:"action,omitempty"`
	// ActionKind categorizes the action: click, keyboard or wait.
	ActionKind string `json:"action_kind,omitempty"`
	// Target describes where the action was aimed, when known.
	Target string `json:"target,omitempty"`
	// Confidence is the deciding layer's self-reported confidence.
	Confidence int `json:"confidence"`
	// Success reports whether the turn produced a usable decision.
	Success bool `json:"success"`
	// Reasoning is the deciding layer's explanation.
	Reasoning string `json:"reasoning,omitempty"`
	// DurationMs is the wall-clock decision time in milliseconds.
	DurationMs int64 `json:"duration_ms"`
	// Timestamp is the Unix timestamp when the turn completed.
	Timestamp int64 `json:"timestamp"`
}
