package heuristics

import "fmt"

// ActionKind discriminates the interaction primitives a heuristic may use.
type ActionKind string

const (
	// KindClick clicks a point on the page. Target selects the point:
	// "center", "offset:dx,dy" relative to center, or a CSS selector.
	KindClick ActionKind = "click"

	// KindKeyboard presses a single key. Value holds the key name.
	KindKeyboard ActionKind = "keyboard"

	// KindWait pauses without touching the page. DelayMs is the duration.
	KindWait ActionKind = "wait"

	// KindScreenshot captures the current viewport into the observation.
	KindScreenshot ActionKind = "screenshot"
)

// Action is one step of a heuristic sequence.
type Action struct {
	Kind ActionKind `json:"kind"`

	// Target is the click destination for KindClick; unused otherwise.
	Target string `json:"target,omitempty"`

	// Value is the key name for KindKeyboard; unused otherwise.
	Value string `json:"value,omitempty"`

	// DelayMs is the pause after dispatch, or the wait duration for
	// KindWait. Zero means no pause.
	DelayMs int `json:"delay_ms,omitempty"`
}

// Click builds a click action on the given target with a settle delay.
func Click(target string, delayMs int) Action {
	return Action{Kind: KindClick, Target: target, DelayMs: delayMs}
}

// Press builds a key press action with a settle delay.
func Press(key string, delayMs int) Action {
	return Action{Kind: KindKeyboard, Value: key, DelayMs: delayMs}
}

// Wait builds a pure pause of the given duration.
func Wait(durationMs int) Action {
	return Action{Kind: KindWait, DelayMs: durationMs}
}

// Screenshot builds a viewport capture action.
func Screenshot() Action {
	return Action{Kind: KindScreenshot}
}

// Observation records the outcome of dispatching one action.
type Observation struct {
	Action Action `json:"action"`

	// OK reports whether the dispatch succeeded.
	OK bool `json:"ok"`

	// Detail carries the failure reason or a note about how the target
	// was resolved. Empty for clean dispatches.
	Detail string `json:"detail,omitempty"`

	// Screenshot holds captured image bytes for KindScreenshot actions.
	Screenshot []byte `json:"-"`
}

// ActionResult is a heuristic's self-scored outcome for one turn.
type ActionResult struct {
	Success      bool          `json:"success"`
	Confidence   int           `json:"confidence"`
	Reasoning    string        `json:"reasoning"`
	Actions      []Action      `json:"actions,omitempty"`
	Observations []Observation `json:"observations,omitempty"`
}

// ScoredResult builds a result with confidence clamped to [0, 100].
func ScoredResult(success bool, confidence int, reasoning string, observations []Observation) ActionResult {
	return ActionResult{
		Success:      success,
		Confidence:   clampConfidence(confidence),
		Reasoning:    reasoning,
		Observations: observations,
	}
}

// FailedResult builds a zero-confidence failure with a formatted reason.
func FailedResult(format string, args ...any) ActionResult {
	return ActionResult{
		Success:    false,
		Confidence: 0,
		Reasoning:  fmt.Sprintf(format, args...),
	}
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
