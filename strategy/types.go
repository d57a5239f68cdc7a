// Turn decision types for the escalation state machine.
//
// Information Hiding:
// - Layer outcome tagging hidden from callers
// - Escalation bookkeeping hidden behind StrategyResult
package strategy

import (
	"github.com/richinex/arcadia/session"
)

// StrategyContext is the per-turn input to Decide.
type StrategyContext struct {
	// GameType describes the game genre; matched against heuristic
	// trigger keywords.
	GameType string

	// PreviousAction is the prior turn's action label, if any.
	PreviousAction string

	// GameState is a short free-form description of known game state,
	// typically fed from the caller's progress metrics.
	GameState string

	// Attempt is the current turn number.
	Attempt int
}

// StrategyResult is the decided interaction for one turn.
type StrategyResult struct {
	// Layer is the escalation tier that settled the turn.
	Layer session.Layer

	// Action is the decided action label: the heuristic name for Layer 1,
	// the model's recommendation for Layer 2.
	Action string

	// ActionKind categorizes the action: click, keyboard or wait.
	ActionKind string

	// Target describes where the action aims, when known.
	Target string

	// Confidence is the deciding layer's self-reported confidence.
	Confidence int

	// Reasoning is the deciding layer's explanation.
	Reasoning string
}

// outcomeKind tags a layer's outcome for the state machine switch.
type outcomeKind int

const (
	// outcomeSuccess carries a result above the layer's confidence gate.
	outcomeSuccess outcomeKind = iota
	// outcomeRetryable marks a transient failure that survived the retry
	// budget; the turn cannot proceed.
	outcomeRetryable
	// outcomeFatal marks an unrecoverable failure (bad credentials,
	// cancellation) that must end the session.
	outcomeFatal
	// outcomeDegraded carries a low-confidence result; escalation
	// continues to the next layer.
	outcomeDegraded
)

// String returns the outcome tag name for logging.
func (k outcomeKind) String() string {
	switch k {
	case outcomeSuccess:
		return "success"
	case outcomeRetryable:
		return "retryable"
	case outcomeFatal:
		return "fatal"
	case outcomeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// layerOutcome is the tagged result of one layer's attempt. result is
// meaningful for success and degraded, err for retryable and fatal.
type layerOutcome struct {
	kind   outcomeKind
	result StrategyResult
	err    error
}
