// Package heuristics provides the genre action templates for Layer 1.
//
// Information Hiding:
// - Action dispatch against the browser capability hidden in Executor
// - Keyword matching and lookup hidden in Registry
// - Scoring internals hidden behind each heuristic's Evaluate function
//
// A Heuristic is static data plus a pure scoring function: the executor runs
// the action list against the page, collects an observation trail, and hands
// the trail to Evaluate for a self-scored result. Built-in definitions are
// immutable and safe to share across concurrent sessions.
package heuristics

import (
	"github.com/richinex/arcadia/browser"
)

// EvaluateFunc scores an executed action trail. Implementations must be
// pure functions over the observations; the handle is provided for
// heuristics that want to peek at final page state but built-ins ignore it.
type EvaluateFunc func(handle browser.Controller, observations []Observation) ActionResult

// Heuristic is a named, statically-defined action sequence with a scoring
// function for one game genre.
type Heuristic struct {
	// Name identifies the heuristic ("platformer", "clicker", ...).
	Name string

	// TriggerKeywords select this heuristic when one of them is contained
	// in the session's game type. "*" matches anything and marks the
	// fallback entry.
	TriggerKeywords []string

	// Actions is the declarative interaction sequence, executed in order.
	Actions []Action

	// Ceiling is the highest confidence this heuristic may self-report.
	// It reflects genre-detection certainty, not measured accuracy.
	Ceiling int

	// Evaluate produces the final result from the observation trail.
	Evaluate EvaluateFunc
}

// IsWildcard reports whether this heuristic is a catch-all fallback.
func (h Heuristic) IsWildcard() bool {
	for _, kw := range h.TriggerKeywords {
		if kw == Wildcard {
			return true
		}
	}
	return false
}

// Wildcard is the trigger keyword that matches any game type.
const Wildcard = "*"
