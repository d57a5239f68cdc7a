package heuristics

import (
	"fmt"

	"github.com/richinex/arcadia/browser"
)

// Confidence ceilings per built-in genre. Higher ceilings mean the genre's
// canonical inputs are more likely to be the right ones when the keywords
// match; the generic fallback stays low so vision gets consulted.
const (
	CeilingPlatformer = 85
	CeilingClicker    = 90
	CeilingPuzzle     = 75
	CeilingGeneric    = 50
)

// Defaults returns the built-in genre heuristics in matching priority
// order. The slice is freshly allocated on each call.
func Defaults() []Heuristic {
	return []Heuristic{
		{
			Name:            "platformer",
			TriggerKeywords: []string{"platformer", "platform", "jump", "runner", "side-scroller"},
			Ceiling:         CeilingPlatformer,
			Actions: []Action{
				Click("center", 200),
				Press("ArrowRight", 250),
				Press("ArrowRight", 250),
				Press("Space", 350),
				Press("ArrowRight", 250),
				Press("Space", 350),
				Press("ArrowLeft", 250),
				Press("ArrowUp", 300),
				Screenshot(),
			},
			Evaluate: dispatchEvaluator(CeilingPlatformer),
		},
		{
			Name:            "clicker",
			TriggerKeywords: []string{"clicker", "idle", "tap", "cookie", "incremental"},
			Ceiling:         CeilingClicker,
			Actions: []Action{
				Click("center", 120),
				Click("center", 120),
				Click("center", 120),
				Click("offset:-60,0", 120),
				Click("offset:60,0", 120),
				Click("offset:0,60", 120),
				Click("center", 120),
				Click("center", 120),
				Screenshot(),
			},
			Evaluate: dispatchEvaluator(CeilingClicker),
		},
		{
			Name:            "puzzle",
			TriggerKeywords: []string{"puzzle", "match", "memory", "card", "board"},
			Ceiling:         CeilingPuzzle,
			Actions: []Action{
				Click("center", 700),
				Click("offset:-80,-80", 700),
				Click("offset:80,-80", 700),
				Click("offset:-80,80", 700),
				Click("offset:80,80", 700),
				Screenshot(),
			},
			Evaluate: dispatchEvaluator(CeilingPuzzle),
		},
		{
			Name:            "generic",
			TriggerKeywords: []string{Wildcard},
			Ceiling:         CeilingGeneric,
			Actions: []Action{
				Click("center", 300),
				Press("Space", 300),
				Wait(500),
				Screenshot(),
			},
			Evaluate: dispatchEvaluator(CeilingGeneric),
		},
	}
}

// dispatchEvaluator scores a trail by dispatch cleanliness: confidence is
// the ceiling scaled by the fraction of actions that dispatched without
// error, and success requires a fully clean trail.
func dispatchEvaluator(ceiling int) EvaluateFunc {
	return func(_ browser.Controller, observations []Observation) ActionResult {
		return scoreByDispatch(ceiling, observations)
	}
}

func scoreByDispatch(ceiling int, observations []Observation) ActionResult {
	attempted := len(observations)
	if attempted == 0 {
		return FailedResult("no actions were dispatched")
	}

	ok := 0
	for _, obs := range observations {
		if obs.OK {
			ok++
		}
	}

	confidence := ceiling * ok / attempted
	reasoning := fmt.Sprintf("%d/%d actions dispatched cleanly", ok, attempted)
	return ScoredResult(ok == attempted, confidence, reasoning, observations)
}
