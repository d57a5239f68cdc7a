package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action kinds a VisionResult may carry after normalization.
const (
	ActionClick    = "click"
	ActionKeyboard = "keyboard"
	ActionWait     = "wait"
	ActionUnknown  = "unknown"
)

// VisionContext is the turn context embedded into the analysis prompt.
type VisionContext struct {
	// PreviousAction is the last action label tried, if any.
	PreviousAction string
	// GameState is a short free-form description of known game state.
	GameState string
	// Attempt is the current turn's attempt number.
	Attempt int
}

// VisionResult is the schema-constrained recommendation from the model.
type VisionResult struct {
	NextAction        string `json:"next_action"`
	ActionKind        string `json:"action_kind"`
	TargetDescription string `json:"target_description,omitempty"`
	Confidence        int    `json:"confidence"`
	Reasoning         string `json:"reasoning"`
}

// UnmarshalJSON accepts both integer and fractional confidence values —
// models occasionally answer 0.85 instead of 85 — then clamps into [0,100]
// and normalizes the action kind.
func (r *VisionResult) UnmarshalJSON(data []byte) error {
	// Use an alias to avoid infinite recursion
	type VisionResultAlias VisionResult
	aux := &struct {
		Confidence json.RawMessage `json:"confidence,omitempty"`
		*VisionResultAlias
	}{
		VisionResultAlias: (*VisionResultAlias)(r),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if len(aux.Confidence) > 0 {
		var f float64
		if err := json.Unmarshal(aux.Confidence, &f); err != nil {
			return fmt.Errorf("confidence is not numeric: %w", err)
		}
		if f > 0 && f <= 1 {
			f *= 100
		}
		r.Confidence = clamp(int(f + 0.5))
	}

	r.ActionKind = NormalizeActionKind(r.ActionKind)
	return nil
}

// NormalizeActionKind maps free-form model answers onto the closed kind
// set; anything unrecognized becomes "unknown".
func NormalizeActionKind(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case ActionClick, "tap":
		return ActionClick
	case ActionKeyboard, "key", "press", "keypress", "type":
		return ActionKeyboard
	case ActionWait:
		return ActionWait
	default:
		return ActionUnknown
	}
}

func clamp(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// visionSystemPrompt frames the model as a playtester and pins the reply
// to a bare JSON object.
const visionSystemPrompt = "You are an automated playtester for browser games. " +
	"You look at one screenshot and recommend the single next interaction to try. " +
	"Respond with only a JSON object, no prose and no markdown fences."

// buildAnalysisPrompt embeds the turn context and the response schema.
func buildAnalysisPrompt(vctx VisionContext) string {
	var b strings.Builder

	b.WriteString("Decide the next interaction for this game screenshot.\n")
	fmt.Fprintf(&b, "Attempt number: %d\n", vctx.Attempt)
	if vctx.PreviousAction != "" {
		fmt.Fprintf(&b, "Previous action: %s\n", vctx.PreviousAction)
	}
	if vctx.GameState != "" {
		fmt.Fprintf(&b, "Known game state: %s\n", vctx.GameState)
	}

	b.WriteString(`
Respond with exactly this JSON shape:
{
  "next_action": "<short imperative label for the interaction>",
  "action_kind": "click" | "keyboard" | "wait",
  "target_description": "<where to aim: center, offset:dx,dy, or a visible element>",
  "confidence": <integer 0-100>,
  "reasoning": "<one sentence>"
}`)

	return b.String()
}
