package jsonutil

import (
	"strings"
	"testing"
)

type recommendation struct {
	NextAction string `json:"next_action"`
	Confidence int    `json:"confidence"`
}

func TestPureJSON(t *testing.T) {
	response := `{"next_action": "click the start button", "confidence": 85}`
	result, err := ExtractJSONFromResponse[recommendation](response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NextAction != "click the start button" {
		t.Errorf("expected next_action 'click the start button', got '%s'", result.NextAction)
	}
	if result.Confidence != 85 {
		t.Errorf("expected confidence 85, got %d", result.Confidence)
	}
}

func TestJSONInMarkdownFence(t *testing.T) {
	response := "```json\n{\"next_action\": \"press ArrowUp\", \"confidence\": 70}\n```"
	result, err := ExtractJSONFromResponse[recommendation](response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NextAction != "press ArrowUp" {
		t.Errorf("expected next_action 'press ArrowUp', got '%s'", result.NextAction)
	}
}

func TestJSONWithSurroundingProse(t *testing.T) {
	response := `Looking at the screenshot... {"next_action": "wait", "confidence": 40} Hope that helps!`
	result, err := ExtractJSONFromResponse[recommendation](response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NextAction != "wait" {
		t.Errorf("expected next_action 'wait', got '%s'", result.NextAction)
	}
	if result.Confidence != 40 {
		t.Errorf("expected confidence 40, got %d", result.Confidence)
	}
}

func TestNoJSON(t *testing.T) {
	response := "The game appears to be a platformer with no visible controls."
	_, err := ExtractJSONFromResponse[recommendation](response)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to extract valid JSON") {
		t.Errorf("expected 'failed to extract valid JSON' in error, got: %v", err)
	}
}

func TestInvalidJSON(t *testing.T) {
	response := `{"next_action": "click", confidence: }`
	_, err := ExtractJSONFromResponse[recommendation](response)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestExtractJSONReturnsRawString(t *testing.T) {
	response := "noise before {\"confidence\": 10} noise after"
	raw, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"confidence": 10}` {
		t.Errorf("expected raw JSON object, got %q", raw)
	}
}
