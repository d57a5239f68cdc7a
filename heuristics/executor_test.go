package heuristics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/richinex/arcadia/browser"
)

type point struct {
	x, y int
}

// fakeController records every dispatch so tests can assert on the exact
// interaction sequence.
type fakeController struct {
	width  int
	height int

	clicks      []point
	selectors   []string
	keys        []string
	screenshots int

	clickErr      error
	selectorFound bool
	selectorErr   error
	keyErr        error
	shotErr       error
	shot          []byte
	domText       string
}

func newFakeController() *fakeController {
	return &fakeController{width: 800, height: 600, shot: []byte("png-bytes")}
}

func (f *fakeController) ClickAt(_ context.Context, x, y int) error {
	f.clicks = append(f.clicks, point{x, y})
	return f.clickErr
}

func (f *fakeController) ClickSelector(_ context.Context, selector string) (bool, error) {
	f.selectors = append(f.selectors, selector)
	return f.selectorFound, f.selectorErr
}

func (f *fakeController) PressKey(_ context.Context, key string) error {
	f.keys = append(f.keys, key)
	return f.keyErr
}

func (f *fakeController) CaptureScreenshot(_ context.Context) ([]byte, error) {
	f.screenshots++
	if f.shotErr != nil {
		return nil, f.shotErr
	}
	return f.shot, nil
}

func (f *fakeController) ReadDOMText(_ context.Context) (string, error) {
	return f.domText, nil
}

func (f *fakeController) ViewportSize() (int, int) {
	return f.width, f.height
}

func TestExecuteDispatchesSequence(t *testing.T) {
	fc := newFakeController()
	exec := NewExecutor(nil)

	h := Heuristic{
		Name:    "test",
		Ceiling: 80,
		Actions: []Action{
			Click("center", 0),
			Press("Space", 0),
			Wait(1),
			Screenshot(),
		},
	}

	result := exec.Execute(context.Background(), fc, h)

	if !result.Success {
		t.Errorf("expected success, got reasoning %q", result.Reasoning)
	}
	if result.Confidence != 80 {
		t.Errorf("expected confidence 80, got %d", result.Confidence)
	}
	if len(result.Observations) != 4 {
		t.Fatalf("expected 4 observations, got %d", len(result.Observations))
	}

	if len(fc.clicks) != 1 || fc.clicks[0] != (point{400, 300}) {
		t.Errorf("expected one center click at (400,300), got %v", fc.clicks)
	}
	if len(fc.keys) != 1 || fc.keys[0] != "Space" {
		t.Errorf("expected Space press, got %v", fc.keys)
	}
	if fc.screenshots != 1 {
		t.Errorf("expected 1 screenshot, got %d", fc.screenshots)
	}
	if string(result.Observations[3].Screenshot) != "png-bytes" {
		t.Errorf("screenshot bytes not recorded in observation")
	}
}

func TestExecuteOffsetTarget(t *testing.T) {
	fc := newFakeController()
	exec := NewExecutor(nil)

	h := Heuristic{
		Name:    "offsets",
		Ceiling: 90,
		Actions: []Action{Click("offset:-10,5", 0)},
	}

	result := exec.Execute(context.Background(), fc, h)

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Reasoning)
	}
	want := point{390, 305}
	if len(fc.clicks) != 1 || fc.clicks[0] != want {
		t.Errorf("expected click at %v, got %v", want, fc.clicks)
	}
}

func TestExecuteMalformedOffset(t *testing.T) {
	fc := newFakeController()
	exec := NewExecutor(nil)

	h := Heuristic{
		Name:    "bad-offset",
		Ceiling: 90,
		Actions: []Action{Click("offset:a,b", 0)},
	}

	result := exec.Execute(context.Background(), fc, h)

	if result.Success {
		t.Error("expected failure for malformed offset")
	}
	if len(fc.clicks) != 0 {
		t.Errorf("expected no clicks, got %v", fc.clicks)
	}
	obs := result.Observations[0]
	if obs.OK || !strings.Contains(obs.Detail, "malformed offset") {
		t.Errorf("expected malformed offset detail, got ok=%v detail=%q", obs.OK, obs.Detail)
	}
}

func TestExecuteSelectorFallbackToCenter(t *testing.T) {
	fc := newFakeController()
	fc.selectorFound = false
	exec := NewExecutor(nil)

	h := Heuristic{
		Name:    "selector",
		Ceiling: 75,
		Actions: []Action{Click("#start-button", 0)},
	}

	result := exec.Execute(context.Background(), fc, h)

	if len(fc.selectors) != 1 || fc.selectors[0] != "#start-button" {
		t.Fatalf("expected selector click attempt, got %v", fc.selectors)
	}
	if len(fc.clicks) != 1 || fc.clicks[0] != (point{400, 300}) {
		t.Errorf("expected center fallback click, got %v", fc.clicks)
	}

	obs := result.Observations[0]
	if !obs.OK {
		t.Errorf("fallback click should count as dispatched, detail=%q", obs.Detail)
	}
	if !strings.Contains(obs.Detail, "not found") {
		t.Errorf("expected fallback note in detail, got %q", obs.Detail)
	}
}

func TestExecuteSelectorHit(t *testing.T) {
	fc := newFakeController()
	fc.selectorFound = true
	exec := NewExecutor(nil)

	h := Heuristic{
		Name:    "selector",
		Ceiling: 75,
		Actions: []Action{Click("#start-button", 0)},
	}

	result := exec.Execute(context.Background(), fc, h)

	if len(fc.clicks) != 0 {
		t.Errorf("expected no coordinate click when selector hits, got %v", fc.clicks)
	}
	if obs := result.Observations[0]; !obs.OK || obs.Detail != "" {
		t.Errorf("expected clean selector dispatch, got ok=%v detail=%q", obs.OK, obs.Detail)
	}
}

func TestExecuteFailuresDoNotAbort(t *testing.T) {
	fc := newFakeController()
	fc.keyErr = errors.New("key rejected")
	exec := NewExecutor(nil)

	h := Heuristic{
		Name:    "partial",
		Ceiling: 80,
		Actions: []Action{
			Press("Space", 0),
			Press("Enter", 0),
			Click("center", 0),
			Screenshot(),
		},
	}

	result := exec.Execute(context.Background(), fc, h)

	if len(result.Observations) != 4 {
		t.Fatalf("expected all 4 actions attempted, got %d", len(result.Observations))
	}
	if result.Success {
		t.Error("expected failure when some dispatches error")
	}
	if result.Confidence != 80*2/4 {
		t.Errorf("expected confidence %d, got %d", 80*2/4, result.Confidence)
	}
	if fc.screenshots != 1 {
		t.Errorf("sequence should have continued to the screenshot, got %d", fc.screenshots)
	}
}

func TestExecutePanicRecovery(t *testing.T) {
	fc := newFakeController()
	exec := NewExecutor(nil)

	panicky := Heuristic{
		Name:    "panicky",
		Ceiling: 85,
		Actions: []Action{Click("center", 0)},
		Evaluate: func(_ browser.Controller, _ []Observation) ActionResult {
			panic("scoring blew up")
		},
	}

	result := exec.Execute(context.Background(), fc, panicky)

	if result.Success || result.Confidence != 0 {
		t.Errorf("expected zero-confidence failure, got success=%v confidence=%d",
			result.Success, result.Confidence)
	}
	if !strings.Contains(result.Reasoning, "panicked") {
		t.Errorf("expected panic reasoning, got %q", result.Reasoning)
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	fc := newFakeController()
	exec := NewExecutor(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := Heuristic{
		Name:    "cancelled",
		Ceiling: 80,
		Actions: []Action{Click("center", 0), Press("Space", 0)},
	}

	result := exec.Execute(ctx, fc, h)

	if result.Success || result.Confidence != 0 {
		t.Errorf("expected zero-confidence failure, got success=%v confidence=%d",
			result.Success, result.Confidence)
	}
	if len(fc.clicks) != 0 || len(fc.keys) != 0 {
		t.Errorf("expected no dispatches after cancellation, got clicks=%v keys=%v",
			fc.clicks, fc.keys)
	}
}

func TestExecuteUnknownKind(t *testing.T) {
	fc := newFakeController()
	exec := NewExecutor(nil)

	h := Heuristic{
		Name:    "unknown",
		Ceiling: 80,
		Actions: []Action{{Kind: ActionKind("teleport")}},
	}

	result := exec.Execute(context.Background(), fc, h)

	if result.Success {
		t.Error("expected failure for unknown action kind")
	}
	if obs := result.Observations[0]; !strings.Contains(obs.Detail, "unknown action kind") {
		t.Errorf("expected unknown-kind detail, got %q", obs.Detail)
	}
}
