package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/richinex/arcadia/retry"
)

// pngSnapshot carries the PNG magic so content sniffing sees image/png.
var pngSnapshot = []byte("\x89PNG\r\n\x1a\nfake-image-bytes")

type fakeProvider struct {
	response string
	err      error

	calls         int
	lastMediaType string
	lastPrompt    string
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

func (f *fakeProvider) AnalyzeImage(_ context.Context, mediaType string, _ []byte, prompt string) (string, error) {
	f.calls++
	f.lastMediaType = mediaType
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestAnalyzeScreenshotParsesJSON(t *testing.T) {
	fp := &fakeProvider{
		response: `{"next_action":"click the start button","action_kind":"click","target_description":"center","confidence":82,"reasoning":"menu shown"}`,
	}
	client := NewClient(fp, nil)

	result, err := client.AnalyzeScreenshot(context.Background(), pngSnapshot, VisionContext{Attempt: 1})
	if err != nil {
		t.Fatalf("AnalyzeScreenshot: %v", err)
	}

	if result.NextAction != "click the start button" {
		t.Errorf("NextAction = %q", result.NextAction)
	}
	if result.ActionKind != ActionClick || result.Confidence != 82 {
		t.Errorf("got kind=%q confidence=%d", result.ActionKind, result.Confidence)
	}
	if fp.calls != 1 {
		t.Errorf("provider called %d times, want 1", fp.calls)
	}
	if fp.lastMediaType != "image/png" {
		t.Errorf("sniffed media type = %q, want image/png", fp.lastMediaType)
	}
}

func TestAnalyzeScreenshotSalvagesFencedJSON(t *testing.T) {
	fp := &fakeProvider{
		response: "```json\n{\"next_action\":\"press space\",\"action_kind\":\"keyboard\",\"confidence\":75,\"reasoning\":\"jump\"}\n```",
	}
	client := NewClient(fp, nil)

	result, err := client.AnalyzeScreenshot(context.Background(), pngSnapshot, VisionContext{})
	if err != nil {
		t.Fatalf("AnalyzeScreenshot: %v", err)
	}
	if result.NextAction != "press space" || result.Confidence != 75 {
		t.Errorf("salvage failed: %+v", result)
	}
}

func TestAnalyzeScreenshotSalvagesProseWrappedJSON(t *testing.T) {
	fp := &fakeProvider{
		response: `Here is my recommendation: {"next_action":"wait","action_kind":"wait","confidence":71,"reasoning":"still loading"} Hope that helps!`,
	}
	client := NewClient(fp, nil)

	result, err := client.AnalyzeScreenshot(context.Background(), pngSnapshot, VisionContext{})
	if err != nil {
		t.Fatalf("AnalyzeScreenshot: %v", err)
	}
	if result.ActionKind != ActionWait || result.Confidence != 71 {
		t.Errorf("salvage failed: %+v", result)
	}
}

func TestAnalyzeScreenshotUnparseableDegrades(t *testing.T) {
	fp := &fakeProvider{response: "I cannot tell what this game is."}
	client := NewClient(fp, nil)

	result, err := client.AnalyzeScreenshot(context.Background(), pngSnapshot, VisionContext{})
	if err != nil {
		t.Fatalf("expected degraded result, got error: %v", err)
	}
	if result.Confidence != 0 || result.ActionKind != ActionUnknown {
		t.Errorf("expected confidence-0 unknown result, got %+v", result)
	}
	if !strings.Contains(result.Reasoning, "not parseable") {
		t.Errorf("reasoning should describe the failure, got %q", result.Reasoning)
	}
}

func TestAnalyzeScreenshotProviderErrorDegrades(t *testing.T) {
	fp := &fakeProvider{err: errors.New("model produced no candidates")}
	client := NewClient(fp, nil)

	result, err := client.AnalyzeScreenshot(context.Background(), pngSnapshot, VisionContext{})
	if err != nil {
		t.Fatalf("unclassified provider errors must degrade, got error: %v", err)
	}
	if result.Confidence != 0 || !strings.Contains(result.Reasoning, "vision call failed") {
		t.Errorf("expected degraded result, got %+v", result)
	}
}

func TestAnalyzeScreenshotRateLimitPropagates(t *testing.T) {
	fp := &fakeProvider{err: retry.Retryable(fmt.Errorf("%w: http 429", ErrRateLimited))}
	client := NewClient(fp, nil)

	_, err := client.AnalyzeScreenshot(context.Background(), pngSnapshot, VisionContext{})
	if err == nil {
		t.Fatal("rate-limit errors must propagate for the retry substrate")
	}
	if !IsRateLimited(err) {
		t.Errorf("expected rate-limit classification, got %v", err)
	}
	if !retry.IsRetryable(err) {
		t.Errorf("rate-limit error should be retryable, got %v", err)
	}
}

func TestAnalyzeScreenshotCredentialPropagates(t *testing.T) {
	fp := &fakeProvider{err: fmt.Errorf("%w: http 401", ErrInvalidCredentials)}
	client := NewClient(fp, nil)

	_, err := client.AnalyzeScreenshot(context.Background(), pngSnapshot, VisionContext{})
	if err == nil {
		t.Fatal("credential errors must propagate")
	}
	if !IsCredential(err) {
		t.Errorf("expected credential classification, got %v", err)
	}
	if retry.IsRetryable(err) {
		t.Errorf("credential error must not be retryable")
	}
}

func TestAnalyzeScreenshotEmptySnapshot(t *testing.T) {
	fp := &fakeProvider{response: "irrelevant"}
	client := NewClient(fp, nil)

	result, err := client.AnalyzeScreenshot(context.Background(), nil, VisionContext{})
	if err != nil {
		t.Fatalf("expected degraded result, got error: %v", err)
	}
	if result.Confidence != 0 {
		t.Errorf("expected confidence 0, got %d", result.Confidence)
	}
	if fp.calls != 0 {
		t.Errorf("provider should not be called for an empty snapshot, got %d calls", fp.calls)
	}
}

func TestAnalyzeScreenshotNonImageSnapshot(t *testing.T) {
	fp := &fakeProvider{response: "irrelevant"}
	client := NewClient(fp, nil)

	result, err := client.AnalyzeScreenshot(context.Background(), []byte("<html>not an image</html>"), VisionContext{})
	if err != nil {
		t.Fatalf("expected degraded result, got error: %v", err)
	}
	if result.Confidence != 0 || fp.calls != 0 {
		t.Errorf("expected degraded result without a provider call, got %+v calls=%d", result, fp.calls)
	}
}

func TestAnalyzeScreenshotPromptCarriesContext(t *testing.T) {
	fp := &fakeProvider{
		response: `{"next_action":"wait","action_kind":"wait","confidence":50,"reasoning":"x"}`,
	}
	client := NewClient(fp, nil)

	_, err := client.AnalyzeScreenshot(context.Background(), pngSnapshot, VisionContext{
		PreviousAction: "pressed ArrowRight",
		GameState:      "score stuck at 0",
		Attempt:        3,
	})
	if err != nil {
		t.Fatalf("AnalyzeScreenshot: %v", err)
	}

	for _, want := range []string{"pressed ArrowRight", "score stuck at 0", "Attempt number: 3"} {
		if !strings.Contains(fp.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
