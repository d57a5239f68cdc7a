// Security tests for vision providers to ensure error messages don't leak API keys.
package vision

import (
	"context"
	"strings"
	"testing"
	"time"
)

var leakTestImage = []byte("\x89PNG\r\n\x1a\nfake-image-bytes")

// TestAnthropicErrorNoAPIKeyLeak verifies Anthropic errors don't contain API keys
func TestAnthropicErrorNoAPIKeyLeak(t *testing.T) {
	testKey := "sk-ant-REDACTED"
	provider := NewAnthropicProvider(testKey, ModelAnthropicClaudeHaiku4, 100, 0.2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.AnalyzeImage(ctx, "image/png", leakTestImage, "test")

	if err == nil {
		t.Skip("Expected error with invalid API key, but got success - skipping leak test")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("Anthropic error message leaked API key: %v", errStr)
	}

	if strings.Contains(errStr, "x-api-key:") || strings.Contains(errStr, "X-API-Key:") {
		t.Errorf("Anthropic error exposed API key header: %v", errStr)
	}
}

// TestOpenAIErrorNoAPIKeyLeak verifies OpenAI errors don't contain API keys
func TestOpenAIErrorNoAPIKeyLeak(t *testing.T) {
	testKey := "sk-test-invalid-key-12345xyz"
	provider := NewOpenAIProvider(testKey, ModelOpenAIGPT4oMini, 100, 0.2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.AnalyzeImage(ctx, "image/png", leakTestImage, "test")

	if err == nil {
		t.Skip("Expected error with invalid API key, but got success - skipping leak test")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("OpenAI error message leaked API key: %v", errStr)
	}

	if strings.Contains(errStr, "Authorization:") {
		t.Errorf("OpenAI error exposed Authorization header: %v", errStr)
	}
}

// TestGeminiErrorNoAPIKeyLeak verifies Gemini errors don't contain API keys
func TestGeminiErrorNoAPIKeyLeak(t *testing.T) {
	testKey := "test-invalid-key-12345xyz"
	provider := NewGeminiProvider(testKey, ModelGeminiFlash2, 100, 0.2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.AnalyzeImage(ctx, "image/png", leakTestImage, "test")

	if err == nil {
		t.Skip("Expected error with invalid API key, but got success - skipping leak test")
	}

	errStr := err.Error()
	if strings.Contains(errStr, testKey) {
		t.Errorf("Gemini error message leaked API key: %v", errStr)
	}

	// Gemini uses x-goog-api-key header
	if strings.Contains(errStr, "x-goog-api-key:") {
		t.Errorf("Gemini error exposed API key header: %v", errStr)
	}
}

// TestGeminiInitErrorPreserved verifies Gemini returns initialization errors
func TestGeminiInitErrorPreserved(t *testing.T) {
	provider := NewGeminiProvider("", ModelGeminiFlash2, 100, 0.2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := provider.AnalyzeImage(ctx, "image/png", leakTestImage, "test")

	if err == nil {
		t.Error("Expected initialization error to be returned, got nil")
		return
	}

	if !strings.Contains(err.Error(), "failed to initialize") {
		t.Errorf("Expected initialization error, got: %v", err)
	}
}

func TestProviderIdentity(t *testing.T) {
	tests := []struct {
		provider Provider
		name     string
		model    string
	}{
		{NewAnthropicProvider("k", ModelAnthropicClaudeOpus45, 100, 0.2), "anthropic", ModelAnthropicClaudeOpus45},
		{NewOpenAIProvider("k", ModelOpenAIGPT52, 100, 0.2), "openai", ModelOpenAIGPT52},
		{NewGeminiProvider("k", ModelGeminiFlash3, 100, 0.2), "gemini", ModelGeminiFlash3},
	}

	for _, tt := range tests {
		if got := tt.provider.Name(); got != tt.name {
			t.Errorf("Name() = %q, want %q", got, tt.name)
		}
		if got := tt.provider.Model(); got != tt.model {
			t.Errorf("Model() = %q, want %q", got, tt.model)
		}
	}
}
