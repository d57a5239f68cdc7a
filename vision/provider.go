// Vision provider abstraction for screenshot analysis.
//
// Information Hiding:
// - Which model vendor answers the call
// - Payload encoding per vendor API
// - Vendor error shapes, mapped to the package taxonomy
package vision

import "context"

// Provider is a vision-capable model backend. Implementations are stateless
// between calls; each AnalyzeImage is one image+text completion.
type Provider interface {
	// Name returns the provider name ("anthropic", "openai", "gemini").
	Name() string

	// Model returns the configured model identifier.
	Model() string

	// AnalyzeImage sends one image with an instruction prompt and returns
	// the model's raw text response. Rate-limit failures come back marked
	// retryable, credential failures wrap ErrInvalidCredentials.
	AnalyzeImage(ctx context.Context, mediaType string, image []byte, prompt string) (string, error)
}
