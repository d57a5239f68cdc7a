package vision

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/richinex/arcadia/internal/jsonutil"
)

// Client is the Layer-2 escalation client. It is stateless between calls:
// no caching, no session affinity, one model call per AnalyzeScreenshot.
type Client struct {
	provider Provider
	logger   *zap.Logger
}

// NewClient creates a vision client. A nil logger disables logging.
func NewClient(provider Provider, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{provider: provider, logger: logger}
}

// Provider returns the backing provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// AnalyzeScreenshot sends one screenshot plus turn context to the model and
// returns its recommendation. Rate-limit failures are returned marked
// retryable and credential failures wrap ErrInvalidCredentials; every other
// failure is absorbed into a confidence-0 result so "no usable answer"
// stays representable as ordinary data.
func (c *Client) AnalyzeScreenshot(ctx context.Context, snapshot []byte, vctx VisionContext) (VisionResult, error) {
	if len(snapshot) == 0 {
		return c.degraded("no screenshot available to analyze"), nil
	}

	mediaType := http.DetectContentType(snapshot)
	if !strings.HasPrefix(mediaType, "image/") {
		return c.degraded(fmt.Sprintf("snapshot is %s, not an image", mediaType)), nil
	}

	prompt := buildAnalysisPrompt(vctx)

	c.logger.Debug("requesting vision analysis",
		zap.String("provider", c.provider.Name()),
		zap.String("model", c.provider.Model()),
		zap.Int("snapshot_bytes", len(snapshot)),
		zap.Int("attempt", vctx.Attempt))

	raw, err := c.provider.AnalyzeImage(ctx, mediaType, snapshot, prompt)
	if err != nil {
		if IsRateLimited(err) || IsCredential(err) {
			return VisionResult{}, err
		}
		c.logger.Warn("vision call failed, degrading",
			zap.String("provider", c.provider.Name()),
			zap.Error(err))
		return c.degraded(fmt.Sprintf("vision call failed: %v", err)), nil
	}

	result, err := jsonutil.ExtractJSONFromResponse[VisionResult](raw)
	if err != nil {
		c.logger.Warn("vision response not parseable, degrading",
			zap.String("provider", c.provider.Name()),
			zap.Error(err))
		return c.degraded(fmt.Sprintf("vision response not parseable: %v", err)), nil
	}

	c.logger.Info("vision analysis completed",
		zap.String("provider", c.provider.Name()),
		zap.String("next_action", result.NextAction),
		zap.String("action_kind", result.ActionKind),
		zap.Int("confidence", result.Confidence))
	return result, nil
}

func (c *Client) degraded(reason string) VisionResult {
	return VisionResult{
		ActionKind: ActionUnknown,
		Confidence: 0,
		Reasoning:  reason,
	}
}
