package vision

import (
	"errors"
	"fmt"
	"strings"

	"github.com/richinex/arcadia/retry"
)

// Sentinel errors for the failure classes callers must tell apart.
var (
	// ErrRateLimited marks quota and throttling failures. Errors wrapping
	// it are also marked retryable for the retry substrate.
	ErrRateLimited = errors.New("vision provider rate limited")

	// ErrInvalidCredentials marks rejected API keys. Never retried.
	ErrInvalidCredentials = errors.New("vision provider credentials rejected")
)

// IsRateLimited reports whether err is a throttling failure.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsCredential reports whether err is a credential failure.
func IsCredential(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// classifyStatus maps an HTTP status from a provider SDK onto the package
// taxonomy. Unrecognized statuses pass through unchanged; the client
// absorbs those into a degraded result.
func classifyStatus(status int, err error) error {
	switch status {
	case 401, 403:
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	case 429, 529:
		return retry.Retryable(fmt.Errorf("%w: %v", ErrRateLimited, err))
	case 408, 500, 502, 503, 504:
		return retry.Retryable(err)
	default:
		return err
	}
}

var (
	credentialPatterns = []string{
		"invalid api key",
		"invalid x-api-key",
		"api key not valid",
		"authentication",
		"unauthorized",
		"permission denied",
	}
	rateLimitPatterns = []string{
		"rate limit",
		"quota",
		"too many requests",
		"overloaded",
	}
	transientPatterns = []string{
		"timeout",
		"timed out",
		"connection refused",
		"connection reset",
		"temporarily unavailable",
		"unavailable",
		"server error",
	}
)

// classifyMessage is the fallback for errors that carry no typed status:
// classify by message text, credential checks first.
func classifyMessage(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, credentialPatterns):
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	case containsAny(msg, rateLimitPatterns):
		return retry.Retryable(fmt.Errorf("%w: %v", ErrRateLimited, err))
	case containsAny(msg, transientPatterns):
		return retry.Retryable(err)
	default:
		return err
	}
}

func containsAny(msg string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
