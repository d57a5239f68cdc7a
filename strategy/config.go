// Orchestrator configuration types.
//
// Information Hiding:
// - Default value application hidden
// - Dependency validation hidden in New
package strategy

import (
	"go.uber.org/zap"

	"github.com/richinex/arcadia/heuristics"
	"github.com/richinex/arcadia/retry"
	"github.com/richinex/arcadia/session"
	"github.com/richinex/arcadia/vision"
)

// Confidence gates for the escalation tiers. The cheap heuristic layer
// must clear a higher bar than the paid vision layer; past Layer 2 the
// only remaining outcome is failure.
const (
	HeuristicConfidenceGate = 80
	VisionConfidenceGate    = 70
)

// Config holds orchestrator configuration.
type Config struct {
	// Vision is the Layer-2 escalation client. Required.
	Vision *vision.Client

	// Heuristics is the Layer-1 template registry.
	// Nil defaults to the built-in genre registry.
	Heuristics *heuristics.Registry

	// Executor dispatches heuristic action sequences.
	// Nil defaults to an executor sharing Logger.
	Executor *heuristics.Executor

	// Retry is the policy for the vision call. Nil defaults to
	// retry.DefaultOptions with Logger attached.
	Retry *retry.Options

	// Logger receives per-transition decision logs. Nil disables logging.
	Logger *zap.Logger

	// Store receives one session.Turn per Decide call.
	// Nil defaults to an in-memory store.
	Store session.Store
}

// DefaultConfig returns a configuration with everything but the vision
// client filled with defaults.
func DefaultConfig() Config {
	return Config{
		Heuristics: heuristics.NewRegistryWithDefaults(),
		Store:      session.NewInMemoryStore(),
	}
}
