// Orchestrator builder for fluent configuration.
//
// Information Hiding:
// - Builder state management hidden
// - Default value application delegated to New
package strategy

import (
	"go.uber.org/zap"

	"github.com/richinex/arcadia/heuristics"
	"github.com/richinex/arcadia/retry"
	"github.com/richinex/arcadia/session"
	"github.com/richinex/arcadia/vision"
)

// Builder provides fluent configuration for creating orchestrators.
// Usage: strategy.NewBuilder(visionClient).Logger(l).Build().
type Builder struct {
	cfg Config
}

// NewBuilder creates a builder around the required vision client.
func NewBuilder(visionClient *vision.Client) *Builder {
	return &Builder{cfg: Config{Vision: visionClient}}
}

// Heuristics sets the Layer-1 template registry.
func (b *Builder) Heuristics(registry *heuristics.Registry) *Builder {
	b.cfg.Heuristics = registry
	return b
}

// Executor sets the heuristic sequence executor.
func (b *Builder) Executor(executor *heuristics.Executor) *Builder {
	b.cfg.Executor = executor
	return b
}

// Retry sets the vision call's retry policy.
func (b *Builder) Retry(opts retry.Options) *Builder {
	b.cfg.Retry = &opts
	return b
}

// Logger sets the decision logger.
func (b *Builder) Logger(logger *zap.Logger) *Builder {
	b.cfg.Logger = logger
	return b
}

// Store sets the session transcript store.
func (b *Builder) Store(store session.Store) *Builder {
	b.cfg.Store = store
	return b
}

// Build creates the orchestrator.
func (b *Builder) Build() (*Orchestrator, error) {
	return New(b.cfg)
}
