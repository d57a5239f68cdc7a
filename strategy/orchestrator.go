// Escalation state machine: heuristics, then vision, then failure.
//
// This is THE decision path for a playtest turn. All turn decisions go
// through Decide.
//
// Information Hiding:
// - State transitions and confidence gates hidden
// - Retry of the vision call hidden
// - Transcript bookkeeping hidden
package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/richinex/arcadia/browser"
	"github.com/richinex/arcadia/heuristics"
	"github.com/richinex/arcadia/retry"
	"github.com/richinex/arcadia/session"
	"github.com/richinex/arcadia/vision"
)

// ErrUnresponsive is returned when no layer produced a confident decision.
// Layer 3 is a reserved extension point; until it exists, exhaustion is
// fatal for the session.
var ErrUnresponsive = errors.New("game unresponsive: no layer produced a confident decision")

// state is the orchestrator's position in the escalation for one turn.
type state int

const (
	stateTryHeuristic state = iota
	stateTryVision
	stateExhausted
)

func (s state) String() string {
	switch s {
	case stateTryHeuristic:
		return "try_heuristic"
	case stateTryVision:
		return "try_vision"
	case stateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Orchestrator drives the per-turn escalation. One instance serves one
// playtest session and is not safe for concurrent Decide calls; a session
// runs one turn at a time.
type Orchestrator struct {
	vision    *vision.Client
	registry  *heuristics.Registry
	executor  *heuristics.Executor
	retryOpts retry.Options
	logger    *zap.Logger
	store     session.Store

	sessionID string
	turnIndex int
}

// New creates an orchestrator, applying defaults for optional dependencies.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Vision == nil {
		return nil, fmt.Errorf("strategy: vision client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := cfg.Heuristics
	if registry == nil {
		registry = heuristics.NewRegistryWithDefaults()
	}

	executor := cfg.Executor
	if executor == nil {
		executor = heuristics.NewExecutor(logger)
	}

	var retryOpts retry.Options
	if cfg.Retry != nil {
		retryOpts = *cfg.Retry
	} else {
		retryOpts = retry.DefaultOptions()
	}
	if retryOpts.Logger == nil {
		retryOpts.Logger = logger
	}

	store := cfg.Store
	if store == nil {
		store = session.NewInMemoryStore()
	}

	return &Orchestrator{
		vision:    cfg.Vision,
		registry:  registry,
		executor:  executor,
		retryOpts: retryOpts,
		logger:    logger,
		store:     store,
	}, nil
}

// SessionID returns the transcript session ID. Empty until the first
// Decide call opens the session.
func (o *Orchestrator) SessionID() string {
	return o.sessionID
}

// Decide runs one escalation turn: the matching heuristic first, the
// vision client if the heuristic is not confident enough, and failure if
// neither clears its gate. The returned error is ErrUnresponsive (wrapped
// with turn context) on exhaustion, or the underlying fatal error when a
// layer failed unrecoverably.
func (o *Orchestrator) Decide(ctx context.Context, handle browser.Controller, sctx StrategyContext) (StrategyResult, error) {
	if handle == nil {
		return StrategyResult{}, fmt.Errorf("strategy: browser handle is required")
	}
	if err := ctx.Err(); err != nil {
		return StrategyResult{}, err
	}

	start := time.Now()
	o.ensureSession(ctx, sctx.GameType)

	var heuristicOutcome, visionOutcome layerOutcome

	st := stateTryHeuristic
	for {
		switch st {
		case stateTryHeuristic:
			heuristicOutcome = o.tryHeuristic(ctx, handle, sctx)
			o.logTransition(st, heuristicOutcome)

			if heuristicOutcome.kind == outcomeSuccess {
				o.recordTurn(ctx, heuristicOutcome.result, true, start)
				return heuristicOutcome.result, nil
			}
			st = stateTryVision

		case stateTryVision:
			visionOutcome = o.tryVision(ctx, handle, sctx)
			o.logTransition(st, visionOutcome)

			switch visionOutcome.kind {
			case outcomeSuccess:
				o.recordTurn(ctx, visionOutcome.result, true, start)
				return visionOutcome.result, nil
			case outcomeRetryable, outcomeFatal:
				failed := StrategyResult{
					Layer:     session.LayerVision,
					Reasoning: visionOutcome.err.Error(),
				}
				o.recordTurn(ctx, failed, false, start)
				return StrategyResult{}, visionOutcome.err
			default:
				st = stateExhausted
			}

		case stateExhausted:
			exhausted := StrategyResult{
				Layer: session.LayerReserved,
				Reasoning: fmt.Sprintf(
					"heuristic confidence %d and vision confidence %d below gates",
					heuristicOutcome.result.Confidence,
					visionOutcome.result.Confidence,
				),
			}
			o.recordTurn(ctx, exhausted, false, start)

			o.logger.Error("escalation exhausted",
				zap.Int("heuristic_confidence", heuristicOutcome.result.Confidence),
				zap.Int("vision_confidence", visionOutcome.result.Confidence),
				zap.String("game_type", sctx.GameType))
			return StrategyResult{}, fmt.Errorf("turn %d of session %s: %w",
				o.turnIndex-1, o.sessionID, ErrUnresponsive)
		}
	}
}

// tryHeuristic runs the keyword-matched heuristic and gates its
// self-reported confidence. Heuristic execution never errors: the executor
// absorbs failures into the score, so the outcome is success or degraded.
func (o *Orchestrator) tryHeuristic(ctx context.Context, handle browser.Controller, sctx StrategyContext) layerOutcome {
	h, ok := o.registry.Match(sctx.GameType)
	if !ok {
		return layerOutcome{
			kind: outcomeDegraded,
			result: StrategyResult{
				Layer:     session.LayerHeuristic,
				Reasoning: fmt.Sprintf("no heuristic matched game type %q", sctx.GameType),
			},
		}
	}

	res := o.executor.Execute(ctx, handle, h)
	kind, target := leadAction(h)
	result := StrategyResult{
		Layer:      session.LayerHeuristic,
		Action:     h.Name,
		ActionKind: kind,
		Target:     target,
		Confidence: res.Confidence,
		Reasoning:  res.Reasoning,
	}

	if res.Confidence > HeuristicConfidenceGate {
		return layerOutcome{kind: outcomeSuccess, result: result}
	}
	return layerOutcome{kind: outcomeDegraded, result: result}
}

// tryVision captures a fresh screenshot and asks the vision client, with
// the configured retry policy absorbing transient failures.
func (o *Orchestrator) tryVision(ctx context.Context, handle browser.Controller, sctx StrategyContext) layerOutcome {
	snapshot, err := handle.CaptureScreenshot(ctx)
	if err != nil {
		o.logger.Warn("screenshot capture failed before vision call", zap.Error(err))
		snapshot = nil
	}

	vctx := vision.VisionContext{
		PreviousAction: sctx.PreviousAction,
		GameState:      sctx.GameState,
		Attempt:        sctx.Attempt,
	}

	res, err := retry.Do(ctx, o.retryOpts, func(ctx context.Context) (vision.VisionResult, error) {
		return o.vision.AnalyzeScreenshot(ctx, snapshot, vctx)
	})
	if err != nil {
		if vision.IsCredential(err) {
			return layerOutcome{kind: outcomeFatal, err: err}
		}
		if retry.IsRetryable(err) {
			return layerOutcome{kind: outcomeRetryable, err: fmt.Errorf("vision retries exhausted: %w", err)}
		}
		return layerOutcome{kind: outcomeFatal, err: err}
	}

	result := StrategyResult{
		Layer:      session.LayerVision,
		Action:     res.NextAction,
		ActionKind: res.ActionKind,
		Target:     res.TargetDescription,
		Confidence: res.Confidence,
		Reasoning:  res.Reasoning,
	}

	if res.Confidence > VisionConfidenceGate {
		return layerOutcome{kind: outcomeSuccess, result: result}
	}
	return layerOutcome{kind: outcomeDegraded, result: result}
}

func (o *Orchestrator) logTransition(st state, outcome layerOutcome) {
	fields := []zap.Field{
		zap.Stringer("state", st),
		zap.Stringer("outcome", outcome.kind),
		zap.Int("layer", int(outcome.result.Layer)),
		zap.Int("confidence", outcome.result.Confidence),
	}
	if outcome.err != nil {
		fields = append(fields, zap.Error(outcome.err))
	} else {
		fields = append(fields, zap.String("reasoning", outcome.result.Reasoning))
	}
	o.logger.Info("layer evaluated", fields...)
}

func (o *Orchestrator) ensureSession(ctx context.Context, gameType string) {
	if o.sessionID != "" {
		return
	}
	id, err := o.store.NewSession(ctx, gameType)
	if err != nil {
		o.logger.Warn("failed to open session transcript", zap.Error(err))
		return
	}
	o.sessionID = id
}

func (o *Orchestrator) recordTurn(ctx context.Context, sr StrategyResult, success bool, start time.Time) {
	turn := session.Turn{
		Index:      o.turnIndex,
		Layer:      sr.Layer,
		Source:     o.turnSource(sr),
		Action:     sr.Action,
		ActionKind: sr.ActionKind,
		Target:     sr.Target,
		Confidence: sr.Confidence,
		Success:    success,
		Reasoning:  sr.Reasoning,
		DurationMs: time.Since(start).Milliseconds(),
		Timestamp:  time.Now().Unix(),
	}
	o.turnIndex++

	if err := o.store.Append(ctx, o.sessionID, turn); err != nil {
		o.logger.Warn("failed to record turn", zap.Error(err))
	}
}

func (o *Orchestrator) turnSource(sr StrategyResult) string {
	switch sr.Layer {
	case session.LayerHeuristic:
		return "heuristic:" + sr.Action
	case session.LayerVision:
		return "vision:" + o.vision.Provider().Name()
	default:
		return "exhausted"
	}
}

// leadAction summarizes a heuristic's sequence by its first substantive
// action, for the transcript.
func leadAction(h heuristics.Heuristic) (kind, target string) {
	for _, action := range h.Actions {
		if action.Kind == heuristics.KindScreenshot {
			continue
		}
		return string(action.Kind), action.Target
	}
	return "", ""
}
