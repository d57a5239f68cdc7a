package heuristics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/richinex/arcadia/browser"
)

// TargetCenter aims a click at the viewport center.
const TargetCenter = "center"

// offsetPrefix marks click targets of the form "offset:dx,dy", measured
// in pixels from the viewport center.
const offsetPrefix = "offset:"

// Executor dispatches heuristic action sequences against a live page.
type Executor struct {
	logger *zap.Logger
}

// NewExecutor creates an executor. A nil logger disables logging.
func NewExecutor(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger}
}

// Execute runs the heuristic's action sequence and returns its self-scored
// result. Individual dispatch failures are recorded in the observation
// trail and do not abort the sequence; context cancellation stops it early.
// A panic anywhere in dispatch or evaluation degrades to a zero-confidence
// failure instead of unwinding into the caller.
func (e *Executor) Execute(ctx context.Context, handle browser.Controller, h Heuristic) (result ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("heuristic panicked",
				zap.String("heuristic", h.Name),
				zap.Any("panic", r))
			result = FailedResult("heuristic %s panicked: %v", h.Name, r)
		}
	}()

	start := time.Now()
	e.logger.Debug("executing heuristic",
		zap.String("heuristic", h.Name),
		zap.Int("actions", len(h.Actions)))

	observations := make([]Observation, 0, len(h.Actions))
	for _, action := range h.Actions {
		if ctx.Err() != nil {
			break
		}
		obs := e.dispatch(ctx, handle, action)
		observations = append(observations, obs)

		if action.Kind != KindWait && action.DelayMs > 0 {
			if err := pause(ctx, action.DelayMs); err != nil {
				break
			}
		}
	}

	if h.Evaluate != nil {
		result = h.Evaluate(handle, observations)
	} else {
		result = scoreByDispatch(h.Ceiling, observations)
	}
	if result.Actions == nil {
		// Echo the executed sequence so the caller can persist any
		// captured screenshots alongside the decision.
		result.Actions = h.Actions
	}

	e.logger.Info("heuristic completed",
		zap.String("heuristic", h.Name),
		zap.Bool("success", result.Success),
		zap.Int("confidence", result.Confidence),
		zap.Duration("duration", time.Since(start)))
	return result
}

func (e *Executor) dispatch(ctx context.Context, handle browser.Controller, action Action) Observation {
	obs := Observation{Action: action}

	switch action.Kind {
	case KindClick:
		return e.click(ctx, handle, action)

	case KindKeyboard:
		if err := handle.PressKey(ctx, action.Value); err != nil {
			obs.Detail = fmt.Sprintf("press %s: %v", action.Value, err)
			return obs
		}
		obs.OK = true

	case KindWait:
		if err := pause(ctx, action.DelayMs); err != nil {
			obs.Detail = err.Error()
			return obs
		}
		obs.OK = true

	case KindScreenshot:
		shot, err := handle.CaptureScreenshot(ctx)
		if err != nil {
			obs.Detail = fmt.Sprintf("screenshot: %v", err)
			return obs
		}
		obs.OK = true
		obs.Screenshot = shot

	default:
		obs.Detail = fmt.Sprintf("unknown action kind %q", action.Kind)
	}

	return obs
}

// click resolves the action target and dispatches the click. Selector
// targets that are absent from the page fall back to a center click so a
// stale selector degrades the trail instead of wasting the turn.
func (e *Executor) click(ctx context.Context, handle browser.Controller, action Action) Observation {
	obs := Observation{Action: action}

	target := action.Target
	if target == "" {
		target = TargetCenter
	}

	switch {
	case target == TargetCenter:
		x, y := browser.Center(handle)
		if err := handle.ClickAt(ctx, x, y); err != nil {
			obs.Detail = fmt.Sprintf("click center: %v", err)
			return obs
		}
		obs.OK = true

	case strings.HasPrefix(target, offsetPrefix):
		dx, dy, err := parseOffset(target)
		if err != nil {
			obs.Detail = err.Error()
			return obs
		}
		cx, cy := browser.Center(handle)
		if err := handle.ClickAt(ctx, cx+dx, cy+dy); err != nil {
			obs.Detail = fmt.Sprintf("click %s: %v", target, err)
			return obs
		}
		obs.OK = true

	default:
		found, err := handle.ClickSelector(ctx, target)
		if err != nil {
			obs.Detail = fmt.Sprintf("click selector %q: %v", target, err)
			return obs
		}
		if found {
			obs.OK = true
			return obs
		}
		cx, cy := browser.Center(handle)
		if err := handle.ClickAt(ctx, cx, cy); err != nil {
			obs.Detail = fmt.Sprintf("selector %q not found, center fallback failed: %v", target, err)
			return obs
		}
		obs.OK = true
		obs.Detail = fmt.Sprintf("selector %q not found, clicked center instead", target)
	}

	return obs
}

func parseOffset(target string) (dx, dy int, err error) {
	raw := strings.TrimPrefix(target, offsetPrefix)
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed offset target %q", target)
	}
	dx, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed offset target %q", target)
	}
	dy, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed offset target %q", target)
	}
	return dx, dy, nil
}

func pause(ctx context.Context, ms int) error {
	if ms <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
