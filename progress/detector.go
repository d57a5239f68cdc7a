// Package progress tracks whether a game page is actually responding.
//
// The Detector compares successive visual and textual snapshots by content
// hash and maintains per-signal change counters. Two asymmetries are load
// bearing and must not be "simplified":
//
//   - A turn counts as changed when EITHER signal changed. A game that only
//     updates a text counter, with no visual delta, is still responsive.
//   - The session counts as stuck only when BOTH signals have been frozen
//     for the threshold. A live timer over a static canvas (or a silent
//     animation) must not trip stuck detection on its own.
//
// One Detector per test session, owned by it exclusively. No locking: the
// session mutates it from a single logical thread.
package progress

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// DefaultStuckThreshold is the consecutive-identical count at which both
// signals must agree before IsStuck reports true.
const DefaultStuckThreshold = 3

// Metrics is a point-in-time copy of the detector's counters.
type Metrics struct {
	ScreenshotsWithChanges     int
	ScreenshotsIdentical       int
	ConsecutiveIdenticalVisual int
	UniqueVisualStates         int

	DOMWithChanges          int
	DOMIdentical            int
	ConsecutiveIdenticalDOM int
	UniqueDOMStates         int

	InputsAttempted  int
	InputsSuccessful int

	ProgressScore float64
}

// Detector is the hybrid visual+textual state-change tracker.
type Detector struct {
	logger *zap.Logger

	seeded         bool
	lastVisualHash string
	lastDOMHash    string
	seenVisual     map[string]struct{}
	seenDOM        map[string]struct{}

	screenshotsWithChanges     int
	screenshotsIdentical       int
	consecutiveIdenticalVisual int

	domWithChanges          int
	domIdentical            int
	consecutiveIdenticalDOM int

	inputsAttempted  int
	inputsSuccessful int
}

// NewDetector creates a detector. logger may be nil.
func NewDetector(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		logger:     logger,
		seenVisual: make(map[string]struct{}),
		seenDOM:    make(map[string]struct{}),
	}
}

// RecordState hashes both snapshots and reports whether the page changed
// since the previous call.
//
// The first call always reports changed (there is no prior to compare
// against) and seeds both hash histories. Afterwards the return value is
// visualChanged OR domChanged; each signal's consecutive-identical counter
// resets the instant that signal changes.
func (d *Detector) RecordState(visualSnapshot []byte, domText, actionLabel string) bool {
	visualHash := hashBytes(visualSnapshot)
	domHash := hashString(domText)

	if !d.seeded {
		d.seeded = true
		d.lastVisualHash = visualHash
		d.lastDOMHash = domHash
		d.seenVisual[visualHash] = struct{}{}
		d.seenDOM[domHash] = struct{}{}
		d.screenshotsWithChanges++
		d.domWithChanges++
		d.logger.Debug("state seeded",
			zap.String("action", actionLabel),
			zap.String("visual_hash", shortHash(visualHash)),
			zap.String("dom_hash", shortHash(domHash)))
		return true
	}

	visualChanged := visualHash != d.lastVisualHash
	if visualChanged {
		d.screenshotsWithChanges++
		d.consecutiveIdenticalVisual = 0
		d.seenVisual[visualHash] = struct{}{}
		d.lastVisualHash = visualHash
	} else {
		d.screenshotsIdentical++
		d.consecutiveIdenticalVisual++
	}

	domChanged := domHash != d.lastDOMHash
	if domChanged {
		d.domWithChanges++
		d.consecutiveIdenticalDOM = 0
		d.seenDOM[domHash] = struct{}{}
		d.lastDOMHash = domHash
	} else {
		d.domIdentical++
		d.consecutiveIdenticalDOM++
	}

	changed := visualChanged || domChanged
	d.logger.Debug("state recorded",
		zap.String("action", actionLabel),
		zap.Bool("visual_changed", visualChanged),
		zap.Bool("dom_changed", domChanged),
		zap.Int("consecutive_identical_visual", d.consecutiveIdenticalVisual),
		zap.Int("consecutive_identical_dom", d.consecutiveIdenticalDOM))
	return changed
}

// RecordInput counts an attempted input and whether it dispatched cleanly.
func (d *Detector) RecordInput(success bool) {
	d.inputsAttempted++
	if success {
		d.inputsSuccessful++
	}
}

// IsStuck reports whether BOTH signals have been identical for at least
// threshold consecutive calls. threshold <= 0 uses DefaultStuckThreshold.
func (d *Detector) IsStuck(threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultStuckThreshold
	}
	return d.consecutiveIdenticalVisual >= threshold &&
		d.consecutiveIdenticalDOM >= threshold
}

// ProgressScore estimates session progress in [0,100]: the input success
// rate plus a bonus of 5 per unique visual state, bonus capped at 20.
// No inputs attempted means no progress, regardless of state count.
func (d *Detector) ProgressScore() float64 {
	if d.inputsAttempted == 0 {
		return 0
	}
	successRate := float64(d.inputsSuccessful) / float64(d.inputsAttempted) * 100
	bonus := float64(len(d.seenVisual) * 5)
	if bonus > 20 {
		bonus = 20
	}
	score := successRate + bonus
	if score > 100 {
		score = 100
	}
	return score
}

// Summary renders the counters as a short description suitable for the
// next turn's game-state context. Empty before the first RecordState call.
func (d *Detector) Summary() string {
	if !d.seeded {
		return ""
	}
	return fmt.Sprintf("progress %.0f/100, %d unique visual states, %d unique text states, %d/%d inputs landed",
		d.ProgressScore(), len(d.seenVisual), len(d.seenDOM), d.inputsSuccessful, d.inputsAttempted)
}

// Metrics returns a copy of the current counters.
func (d *Detector) Metrics() Metrics {
	return Metrics{
		ScreenshotsWithChanges:     d.screenshotsWithChanges,
		ScreenshotsIdentical:       d.screenshotsIdentical,
		ConsecutiveIdenticalVisual: d.consecutiveIdenticalVisual,
		UniqueVisualStates:         len(d.seenVisual),
		DOMWithChanges:             d.domWithChanges,
		DOMIdentical:               d.domIdentical,
		ConsecutiveIdenticalDOM:    d.consecutiveIdenticalDOM,
		UniqueDOMStates:            len(d.seenDOM),
		InputsAttempted:            d.inputsAttempted,
		InputsSuccessful:           d.inputsSuccessful,
		ProgressScore:              d.ProgressScore(),
	}
}

// hashBytes returns the xxHash of raw snapshot bytes, hex-encoded.
func hashBytes(b []byte) string {
	return encodeHash(xxhash.Sum64(b))
}

// hashString returns the xxHash of a text snapshot, hex-encoded.
func hashString(s string) string {
	return encodeHash(xxhash.Sum64String(s))
}

func encodeHash(h uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h)
	return hex.EncodeToString(buf[:])
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
