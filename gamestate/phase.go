// Package gamestate classifies a page's DOM text into a game phase.
//
// The classifier is deliberately dumb: lowercase keyword containment over a
// fixed pattern set. It exists to give turn context ("the page currently
// shows a menu") to the orchestrator and the vision prompt, not to be an
// authoritative state machine.
package gamestate

import (
	"strings"
)

// GamePhase is the coarse phase a game page is in.
type GamePhase int

const (
	// PhaseUnknown means no pattern matched.
	PhaseUnknown GamePhase = iota
	// PhaseLoading means the page is still loading assets.
	PhaseLoading
	// PhaseMenu means a start/title screen is showing.
	PhaseMenu
	// PhasePlaying means gameplay appears to be underway.
	PhasePlaying
	// PhasePaused means the game is suspended awaiting resume.
	PhasePaused
	// PhaseGameOver means an end screen (win or lose) is showing.
	PhaseGameOver
)

// String returns the phase name.
func (p GamePhase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Phase text patterns, matched case-insensitively.
var (
	loadingPatterns = []string{"loading", "please wait", "connecting"}

	gameOverPatterns = []string{"game over", "you win", "you lose", "you died", "try again", "restart", "final score"}

	pausedPatterns = []string{"paused", "resume"}

	menuPatterns = []string{"start", "play", "new game", "main menu", "press enter", "click to begin"}

	playingPatterns = []string{"score", "lives", "level", "time left", "health"}
)

// Classify maps DOM text to a GamePhase.
//
// Precedence when multiple pattern sets match: loading > game over > paused >
// menu > playing. Game over is checked before menu because end screens
// usually carry menu words too ("play again", "restart"). Empty text is
// PhaseUnknown.
func Classify(domText string) GamePhase {
	text := strings.ToLower(domText)
	if strings.TrimSpace(text) == "" {
		return PhaseUnknown
	}

	switch {
	case matchesAny(text, loadingPatterns):
		return PhaseLoading
	case matchesAny(text, gameOverPatterns):
		return PhaseGameOver
	case matchesAny(text, pausedPatterns):
		return PhasePaused
	case matchesAny(text, menuPatterns):
		return PhaseMenu
	case matchesAny(text, playingPatterns):
		return PhasePlaying
	default:
		return PhaseUnknown
	}
}

func matchesAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
