// apps/go-server/internal/game/cardmatch/types.go
//
// Type definitions for the card-matching (memory) engine.
// Defines:
//   - Card: one face-down/face-up card of the 16-card deck.
//   - Phase: dealing → flipping ⇄ resolving → complete.
//   - Metrics: memory & focus counters, normalised on completion.
//   - Telemetry: raw play data attached to the outcome.

package cardmatch

import "time"

const (
	TotalPairs = 8
	DeckSize   = TotalPairs * 2

	DefaultMatchDelay    = time.Second
	DefaultMismatchDelay = 1500 * time.Millisecond
)

// DefaultSymbols are the eight pair faces used when no bank overrides them.
var DefaultSymbols = []string{"🍎", "🍌", "🍒", "🍓", "🍊", "🍋", "🍐", "🍇"}

// Card is a single card of the deck.
type Card struct {
	ID      int    `json:"id"`
	Symbol  string `json:"symbol"`
	Flipped bool   `json:"flipped"`
	Matched bool   `json:"matched"`
}

// Phase is the coarse state of the engine.
type Phase string

const (
	PhaseDealing   Phase = "dealing"
	PhaseFlipping  Phase = "flipping"
	PhaseResolving Phase = "resolving"
	PhaseComplete  Phase = "complete"
)

// Metrics accumulates memory & focus signals.
type Metrics struct {
	ConcentrationLevel float64 `json:"concentrationLevel"`
	MemoryRetention    float64 `json:"memoryRetention"`
	VisualProcessing   float64 `json:"visualProcessing"`
	TaskPersistence    float64 `json:"taskPersistence"`
}

// Telemetry is the game data submitted alongside the score.
type Telemetry struct {
	Matches         int     `json:"matches"`
	Attempts        int     `json:"attempts"`
	TimeSpent       string  `json:"timeSpent"`
	Accuracy        int     `json:"accuracy"`
	AvgResponseTime string  `json:"avgResponseTime"`
	Metrics         Metrics `json:"memoryFocusMetrics"`
}
