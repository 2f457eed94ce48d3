// apps/go-server/internal/game/codeguess/types.go
//
// Type definitions for the code-guessing (Mastermind-style) engine.
// Defines:
//   - Mark: per-position result of a guess (correct/misplaced/wrong).
//   - Guess: one submitted guess with its marks.
//   - Phase: setup → guessing → won | lost.
//   - Metrics: problem-solving counters, normalised to 0..100 on finalize.
//   - Telemetry: raw play data attached to the outcome.

package codeguess

// Mark represents the evaluation result for a single digit in a guess.
//   - "correct":   digit is in the secret at this position.
//   - "misplaced": digit is in the secret at another position.
//   - "wrong":     digit is not in the secret.
type Mark string

const (
	MarkCorrect   Mark = "correct"
	MarkMisplaced Mark = "misplaced"
	MarkWrong     Mark = "wrong"
)

const (
	CodeLength  = 4
	MaxAttempts = 4
)

// Guess is one entry of the guess history.
type Guess struct {
	Digits []int  `json:"digits"`
	Marks  []Mark `json:"feedback"`
}

// Tally counts the marks of a guess.
func (g Guess) Tally() (correct, misplaced, wrong int) {
	for _, m := range g.Marks {
		switch m {
		case MarkCorrect:
			correct++
		case MarkMisplaced:
			misplaced++
		default:
			wrong++
		}
	}
	return
}

// Phase is the coarse state of the engine.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseGuessing Phase = "guessing"
	PhaseWon      Phase = "won"
	PhaseLost     Phase = "lost"
)

// Metrics accumulates problem-solving signals.
type Metrics struct {
	TotalAttempts     int     `json:"totalAttempts"`
	TimeSpent         int     `json:"timeSpent"` // seconds
	StrategicThinking float64 `json:"strategicThinking"`
	LogicalReasoning  float64 `json:"logicalReasoning"`
	Persistence       float64 `json:"persistence"`
}

// Telemetry is the game data submitted alongside the score.
type Telemetry struct {
	Won          bool    `json:"won"`
	Attempts     int     `json:"attempts"`
	MaxAttempts  int     `json:"maxAttempts"`
	TimeSpent    string  `json:"timeSpent"`
	SecretCode   []int   `json:"secretCode"`
	GuessHistory []Guess `json:"guessHistory"`
	Metrics      Metrics `json:"problemSolvingMetrics"`
}
