// apps/go-server/internal/game/codeguess/engine.go
//
// Core engine for a single code-guessing session.
// Responsibilities:
//   - Draw a 4-digit secret of distinct digits (without replacement).
//   - Build the in-progress guess (no repeats, at most 4 digits).
//   - Mark submitted guesses per position and keep the history most-recent-first.
//   - Accumulate strategic-thinking / logical-reasoning signals on every guess.
//   - Track state transitions: guessing → won/lost, then finalize exactly once.
//
// Notes:
//   - Invalid input (5th digit, repeated digit, early submit, input after the
//     end) is ignored rather than reported; UI-driven input never aborts a run.
//   - The engine is not safe for concurrent use; callers serialise actions.

package codeguess

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
	"github.com/robalobadob/softskill/apps/go-server/internal/rng"
)

// ErrInvalidSecret is returned by New when WithSecret is given an unusable code.
var ErrInvalidSecret = errors.New("secret must be 4 distinct digits 0-9")

// Option configures a Game.
type Option func(*Game)

// WithRandom sets the random source used to draw the secret.
func WithRandom(r game.Random) Option { return func(g *Game) { g.rand = r } }

// WithClock sets the clock used for elapsed time.
func WithClock(c game.Clock) Option { return func(g *Game) { g.clock = c } }

// OnComplete registers the callback that receives the outcome.
func OnComplete(fn func(game.Outcome)) Option { return func(g *Game) { g.onComplete = fn } }

// WithSecret fixes the secret instead of drawing one.
func WithSecret(digits ...int) Option {
	return func(g *Game) { g.fixed = append([]int(nil), digits...) }
}

// Game holds the state of one code-guessing session.
type Game struct {
	session    game.Session
	clock      game.Clock
	rand       game.Random
	onComplete func(game.Outcome)
	fixed      []int

	phase   Phase
	secret  []int
	current []int
	history []Guess // most recent first
	attempt int     // failed attempts so far; the winning attempt index when won
	score   int
	metrics Metrics
	outcome *game.Outcome
}

// New constructs and initialises a game for the given assessment.
func New(assessmentID int64, opts ...Option) (*Game, error) {
	g := &Game{clock: game.SystemClock{}, phase: PhaseSetup}
	for _, o := range opts {
		o(g)
	}
	if g.rand == nil {
		g.rand = rng.New()
	}
	if g.fixed != nil && !validSecret(g.fixed) {
		return nil, ErrInvalidSecret
	}
	s, err := game.NewSession(assessmentID, g.clock.Now())
	if err != nil {
		return nil, err
	}
	g.session = s
	g.Init()
	return g, nil
}

// Init draws a new secret and resets progress and metrics.
// It is a no-op once the session has produced its outcome.
func (g *Game) Init() {
	if g.outcome != nil {
		return
	}
	if g.fixed != nil {
		g.secret = append([]int(nil), g.fixed...)
	} else {
		g.secret = drawSecret(g.rand)
	}
	g.current = nil
	g.history = nil
	g.attempt = 0
	g.score = 0
	g.metrics = Metrics{}
	g.session.StartedAt = g.clock.Now()
	g.phase = PhaseGuessing
}

// SelectDigit appends d to the current guess if there is room and d is unused.
func (g *Game) SelectDigit(d int) {
	if g.phase != PhaseGuessing || d < 0 || d > 9 {
		return
	}
	if len(g.current) >= CodeLength || slices.Contains(g.current, d) {
		return
	}
	g.current = append(g.current, d)
}

// RemoveLastDigit pops the last digit of the current guess, if any.
func (g *Game) RemoveLastDigit() {
	if g.phase != PhaseGuessing || len(g.current) == 0 {
		return
	}
	g.current = g.current[:len(g.current)-1]
}

// CanSubmit reports whether SubmitGuess would be accepted.
func (g *Game) CanSubmit() bool {
	return g.phase == PhaseGuessing && len(g.current) == CodeLength
}

// SubmitGuess marks the current guess and advances the state machine.
//
// State transitions:
//   - Guess equals the secret → won, score from the attempt bonus table.
//   - Else the attempt counter grows; reaching MaxAttempts → lost, score 0.
//   - Otherwise the guess is cleared and play continues.
func (g *Game) SubmitGuess() {
	if !g.CanSubmit() {
		return
	}
	guess := Guess{
		Digits: append([]int(nil), g.current...),
		Marks:  Evaluate(g.secret, g.current),
	}
	g.history = append([]Guess{guess}, g.history...)
	g.metrics.TotalAttempts++
	g.analyze(guess)

	if slices.Equal(guess.Digits, g.secret) {
		g.phase = PhaseWon
		g.score = ScoreFor(true, g.attempt)
		g.finish()
		return
	}

	g.attempt++
	if g.attempt >= MaxAttempts {
		g.phase = PhaseLost
		g.score = 0
		g.finish()
		return
	}
	g.current = nil
}

// analyze updates the strategy counters for the guess just pushed to history.
// Keeping a digit that the previous guess had correct earns logical-reasoning credit.
func (g *Game) analyze(guess Guess) {
	correct, misplaced, _ := guess.Tally()
	if len(g.history) > 1 {
		prev := g.history[1]
		kept := 0
		for i, m := range prev.Marks {
			if m == MarkCorrect && guess.Digits[i] == prev.Digits[i] {
				kept++
			}
		}
		g.metrics.LogicalReasoning += float64(kept * 10)
	}
	g.metrics.StrategicThinking += float64(correct*15 + misplaced*10)
}

// finish normalises metrics, builds the outcome and hands it off once.
func (g *Game) finish() {
	won := g.phase == PhaseWon
	g.metrics.TimeSpent = int(g.clock.Now().Sub(g.session.StartedAt) / time.Second)
	g.metrics.Persistence = Persistence(won, g.attempt)

	maxStrategic := float64(MaxAttempts * CodeLength * 15)
	g.metrics.StrategicThinking = math.Min(100, g.metrics.StrategicThinking/maxStrategic*100)
	g.metrics.LogicalReasoning = math.Min(100, g.metrics.LogicalReasoning)
	g.session.Finished = true

	out := game.Outcome{
		Kind:         game.KindCodeGuess,
		AssessmentID: g.session.AssessmentID,
		Score:        g.score,
		Feedback:     g.feedback(),
		Report:       g.report(),
		Telemetry:    g.telemetry(),
	}
	g.outcome = &out
	if g.onComplete != nil {
		g.onComplete(out)
	}
}

func (g *Game) telemetry() Telemetry {
	attempts := g.attempt
	if g.phase == PhaseWon {
		attempts++
	}
	return Telemetry{
		Won:          g.phase == PhaseWon,
		Attempts:     attempts,
		MaxAttempts:  MaxAttempts,
		TimeSpent:    game.FormatClock(g.metrics.TimeSpent),
		SecretCode:   append([]int(nil), g.secret...),
		GuessHistory: g.History(),
		Metrics:      g.metrics,
	}
}

// Phase returns the current state.
func (g *Game) Phase() Phase { return g.phase }

// Session returns the session descriptor.
func (g *Game) Session() game.Session { return g.session }

// Metrics returns a copy of the metric accumulator.
func (g *Game) Metrics() Metrics { return g.metrics }

// Score returns the score; 0 until the game is won.
func (g *Game) Score() int { return g.score }

// Attempt returns the number of failed attempts so far.
func (g *Game) Attempt() int { return g.attempt }

// Current returns a copy of the in-progress guess.
func (g *Game) Current() []int { return append([]int(nil), g.current...) }

// History returns a deep copy of the guess history, most recent first.
func (g *Game) History() []Guess {
	out := make([]Guess, len(g.history))
	for i, h := range g.history {
		out[i] = Guess{Digits: append([]int(nil), h.Digits...), Marks: append([]Mark(nil), h.Marks...)}
	}
	return out
}

// Secret returns a copy of the secret code.
func (g *Game) Secret() []int { return append([]int(nil), g.secret...) }

// Outcome returns the outcome once the game has ended.
func (g *Game) Outcome() (game.Outcome, bool) {
	if g.outcome == nil {
		return game.Outcome{}, false
	}
	return *g.outcome, true
}

// Close releases nothing; the engine owns no timers.
func (g *Game) Close() {}

// Evaluate marks each position of guess against secret.
// Position i is correct iff guess[i] == secret[i], misplaced iff guess[i]
// occurs elsewhere in secret, wrong otherwise. Guesses may repeat digits.
func Evaluate(secret, guess []int) []Mark {
	res := make([]Mark, len(guess))
	for i, d := range guess {
		switch {
		case i < len(secret) && d == secret[i]:
			res[i] = MarkCorrect
		case slices.Contains(secret, d):
			res[i] = MarkMisplaced
		default:
			res[i] = MarkWrong
		}
	}
	return res
}

// AttemptBonus is the bonus for winning at the given zero-based attempt index.
func AttemptBonus(attemptIndex int) int {
	switch attemptIndex {
	case 0:
		return 50
	case 1:
		return 30
	case 2:
		return 20
	case 3:
		return 10
	}
	return 0
}

// ScoreFor is 100 plus the attempt bonus, capped at 100, for a win; 0 otherwise.
func ScoreFor(won bool, attemptIndex int) int {
	if !won {
		return 0
	}
	return min(100, 100+AttemptBonus(attemptIndex))
}

// Persistence is 100 for a win, otherwise 20 per attempt used up to 90.
func Persistence(won bool, attemptsUsed int) float64 {
	if won {
		return 100
	}
	return math.Min(90, float64(attemptsUsed*20))
}

// drawSecret picks CodeLength distinct digits uniformly without replacement.
func drawSecret(r game.Random) []int {
	available := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	secret := make([]int, 0, CodeLength)
	for len(secret) < CodeLength {
		i := r.IntN(len(available))
		secret = append(secret, available[i])
		available = append(available[:i], available[i+1:]...)
	}
	return secret
}

func validSecret(digits []int) bool {
	if len(digits) != CodeLength {
		return false
	}
	var seen [10]bool
	for _, d := range digits {
		if d < 0 || d > 9 || seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}
