// apps/go-server/internal/game/cardmatch/engine.go
//
// Core engine for a single card-matching session.
// Responsibilities:
//   - Deal 16 cards (8 symbols × 2) in a uniform Fisher–Yates order.
//   - Accept flips, open at most two cards at a time, and evaluate each pair.
//   - Resolve pairs after a short delay (match) or a longer one (mismatch) so
//     the presentation layer can show both faces.
//   - Keep an elapsed-seconds counter that ticks once per second until the
//     last pair is matched.
//
// Notes:
//   - Flips of matched or face-up cards, and flips while a pair is open, are
//     ignored.
//   - Delays and ticks are scheduled on the injected game.Scheduler; Close
//     cancels them at session teardown.

package cardmatch

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
	"github.com/robalobadob/softskill/apps/go-server/internal/rng"
)

var (
	// ErrNoScheduler is returned by New without a scheduler.
	ErrNoScheduler = errors.New("cardmatch: scheduler required")
	// ErrSymbols is returned when the symbol set is not TotalPairs distinct faces.
	ErrSymbols = fmt.Errorf("cardmatch: need %d distinct symbols", TotalPairs)
)

// Option configures a Game.
type Option func(*Game)

// WithRandom sets the random source used to shuffle the deck.
func WithRandom(r game.Random) Option { return func(g *Game) { g.rand = r } }

// WithSymbols overrides the eight card faces.
func WithSymbols(symbols []string) Option {
	return func(g *Game) { g.symbols = append([]string(nil), symbols...) }
}

// WithDelays overrides the match / mismatch resolution delays.
func WithDelays(match, mismatch time.Duration) Option {
	return func(g *Game) { g.matchDelay, g.mismatchDelay = match, mismatch }
}

// OnComplete registers the callback that receives the outcome.
func OnComplete(fn func(game.Outcome)) Option { return func(g *Game) { g.onComplete = fn } }

// Game holds the state of one card-matching session.
type Game struct {
	session       game.Session
	sched         game.Scheduler
	rand          game.Random
	onComplete    func(game.Outcome)
	symbols       []string
	matchDelay    time.Duration
	mismatchDelay time.Duration

	phase     Phase
	cards     []Card
	open      []int // indices of face-up, unresolved cards
	matches   int
	attempts  int
	elapsed   int // seconds, updated by the tick
	finalTime int // seconds, frozen on completion

	stopTick    func()
	stopResolve func()

	metrics Metrics
	score   int
	outcome *game.Outcome
}

// New constructs a game, deals the deck and starts the elapsed-time tick.
func New(assessmentID int64, sched game.Scheduler, opts ...Option) (*Game, error) {
	if sched == nil {
		return nil, ErrNoScheduler
	}
	g := &Game{
		sched:         sched,
		symbols:       DefaultSymbols,
		matchDelay:    DefaultMatchDelay,
		mismatchDelay: DefaultMismatchDelay,
		phase:         PhaseDealing,
	}
	for _, o := range opts {
		o(g)
	}
	if g.rand == nil {
		g.rand = rng.New()
	}
	if !validSymbols(g.symbols) {
		return nil, ErrSymbols
	}
	s, err := game.NewSession(assessmentID, sched.Now())
	if err != nil {
		return nil, err
	}
	g.session = s
	g.Init()
	return g, nil
}

// Init deals a freshly shuffled deck and restarts counters and the tick.
// It is a no-op once the session has produced its outcome.
func (g *Game) Init() {
	if g.outcome != nil {
		return
	}
	g.stopTimers()
	g.phase = PhaseDealing

	faces := make([]string, 0, DeckSize)
	faces = append(faces, g.symbols...)
	faces = append(faces, g.symbols...)
	for i := len(faces) - 1; i > 0; i-- {
		j := g.rand.IntN(i + 1)
		faces[i], faces[j] = faces[j], faces[i]
	}
	g.cards = make([]Card, len(faces))
	for i, f := range faces {
		g.cards[i] = Card{ID: i, Symbol: f}
	}

	g.open = nil
	g.matches, g.attempts = 0, 0
	g.elapsed, g.finalTime = 0, 0
	g.metrics = Metrics{}
	g.score = 0
	g.session.StartedAt = g.sched.Now()
	g.stopTick = g.sched.Every(time.Second, g.tick)
	g.phase = PhaseFlipping
}

func (g *Game) tick() {
	if g.phase == PhaseComplete {
		return
	}
	g.elapsed = int(g.sched.Now().Sub(g.session.StartedAt) / time.Second)
}

// Flip turns card id face up. When a second card is opened the attempt is
// counted and the pair is evaluated.
func (g *Game) Flip(id int) {
	if g.phase != PhaseFlipping && g.phase != PhaseResolving {
		return
	}
	if id < 0 || id >= len(g.cards) || len(g.open) >= 2 {
		return
	}
	c := &g.cards[id]
	if c.Flipped || c.Matched {
		return
	}
	c.Flipped = true
	g.open = append(g.open, id)
	if len(g.open) == 2 {
		g.attempts++
		g.phase = PhaseResolving
		g.evaluate()
	}
}

// evaluate awards metrics for the open pair and schedules its resolution.
func (g *Game) evaluate() {
	a, b := g.cards[g.open[0]], g.cards[g.open[1]]
	if a.Symbol == b.Symbol {
		g.metrics.ConcentrationLevel += 15
		g.metrics.MemoryRetention += 10
		switch {
		case g.elapsed < 30:
			g.metrics.VisualProcessing += 20
		case g.elapsed < 60:
			g.metrics.VisualProcessing += 15
		default:
			g.metrics.VisualProcessing += 10
		}
		g.stopResolve = g.sched.After(g.matchDelay, g.resolveMatch)
		return
	}
	// Small credit for continued effort despite the miss.
	g.metrics.TaskPersistence += 5
	g.metrics.ConcentrationLevel += 2
	g.stopResolve = g.sched.After(g.mismatchDelay, g.resolveMismatch)
}

func (g *Game) resolveMatch() {
	for _, i := range g.open {
		g.cards[i].Matched = true
		g.cards[i].Flipped = false
	}
	g.open = nil
	g.stopResolve = nil
	g.matches++
	g.phase = PhaseFlipping
	if g.matches == TotalPairs {
		g.complete()
	}
}

func (g *Game) resolveMismatch() {
	for _, i := range g.open {
		g.cards[i].Flipped = false
	}
	g.open = nil
	g.stopResolve = nil
	g.phase = PhaseFlipping
}

// complete stops the clock, finalizes metrics and hands off the outcome once.
func (g *Game) complete() {
	g.stopTimers()
	g.finalTime = g.elapsed
	g.phase = PhaseComplete
	g.session.Finished = true
	g.finalizeMetrics()
	g.score = ScoreFor(g.Accuracy(), g.finalTime)

	out := game.Outcome{
		Kind:         game.KindCardMatch,
		AssessmentID: g.session.AssessmentID,
		Score:        g.score,
		Feedback:     g.feedback(),
		Report:       g.report(),
		Telemetry: Telemetry{
			Matches:         g.matches,
			Attempts:        g.attempts,
			TimeSpent:       game.FormatClock(g.finalTime),
			Accuracy:        g.Accuracy(),
			AvgResponseTime: g.avgResponseTime(),
			Metrics:         g.metrics,
		},
	}
	g.outcome = &out
	if g.onComplete != nil {
		g.onComplete(out)
	}
}

func (g *Game) finalizeMetrics() {
	maxConcentration := float64(TotalPairs*15 + (g.attempts-TotalPairs)*2)
	if maxConcentration > 0 {
		g.metrics.ConcentrationLevel = game.Clamp(g.metrics.ConcentrationLevel/maxConcentration*100, 0, 100)
	} else {
		g.metrics.ConcentrationLevel = 0
	}
	g.metrics.MemoryRetention = math.Min(100, g.metrics.MemoryRetention)
	g.metrics.VisualProcessing = math.Min(100, g.metrics.VisualProcessing)
	if g.phase == PhaseComplete {
		g.metrics.TaskPersistence = math.Min(100, 80+float64(g.Accuracy())/5)
	} else {
		g.metrics.TaskPersistence = math.Min(80, g.metrics.TaskPersistence)
	}
}

func (g *Game) stopTimers() {
	if g.stopTick != nil {
		g.stopTick()
		g.stopTick = nil
	}
	if g.stopResolve != nil {
		g.stopResolve()
		g.stopResolve = nil
	}
}

// Close cancels the tick and any pending resolution.
func (g *Game) Close() { g.stopTimers() }

// Accuracy is round(matches/attempts*100), or 100 before any attempt.
func (g *Game) Accuracy() int {
	if g.attempts == 0 {
		return 100
	}
	return game.Percent(g.matches, g.attempts)
}

func (g *Game) avgResponseTime() string {
	if g.attempts == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(g.finalTime)/float64(g.attempts))
}

// ScoreFor is accuracy plus a time bonus of a tenth of a point per second
// under five minutes, capped at 100.
func ScoreFor(accuracy, finalTime int) int {
	timeBonus := math.Max(0, float64(300-finalTime)) / 10
	return min(100, game.Round(float64(accuracy)+timeBonus))
}

// Phase returns the current state.
func (g *Game) Phase() Phase { return g.phase }

// Session returns the session descriptor.
func (g *Game) Session() game.Session { return g.session }

// Metrics returns a copy of the metric accumulator.
func (g *Game) Metrics() Metrics { return g.metrics }

// Matches returns the number of matched pairs.
func (g *Game) Matches() int { return g.matches }

// Attempts returns the number of evaluated pairs.
func (g *Game) Attempts() int { return g.attempts }

// Elapsed returns the elapsed seconds as of the last tick.
func (g *Game) Elapsed() int { return g.elapsed }

// FinalTime returns the frozen completion time in seconds.
func (g *Game) FinalTime() int { return g.finalTime }

// Score returns the score; 0 until complete.
func (g *Game) Score() int { return g.score }

// Cards returns a copy of the deck.
func (g *Game) Cards() []Card { return append([]Card(nil), g.cards...) }

// Outcome returns the outcome once the game is complete.
func (g *Game) Outcome() (game.Outcome, bool) {
	if g.outcome == nil {
		return game.Outcome{}, false
	}
	return *g.outcome, true
}

func validSymbols(s []string) bool {
	if len(s) != TotalPairs {
		return false
	}
	seen := make(map[string]bool, len(s))
	for _, v := range s {
		if v == "" || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
