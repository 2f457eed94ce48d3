// apps/go-server/internal/game/quiz/engine.go
//
// Core engine for a single scenario-quiz session.
// Responsibilities:
//   - Walk a fixed, ordered list of questions with forward and backward
//     navigation until the last answer is confirmed.
//   - Analyse each confirmed answer: response-time tier and category credit.
//   - Finalize once: category percentages, total score, normalised metrics
//     and the consistency index.
//
// Notes:
//   - Moving back never re-runs analysis. Confirming a question a second time
//     with a different option swaps that question's category credit; its
//     response time stays the one measured on the first pass.
//   - Out-of-range selections and Next without a selection are ignored.

package quiz

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
)

// ErrNoQuestions is returned by New without a usable question list.
var ErrNoQuestions = errors.New("quiz: questions required")

// Option configures a Game.
type Option func(*Game)

// WithQuestions sets the question list, in play order.
func WithQuestions(qs []Question) Option {
	return func(g *Game) { g.questions = append([]Question(nil), qs...) }
}

// WithClock sets the clock used for response times.
func WithClock(c game.Clock) Option { return func(g *Game) { g.clock = c } }

// OnComplete registers the callback that receives the outcome.
func OnComplete(fn func(game.Outcome)) Option { return func(g *Game) { g.onComplete = fn } }

// analysis is what one confirmed answer contributed to the accumulators.
type analysis struct {
	answer       int
	responseTime time.Duration
	speed        float64
	credit       float64
}

// Game holds the state of one quiz session.
type Game struct {
	session    game.Session
	clock      game.Clock
	onComplete func(game.Outcome)
	questions  []Question

	phase    Phase
	index    int
	selected *int
	answers  []*int
	started  []time.Time
	analyses []*analysis

	metrics     Metrics
	categoryPct map[Category]int
	correct     int
	timeSpent   int
	score       int
	outcome     *game.Outcome
}

// New constructs a game for the given assessment and starts the first question.
func New(assessmentID int64, opts ...Option) (*Game, error) {
	g := &Game{clock: game.SystemClock{}}
	for _, o := range opts {
		o(g)
	}
	if err := validQuestions(g.questions); err != nil {
		return nil, err
	}
	s, err := game.NewSession(assessmentID, g.clock.Now())
	if err != nil {
		return nil, err
	}
	g.session = s
	g.Init()
	return g, nil
}

// Init clears all answers and restarts at the first question.
// It is a no-op once the session has produced its outcome.
func (g *Game) Init() {
	if g.outcome != nil {
		return
	}
	n := len(g.questions)
	g.phase = PhaseAnswering
	g.index = 0
	g.selected = nil
	g.answers = make([]*int, n)
	g.started = make([]time.Time, n)
	g.analyses = make([]*analysis, n)
	g.metrics = Metrics{}
	g.categoryPct = nil
	g.correct, g.timeSpent, g.score = 0, 0, 0

	now := g.clock.Now()
	g.session.StartedAt = now
	g.started[0] = now
}

// SelectAnswer records a tentative choice for the current question.
func (g *Game) SelectAnswer(option int) {
	if g.phase != PhaseAnswering {
		return
	}
	if option < 0 || option >= len(g.questions[g.index].Options) {
		return
	}
	g.selected = &option
}

// NextQuestion confirms the selection, analyses it, then advances or finishes.
func (g *Game) NextQuestion() {
	if g.phase != PhaseAnswering || g.selected == nil {
		return
	}
	answer := *g.selected
	g.answers[g.index] = &answer
	g.analyze(g.index, answer)

	if g.index == len(g.questions)-1 {
		g.complete()
		return
	}
	g.index++
	g.selected = copyAnswer(g.answers[g.index])
	if g.started[g.index].IsZero() {
		g.started[g.index] = g.clock.Now()
	}
}

// PreviousQuestion steps back one question and restores its recorded answer.
func (g *Game) PreviousQuestion() {
	if g.phase != PhaseAnswering || g.index == 0 {
		return
	}
	g.index--
	g.selected = copyAnswer(g.answers[g.index])
}

func (g *Game) analyze(i, answer int) {
	q := g.questions[i]
	acc := g.metrics.field(q.Category)

	a := g.analyses[i]
	if a != nil {
		if a.answer == answer {
			return
		}
		*acc -= a.credit
	} else {
		rt := g.clock.Now().Sub(g.started[i])
		a = &analysis{responseTime: rt, speed: SpeedScore(rt)}
		g.metrics.DecisionMakingSpeed += a.speed
		g.analyses[i] = a
	}

	a.answer = answer
	a.credit = 25 // partial credit for engaging with the scenario
	if answer == q.Correct {
		a.credit = 100
	}
	*acc += a.credit
}

// SpeedScore rates a response time: 30-90s is optimal deliberation, faster
// may be rushed, up to 3 minutes is thorough, beyond that overthinking.
func SpeedScore(rt time.Duration) float64 {
	s := rt.Seconds()
	switch {
	case s >= 30 && s <= 90:
		return 100
	case s < 30:
		return 70
	case s <= 180:
		return 85
	default:
		return 60
	}
}

func (g *Game) complete() {
	g.phase = PhaseComplete
	g.session.Finished = true
	g.timeSpent = int(g.clock.Now().Sub(g.session.StartedAt) / time.Second)

	right := map[Category]int{}
	count := map[Category]int{}
	g.correct = 0
	for i, q := range g.questions {
		count[q.Category]++
		if a := g.answers[i]; a != nil && *a == q.Correct {
			g.correct++
			right[q.Category]++
		}
	}
	g.score = game.Percent(g.correct, len(g.questions))

	g.categoryPct = make(map[Category]int, len(count))
	for c, n := range count {
		g.categoryPct[c] = game.Percent(right[c], n)
	}
	g.finalizeMetrics(count)

	out := game.Outcome{
		Kind:         game.KindQuiz,
		AssessmentID: g.session.AssessmentID,
		Score:        g.score,
		Feedback:     g.feedback(),
		Report:       g.report(),
		Telemetry: Telemetry{
			CorrectAnswers:         g.correct,
			TotalQuestions:         len(g.questions),
			TimeSpent:              game.FormatClock(g.timeSpent),
			Categories:             g.CategoryPercentages(),
			Answers:                g.Answers(),
			Metrics:                g.metrics,
			AverageTimePerQuestion: g.averageTime(),
		},
	}
	g.outcome = &out
	if g.onComplete != nil {
		g.onComplete(out)
	}
}

func (g *Game) finalizeMetrics(count map[Category]int) {
	for _, c := range Categories {
		f := g.metrics.field(c)
		if count[c] == 0 {
			*f = 0
			continue
		}
		*f = math.Min(100, *f/float64(count[c]))
	}
	g.metrics.DecisionMakingSpeed = math.Min(100, g.metrics.DecisionMakingSpeed/float64(len(g.questions)))

	var pcts []float64
	for _, c := range Categories {
		if count[c] > 0 {
			pcts = append(pcts, float64(g.categoryPct[c]))
		}
	}
	g.metrics.ConsistencyIndex = Consistency(pcts)
}

// Consistency is max(0, 100 - 2*σ) over the category percentages, σ being
// the population standard deviation. Uniform results score higher than
// spiky ones.
func Consistency(pcts []float64) float64 {
	if len(pcts) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pcts {
		sum += p
	}
	mean := sum / float64(len(pcts))
	var variance float64
	for _, p := range pcts {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(pcts))
	return math.Max(0, 100-2*math.Sqrt(variance))
}

func (g *Game) averageTime() string {
	return fmt.Sprintf("%.1f", float64(g.timeSpent)/float64(len(g.questions)))
}

// Close is a no-op; the quiz schedules nothing.
func (g *Game) Close() {}

// Phase returns the current state.
func (g *Game) Phase() Phase { return g.phase }

// Session returns the session descriptor.
func (g *Game) Session() game.Session { return g.session }

// Metrics returns a copy of the metric accumulator.
func (g *Game) Metrics() Metrics { return g.metrics }

// Index returns the current question index.
func (g *Game) Index() int { return g.index }

// Selected returns the tentative selection for the current question.
func (g *Game) Selected() (int, bool) {
	if g.selected == nil {
		return 0, false
	}
	return *g.selected, true
}

// Answers returns a copy of the confirmed answers; nil entries are unanswered.
func (g *Game) Answers() []*int {
	out := make([]*int, len(g.answers))
	for i, a := range g.answers {
		out[i] = copyAnswer(a)
	}
	return out
}

// CategoryPercentages returns the per-category accuracy once complete.
func (g *Game) CategoryPercentages() map[Category]int {
	if g.categoryPct == nil {
		return nil
	}
	out := make(map[Category]int, len(g.categoryPct))
	for c, p := range g.categoryPct {
		out[c] = p
	}
	return out
}

// Score returns the score; 0 until complete.
func (g *Game) Score() int { return g.score }

// Questions returns the question list.
func (g *Game) Questions() []Question { return append([]Question(nil), g.questions...) }

// Outcome returns the outcome once the game is complete.
func (g *Game) Outcome() (game.Outcome, bool) {
	if g.outcome == nil {
		return game.Outcome{}, false
	}
	return *g.outcome, true
}

func copyAnswer(a *int) *int {
	if a == nil {
		return nil
	}
	v := *a
	return &v
}

// Validate reports the first problem with a question list.
func Validate(qs []Question) error { return validQuestions(qs) }

func validQuestions(qs []Question) error {
	if len(qs) == 0 {
		return ErrNoQuestions
	}
	for i, q := range qs {
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d: need at least 2 options", i+1)
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("question %d: correct option %d out of range", i+1, q.Correct)
		}
		if _, err := ParseCategory(string(q.Category)); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}
