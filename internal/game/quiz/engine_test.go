package quiz

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func fixture() []Question {
	opts := []string{"A", "B", "C", "D"}
	return []Question{
		{ID: 1, Scenario: "s1", Prompt: "q1", Options: opts, Correct: 2, Category: Teamwork},
		{ID: 2, Scenario: "s2", Prompt: "q2", Options: opts, Correct: 1, Category: ProblemSolving},
		{ID: 3, Scenario: "s3", Prompt: "q3", Options: opts, Correct: 2, Category: Communication},
		{ID: 4, Scenario: "s4", Prompt: "q4", Options: opts, Correct: 2, Category: Teamwork},
		{ID: 5, Scenario: "s5", Prompt: "q5", Options: opts, Correct: 1, Category: Communication},
	}
}

var allCorrect = []int{2, 1, 2, 2, 1}

func newGame(t *testing.T, qs []Question) (*Game, *fakeClock, *[]game.Outcome) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 2, 14, 0, 0, 0, time.UTC)}
	var got []game.Outcome
	g, err := New(5,
		WithQuestions(qs),
		WithClock(clock),
		OnComplete(func(o game.Outcome) { got = append(got, o) }),
	)
	require.NoError(t, err)
	return g, clock, &got
}

func answer(g *Game, clock *fakeClock, each time.Duration, answers ...int) {
	for _, a := range answers {
		clock.advance(each)
		g.SelectAnswer(a)
		g.NextQuestion()
	}
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(1)
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, err = New(0, WithQuestions(fixture()))
	assert.ErrorIs(t, err, game.ErrMissingAssessment)

	bad := fixture()
	bad[1].Correct = 4
	_, err = New(1, WithQuestions(bad))
	assert.ErrorContains(t, err, "question 2")

	bad = fixture()
	bad[0].Category = "leadership"
	_, err = New(1, WithQuestions(bad))
	assert.ErrorContains(t, err, "unknown category")

	bad = fixture()
	bad[2].Options = []string{"only"}
	assert.Error(t, Validate(bad))
}

func TestSelectAndNext_IgnoreInvalid(t *testing.T) {
	g, _, _ := newGame(t, fixture())
	g.NextQuestion()
	assert.Equal(t, 0, g.Index(), "next without a selection is ignored")

	g.SelectAnswer(4)
	g.SelectAnswer(-1)
	_, ok := g.Selected()
	assert.False(t, ok)

	g.PreviousQuestion()
	assert.Equal(t, 0, g.Index())

	g.SelectAnswer(3)
	g.SelectAnswer(1)
	sel, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, sel, "selection is tentative until next")
	assert.Nil(t, g.Answers()[0])
}

func TestAllCorrect(t *testing.T) {
	g, clock, got := newGame(t, fixture())
	answer(g, clock, time.Minute, allCorrect...)

	assert.Equal(t, PhaseComplete, g.Phase())
	assert.Equal(t, 100, g.Score())
	assert.Equal(t, map[Category]int{ProblemSolving: 100, Teamwork: 100, Communication: 100}, g.CategoryPercentages())

	m := g.Metrics()
	assert.Equal(t, 100.0, m.AnalyticalReasoning)
	assert.Equal(t, 100.0, m.InterpersonalSkills)
	assert.Equal(t, 100.0, m.CommunicationEffectiveness)
	assert.Equal(t, 100.0, m.DecisionMakingSpeed)
	assert.Equal(t, 100.0, m.ConsistencyIndex)

	require.Len(t, *got, 1)
	out := (*got)[0]
	assert.Equal(t, game.KindQuiz, out.Kind)
	assert.Equal(t, int64(5), out.AssessmentID)
	assert.Contains(t, out.Feedback, "Overall Performance: 100% - Excellent critical thinking skills demonstrated!")
	assert.Contains(t, out.Feedback, "Teamwork: 100% - Excellent collaboration mindset.")
	assert.Contains(t, out.Report, "Correct Answers: 5 of 5")
	assert.Contains(t, out.Report, "Total Time: 5:00")
	assert.Contains(t, out.Report, "Average Time per Question: 60.0 seconds")
	assert.Contains(t, out.Report, "HIGHLY RECOMMENDED")
	assert.Contains(t, out.Report, "Strengths: Analytical problem-solving, Team collaboration, Communication effectiveness, Efficient decision-making, Consistent performance")
	assert.NotContains(t, out.Report, "Correct Answer:")

	tel, ok := out.Telemetry.(Telemetry)
	require.True(t, ok)
	assert.Equal(t, 5, tel.CorrectAnswers)
	assert.Equal(t, "5:00", tel.TimeSpent)
	assert.Equal(t, "60.0", tel.AverageTimePerQuestion)
}

func TestMixedAnswers(t *testing.T) {
	g, clock, got := newGame(t, fixture())
	answer(g, clock, 10*time.Second, 0, 1, 3, 2, 1)

	assert.Equal(t, 60, g.Score())
	assert.Equal(t, map[Category]int{ProblemSolving: 100, Teamwork: 50, Communication: 50}, g.CategoryPercentages())

	m := g.Metrics()
	assert.Equal(t, 100.0, m.AnalyticalReasoning)
	assert.Equal(t, 62.5, m.InterpersonalSkills)
	assert.Equal(t, 62.5, m.CommunicationEffectiveness)
	assert.Equal(t, 70.0, m.DecisionMakingSpeed)
	assert.InDelta(t, 52.86, m.ConsistencyIndex, 0.01)

	out := (*got)[0]
	assert.Contains(t, out.Feedback, "Teamwork: 50% - Develop team collaboration strategies.")
	assert.Contains(t, out.Report, "CONDITIONAL - Basic critical")
	assert.Contains(t, out.Report, "Q1 (teamwork): Incorrect\nSelected: Option 1 - \"A\"\nCorrect Answer: Option 3 - \"C\"")
	assert.Contains(t, out.Report, "Q2 (problemSolving): Correct\nSelected: Option 2 - \"B\"\n\n")
	assert.Contains(t, out.Report, "Development Areas: Interpersonal team skills, Stakeholder communication, Decision-making efficiency, Performance consistency")
}

func TestSpeedScoreTiers(t *testing.T) {
	tests := []struct {
		rt   time.Duration
		want float64
	}{
		{0, 70},
		{29 * time.Second, 70},
		{30 * time.Second, 100},
		{90 * time.Second, 100},
		{91 * time.Second, 85},
		{180 * time.Second, 85},
		{181 * time.Second, 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SpeedScore(tt.rt), "rt=%s", tt.rt)
	}
}

func TestConsistency(t *testing.T) {
	assert.Equal(t, 0.0, Consistency(nil))
	assert.Equal(t, 100.0, Consistency([]float64{80, 80, 80}))
	assert.Equal(t, 0.0, Consistency([]float64{100, 0}))
	assert.InDelta(t, 100-2*47.14, Consistency([]float64{100, 0, 0}), 0.01)
}

func TestBackThenForward_DoesNotDoubleCount(t *testing.T) {
	g, clock, _ := newGame(t, fixture())
	answer(g, clock, 40*time.Second, 2)
	before := g.Metrics()

	g.SelectAnswer(3)
	g.PreviousQuestion()
	assert.Equal(t, 0, g.Index())
	sel, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, sel, "recorded answer restored")
	assert.Equal(t, before, g.Metrics(), "moving back does not run analysis")

	clock.advance(5 * time.Minute)
	g.NextQuestion()
	assert.Equal(t, 1, g.Index())
	assert.Equal(t, before, g.Metrics())
	assert.Equal(t, 2, *g.Answers()[0])
}

func TestRevisitWithNewAnswer_ReplacesCredit(t *testing.T) {
	g, clock, _ := newGame(t, fixture())
	answer(g, clock, 40*time.Second, 0) // wrong: +25, speed 100
	assert.Equal(t, 25.0, g.Metrics().InterpersonalSkills)

	g.PreviousQuestion()
	clock.advance(10 * time.Minute)
	g.SelectAnswer(2)
	g.NextQuestion()

	m := g.Metrics()
	assert.Equal(t, 100.0, m.InterpersonalSkills)
	assert.Equal(t, 100.0, m.DecisionMakingSpeed, "first-pass response time kept")
}

func TestQuestionStartKeptOnRevisit(t *testing.T) {
	g, clock, _ := newGame(t, fixture())
	answer(g, clock, 10*time.Second, 2) // Q2 starts now
	g.PreviousQuestion()
	clock.advance(20 * time.Second)
	g.NextQuestion()
	clock.advance(20 * time.Second)
	g.SelectAnswer(1)
	g.NextQuestion()
	// Q1 rushed (70) + Q2 at 40s from its first start (100).
	assert.Equal(t, 170.0, g.Metrics().DecisionMakingSpeed)
}

func TestNormalizationBounds_AllAnswerSequences(t *testing.T) {
	qs := fixture()
	total := 1
	for range qs {
		total *= 4
	}
	for n := 0; n < total; n++ {
		g, clock, got := newGame(t, qs)
		code := n
		for i := range qs {
			clock.advance(time.Duration((n+i)%7) * 40 * time.Second)
			g.SelectAnswer(code % 4)
			code /= 4
			g.NextQuestion()
		}
		require.Equal(t, PhaseComplete, g.Phase())
		require.Len(t, *got, 1)

		m := g.Metrics()
		for _, v := range []float64{m.AnalyticalReasoning, m.InterpersonalSkills, m.CommunicationEffectiveness, m.DecisionMakingSpeed, m.ConsistencyIndex} {
			require.GreaterOrEqual(t, v, 0.0, "sequence %d", n)
			require.LessOrEqual(t, v, 100.0, "sequence %d", n)
		}
		require.GreaterOrEqual(t, g.Score(), 0)
		require.LessOrEqual(t, g.Score(), 100)
	}
}

func TestMissingCategoryExcludedFromConsistency(t *testing.T) {
	qs := fixture()[:2] // teamwork + problem solving only
	g, clock, got := newGame(t, qs)
	answer(g, clock, time.Minute, 2, 1)

	assert.Equal(t, map[Category]int{ProblemSolving: 100, Teamwork: 100}, g.CategoryPercentages())
	m := g.Metrics()
	assert.Equal(t, 0.0, m.CommunicationEffectiveness)
	assert.Equal(t, 100.0, m.ConsistencyIndex)
	assert.NotContains(t, (*got)[0].Feedback, "Communication:")
}

func TestTerminalImmutability(t *testing.T) {
	g, clock, got := newGame(t, fixture())
	answer(g, clock, time.Minute, allCorrect...)
	before := g.View()
	metrics := g.Metrics()

	g.SelectAnswer(0)
	g.NextQuestion()
	g.PreviousQuestion()
	g.Init()

	assert.Equal(t, before, g.View())
	assert.Equal(t, metrics, g.Metrics())
	assert.Len(t, *got, 1)
}

func TestView(t *testing.T) {
	g, clock, _ := newGame(t, fixture())
	v := g.View()
	require.NotNil(t, v.Question)
	assert.Equal(t, "q1", v.Question.Prompt)
	assert.False(t, v.CanGoBack)
	assert.False(t, v.CanAdvance)
	assert.Equal(t, 5, v.Total)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "correct", "answer key never leaves the engine")

	answer(g, clock, time.Second, 2)
	g.SelectAnswer(0)
	v = g.View()
	assert.True(t, v.CanGoBack)
	assert.True(t, v.CanAdvance)
	assert.Equal(t, 1, v.Answered)

	answer(g, clock, time.Second, 1, 2, 2, 1)
	v = g.View()
	assert.Nil(t, v.Question)
	assert.Equal(t, PhaseComplete, v.Phase)
}

func TestTelemetryJSON(t *testing.T) {
	g, clock, got := newGame(t, fixture())
	answer(g, clock, time.Minute, allCorrect...)
	s, err := (*got)[0].TelemetryJSON()
	require.NoError(t, err)
	assert.Contains(t, s, `"answers":[2,1,2,2,1]`)
	assert.Contains(t, s, `"criticalThinkingMetrics"`)
}
