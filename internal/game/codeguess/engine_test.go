package codeguess

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
	"github.com/robalobadob/softskill/apps/go-server/internal/rng"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newGame(t *testing.T, secret []int, opts ...Option) (*Game, *fakeClock, *[]game.Outcome) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)}
	var got []game.Outcome
	opts = append([]Option{
		WithSecret(secret...),
		WithClock(clock),
		OnComplete(func(o game.Outcome) { got = append(got, o) }),
	}, opts...)
	g, err := New(7, opts...)
	require.NoError(t, err)
	return g, clock, &got
}

func enter(g *Game, digits ...int) {
	for _, d := range digits {
		g.SelectDigit(d)
	}
	g.SubmitGuess()
}

func TestEvaluate_Example(t *testing.T) {
	marks := Evaluate([]int{1, 2, 3, 4}, []int{4, 2, 0, 1})
	assert.Equal(t, []Mark{MarkMisplaced, MarkCorrect, MarkWrong, MarkMisplaced}, marks)
}

func TestEvaluate_AllSecretsAgainstSampleGuesses(t *testing.T) {
	guesses := [][]int{{0, 0, 0, 0}, {1, 2, 3, 4}, {9, 8, 7, 6}, {5, 5, 1, 1}, {0, 1, 2, 3}}
	for a := 0; a < 10; a++ {
		for b := 0; b < 10; b++ {
			for c := 0; c < 10; c++ {
				for d := 0; d < 10; d++ {
					secret := []int{a, b, c, d}
					if !validSecret(secret) {
						continue
					}
					for _, guess := range guesses {
						marks := Evaluate(secret, guess)
						for i, m := range marks {
							in := false
							for _, s := range secret {
								in = in || s == guess[i]
							}
							switch {
							case guess[i] == secret[i]:
								require.Equal(t, MarkCorrect, m)
							case in:
								require.Equal(t, MarkMisplaced, m)
							default:
								require.Equal(t, MarkWrong, m)
							}
						}
					}
				}
			}
		}
	}
}

func TestAttemptBonusTable(t *testing.T) {
	tests := []struct {
		index int
		raw   int
	}{
		{0, 150},
		{1, 130},
		{2, 120},
		{3, 110},
		{4, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.raw, 100+AttemptBonus(tt.index))
		assert.Equal(t, 100, ScoreFor(true, tt.index))
	}
	assert.Equal(t, 0, ScoreFor(false, 0))
}

func TestNew_DrawsDistinctDigits(t *testing.T) {
	for seed := int64(1); seed < 50; seed++ {
		g, err := New(1, WithRandom(rng.ForAssessment("s", "codeguess", seed)))
		require.NoError(t, err)
		assert.True(t, validSecret(g.Secret()), "secret %v", g.Secret())
	}
}

func TestNew_UsesRandomWithoutReplacement(t *testing.T) {
	// Index 0 each time takes the smallest remaining digit.
	g, err := New(1, WithRandom(rng.Sequence(0)))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, g.Secret())

	g, err = New(1, WithRandom(rng.Sequence(9, 8, 7, 6)))
	require.NoError(t, err)
	assert.Equal(t, []int{9, 8, 7, 6}, g.Secret())
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, game.ErrMissingAssessment)

	_, err = New(1, WithSecret(1, 1, 2, 3))
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestSelectDigit_Rules(t *testing.T) {
	g, _, _ := newGame(t, []int{1, 2, 3, 4})
	g.SelectDigit(5)
	g.SelectDigit(5)
	g.SelectDigit(10)
	g.SelectDigit(-1)
	assert.Equal(t, []int{5}, g.Current())

	g.SelectDigit(6)
	g.SelectDigit(7)
	g.SelectDigit(8)
	g.SelectDigit(9)
	assert.Equal(t, []int{5, 6, 7, 8}, g.Current())

	g.RemoveLastDigit()
	assert.Equal(t, []int{5, 6, 7}, g.Current())
	assert.False(t, g.CanSubmit())

	g.SubmitGuess()
	assert.Empty(t, g.History(), "early submit is ignored")
}

func TestRemoveLastDigit_Empty(t *testing.T) {
	g, _, _ := newGame(t, []int{1, 2, 3, 4})
	g.RemoveLastDigit()
	assert.Empty(t, g.Current())
}

func TestWinFirstAttempt(t *testing.T) {
	g, clock, got := newGame(t, []int{1, 2, 3, 4})
	clock.advance(75 * time.Second)
	enter(g, 1, 2, 3, 4)

	assert.Equal(t, PhaseWon, g.Phase())
	assert.Equal(t, 100, g.Score())
	require.Len(t, *got, 1)

	out := (*got)[0]
	assert.Equal(t, game.KindCodeGuess, out.Kind)
	assert.Equal(t, int64(7), out.AssessmentID)
	assert.Equal(t, 100, out.Score)
	assert.Contains(t, out.Feedback, "cracked the code in 1 attempt.")
	assert.Contains(t, out.Feedback, "Time taken: 1:15")
	assert.Contains(t, out.Feedback, "The secret code was: 1 2 3 4")
	assert.Contains(t, out.Report, "HIGHLY RECOMMENDED")
	assert.Contains(t, out.Report, "Attempt 1: 1 2 3 4 - 4 correct, 0 misplaced, 0 wrong")

	m := g.Metrics()
	assert.Equal(t, 1, m.TotalAttempts)
	assert.Equal(t, 75, m.TimeSpent)
	assert.InDelta(t, 60.0/240*100, m.StrategicThinking, 1e-9)
	assert.Equal(t, 0.0, m.LogicalReasoning)
	assert.Equal(t, 100.0, m.Persistence)

	tel, ok := out.Telemetry.(Telemetry)
	require.True(t, ok)
	assert.True(t, tel.Won)
	assert.Equal(t, 1, tel.Attempts)
	assert.Equal(t, "1:15", tel.TimeSpent)
}

func TestHistoryMostRecentFirst_AndLogicalReasoning(t *testing.T) {
	g, _, _ := newGame(t, []int{1, 2, 3, 4})
	enter(g, 1, 5, 6, 7) // 1 correct
	enter(g, 1, 2, 6, 7) // keeps the 1: +10; 2 correct
	enter(g, 1, 2, 3, 4) // keeps 1 and 2: +20, win at index 2

	h := g.History()
	require.Len(t, h, 3)
	assert.Equal(t, []int{1, 2, 3, 4}, h[0].Digits)
	assert.Equal(t, []int{1, 5, 6, 7}, h[2].Digits)

	assert.Equal(t, PhaseWon, g.Phase())
	assert.Equal(t, 2, g.Attempt())
	m := g.Metrics()
	assert.Equal(t, 30.0, m.LogicalReasoning)
	// 15 + 30 + 60 strategic points over a 240 maximum.
	assert.InDelta(t, 105.0/240*100, m.StrategicThinking, 1e-9)

	out, ok := g.Outcome()
	require.True(t, ok)
	assert.Contains(t, out.Feedback, "in 3 attempts")
	assert.Contains(t, out.Report, "Attempt 1: 1 5 6 7 - 1 correct, 0 misplaced, 3 wrong")
	assert.Contains(t, out.Report, "Attempt 3: 1 2 3 4")
}

func TestLoseAfterMaxAttempts(t *testing.T) {
	g, _, got := newGame(t, []int{1, 2, 3, 4})
	for i := 0; i < MaxAttempts; i++ {
		enter(g, 5, 6, 7, 8)
	}
	assert.Equal(t, PhaseLost, g.Phase())
	assert.Equal(t, 0, g.Score())
	require.Len(t, *got, 1)
	assert.Equal(t, 0, (*got)[0].Score)
	assert.Equal(t, 80.0, g.Metrics().Persistence)
	assert.Equal(t, 0.0, g.Metrics().StrategicThinking)
	assert.Contains(t, (*got)[0].Feedback, "The code was not cracked")
	assert.Contains(t, (*got)[0].Report, "NEEDS DEVELOPMENT")
	assert.Contains(t, (*got)[0].Report, "Attempts Used: 4 of 4")
}

func TestTerminalImmutability(t *testing.T) {
	g, _, got := newGame(t, []int{1, 2, 3, 4})
	enter(g, 1, 2, 3, 4)
	before := g.View()

	g.SelectDigit(5)
	g.RemoveLastDigit()
	g.SubmitGuess()
	enter(g, 1, 2, 3, 4)
	g.Init()

	assert.Equal(t, before, g.View())
	assert.Len(t, *got, 1)
}

func TestView(t *testing.T) {
	g, _, _ := newGame(t, []int{1, 2, 3, 4})
	g.SelectDigit(3)
	v := g.View()
	require.Len(t, v.Slots, CodeLength)
	require.NotNil(t, v.Slots[0])
	assert.Equal(t, 3, *v.Slots[0])
	assert.Nil(t, v.Slots[1])
	assert.Nil(t, v.Secret, "secret hidden during play")
	assert.Equal(t, MaxAttempts, v.AttemptsLeft)
}

func TestView_SlotsAreDistinct(t *testing.T) {
	g, _, _ := newGame(t, []int{1, 2, 3, 4})
	g.SelectDigit(3)
	g.SelectDigit(5)
	v := g.View()
	require.NotNil(t, v.Slots[0])
	require.NotNil(t, v.Slots[1])
	assert.Equal(t, 3, *v.Slots[0])
	assert.Equal(t, 5, *v.Slots[1])
}

func TestPersistence(t *testing.T) {
	assert.Equal(t, 100.0, Persistence(true, 3))
	assert.Equal(t, 40.0, Persistence(false, 2))
	assert.Equal(t, 90.0, Persistence(false, 9))
}
