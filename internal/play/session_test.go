package play

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
	"github.com/robalobadob/softskill/apps/go-server/internal/game/cardmatch"
	"github.com/robalobadob/softskill/apps/go-server/internal/game/codeguess"
	"github.com/robalobadob/softskill/apps/go-server/internal/game/quiz"
	"github.com/robalobadob/softskill/apps/go-server/internal/pipeline"
)

type candidate int64

func (c candidate) CurrentCandidateID(context.Context) (int64, bool) { return int64(c), c > 0 }

// last always picks the final index: the code is 9876 and the deck is unshuffled.
type last struct{}

func (last) IntN(n int) int { return n - 1 }

type recorder struct {
	mu   sync.Mutex
	got  []pipeline.Completion
	done chan struct{}
}

func newRecorder() *recorder { return &recorder{done: make(chan struct{}, 4)} }

func (r *recorder) Dispatch(c pipeline.Completion, done func(pipeline.Result)) {
	r.mu.Lock()
	r.got = append(r.got, c)
	r.mu.Unlock()
	if done != nil {
		done(pipeline.Result{Reached: pipeline.StepDone})
	}
	r.done <- struct{}{}
}

func (r *recorder) completions() []pipeline.Completion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pipeline.Completion(nil), r.got...)
}

func intp(v int) *int { return &v }

func start(t *testing.T, p Params) *Session {
	t.Helper()
	s, err := Start(context.Background(), candidate(7), p)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStart_RequiresContext(t *testing.T) {
	ctx := context.Background()
	_, err := Start(ctx, candidate(7), Params{Kind: game.KindQuiz})
	assert.ErrorIs(t, err, ErrMissingContext)

	_, err = Start(ctx, candidate(0), Params{AssessmentID: 1, Kind: game.KindQuiz})
	assert.ErrorIs(t, err, ErrMissingContext)

	_, err = Start(ctx, nil, Params{AssessmentID: 1, Kind: game.KindQuiz})
	assert.ErrorIs(t, err, ErrMissingContext)

	_, err = Start(ctx, candidate(7), Params{AssessmentID: 1, Kind: "chess"})
	assert.Error(t, err)
}

func TestCodeGuess_WinDispatchesOnce(t *testing.T) {
	rec := newRecorder()
	var recorded []pipeline.Result
	s := start(t, Params{
		AssessmentID: 3,
		Kind:         game.KindCodeGuess,
		Random:       last{},
		Dispatcher:   rec,
		OnRecorded:   func(r pipeline.Result) { recorded = append(recorded, r) },
	})
	ctx := context.Background()
	for _, d := range []int{9, 8, 7, 6} {
		_, err := s.Apply(ctx, Action{Type: ActSelectDigit, Digit: intp(d)})
		require.NoError(t, err)
	}
	snap, err := s.Apply(ctx, Action{Type: ActSubmitGuess})
	require.NoError(t, err)
	assert.True(t, snap.Finished)
	require.NotNil(t, snap.Score)
	assert.Equal(t, 100, *snap.Score)

	v, ok := snap.View.(codeguess.View)
	require.True(t, ok)
	assert.Equal(t, codeguess.PhaseWon, v.Phase)
	assert.Equal(t, []int{9, 8, 7, 6}, v.Secret)

	// Further input is ignored and nothing is dispatched again.
	_, err = s.Apply(ctx, Action{Type: ActSubmitGuess})
	require.NoError(t, err)

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("completion not dispatched")
	}
	got := rec.completions()
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].CandidateID)
	assert.Equal(t, int64(3), got[0].Outcome.AssessmentID)
	assert.Len(t, recorded, 1)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.Equal(t, game.KindCodeGuess, out.Kind)
}

func TestApply_UnknownAndMissingPayload(t *testing.T) {
	s := start(t, Params{AssessmentID: 1, Kind: game.KindCodeGuess, Random: last{}})
	ctx := context.Background()

	_, err := s.Apply(ctx, Action{Type: ActFlip, Card: intp(0)})
	assert.ErrorIs(t, err, ErrUnknownAction)

	snap, err := s.Apply(ctx, Action{Type: ActSelectDigit})
	require.NoError(t, err, "missing digit is a no-op")
	v := snap.View.(codeguess.View)
	assert.Empty(t, v.UsedDigits)

	snap, err = s.Apply(ctx, Action{Type: ActSelectDigit, Digit: intp(12)})
	require.NoError(t, err)
	assert.Empty(t, snap.View.(codeguess.View).UsedDigits)
}

func TestCardMatch_TimersPublishAndStopOnClose(t *testing.T) {
	s := start(t, Params{
		AssessmentID:  2,
		Kind:          game.KindCardMatch,
		Random:        last{},
		MatchDelay:    5 * time.Millisecond,
		MismatchDelay: 10 * time.Millisecond,
	})
	updates, stop := s.Subscribe()
	defer stop()

	ctx := context.Background()
	_, err := s.Apply(ctx, Action{Type: ActFlip, Card: intp(0)})
	require.NoError(t, err)
	snap, err := s.Apply(ctx, Action{Type: ActFlip, Card: intp(cardmatch.TotalPairs)})
	require.NoError(t, err)
	assert.Equal(t, cardmatch.PhaseResolving, snap.View.(cardmatch.View).Phase)

	// Two action snapshots, then the resolve callback publishes the match.
	waitFor(t, updates, func(u Snapshot) bool { return u.View.(cardmatch.View).Matches == 1 })
	assert.Positive(t, s.Pending(), "elapsed tick still armed")
	s.Close()
	assert.Equal(t, 0, s.Pending())

	_, err = s.Apply(ctx, Action{Type: ActFlip, Card: intp(1)})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Snapshot(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	_, open := <-updates
	for open {
		_, open = <-updates
	}
}

func waitFor(t *testing.T, updates <-chan Snapshot, cond func(Snapshot) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case u, ok := <-updates:
			require.True(t, ok, "subscription closed")
			if cond(u) {
				return
			}
		case <-deadline:
			t.Fatal("condition never published")
		}
	}
}

func TestQuiz_Navigation(t *testing.T) {
	s := start(t, Params{AssessmentID: 4, Kind: game.KindQuiz})
	ctx := context.Background()

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	v := snap.View.(quiz.View)
	assert.Equal(t, 0, v.Index)
	assert.False(t, v.CanAdvance)

	snap, err = s.Apply(ctx, Action{Type: ActSelectAnswer, Option: intp(1)})
	require.NoError(t, err)
	assert.True(t, snap.View.(quiz.View).CanAdvance)

	snap, err = s.Apply(ctx, Action{Type: ActNext})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.View.(quiz.View).Index)

	snap, err = s.Apply(ctx, Action{Type: ActPrevious})
	require.NoError(t, err)
	v = snap.View.(quiz.View)
	assert.Equal(t, 0, v.Index)
	require.NotNil(t, v.Selected)
	assert.Equal(t, 1, *v.Selected)

	_, err = s.Apply(ctx, Action{Type: ActRemoveDigit})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestSubscribe_AfterClose(t *testing.T) {
	s, err := Start(context.Background(), candidate(1), Params{AssessmentID: 1, Kind: game.KindQuiz})
	require.NoError(t, err)
	s.Close()
	s.Close()
	ch, stop := s.Subscribe()
	stop()
	_, open := <-ch
	assert.False(t, open)
}
