// apps/go-server/internal/play/session.go
//
// Live game sessions: one engine, one event loop, any number of viewers.
// Responsibilities:
//   - Refuse to start without an assessment id or a current candidate.
//   - Build the engine for the requested game on the session's loop.
//   - Apply player actions one at a time and return the resulting view.
//   - Publish a snapshot after every action and every timer callback.
//   - Hand the outcome to the pipeline exactly once, without blocking play.
//   - Tear the loop down on Close, stopping every timer the engine armed.
//
// Notes:
//   - Engine state is only touched from the loop goroutine.
//   - Subscriber channels are buffered; a slow viewer misses snapshots rather
//     than stalling the game.

package play

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/softskill/apps/go-server/internal/bank"
	"github.com/robalobadob/softskill/apps/go-server/internal/game"
	"github.com/robalobadob/softskill/apps/go-server/internal/loop"
	"github.com/robalobadob/softskill/apps/go-server/internal/pipeline"
)

var (
	// ErrMissingContext is returned by Start without an assessment or candidate.
	ErrMissingContext = errors.New("missing session context")
	// ErrUnknownAction is returned by Apply for an action the game does not know.
	ErrUnknownAction = errors.New("unknown action")
	// ErrClosed is returned by Apply and Snapshot after Close.
	ErrClosed = errors.New("session closed")
)

// SessionAccessor resolves the candidate the current request acts for.
type SessionAccessor interface {
	CurrentCandidateID(ctx context.Context) (int64, bool)
}

// Dispatcher receives completed sessions; pipeline.Pipeline satisfies it.
type Dispatcher interface {
	Dispatch(c pipeline.Completion, done func(pipeline.Result))
}

// Params describes the session to start.
type Params struct {
	AssessmentID  int64
	Kind          game.Kind
	Bank          *bank.Bank  // nil: bank.Current()
	Random        game.Random // nil: engine default
	MatchDelay    time.Duration
	MismatchDelay time.Duration
	Dispatcher    Dispatcher            // nil: outcome is kept but not recorded
	OnRecorded    func(pipeline.Result) // optional, runs on the pipeline goroutine
}

// Snapshot is what viewers see after each step.
type Snapshot struct {
	SessionID    string    `json:"sessionId"`
	Game         game.Kind `json:"game"`
	AssessmentID int64     `json:"assessmentId"`
	Finished     bool      `json:"finished"`
	Score        *int      `json:"score,omitempty"`
	Feedback     string    `json:"feedback,omitempty"`
	View         any       `json:"view"`
}

// Session is one live play-through.
type Session struct {
	ID           string
	Kind         game.Kind
	AssessmentID int64
	CandidateID  int64
	CreatedAt    time.Time

	loop   *loop.Loop
	engine engine
	params Params

	mu      sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
	closed  bool
	outcome *game.Outcome

	closeOnce sync.Once
}

// Start validates the context and builds the engine on a fresh loop.
func Start(ctx context.Context, accessor SessionAccessor, p Params) (*Session, error) {
	if p.AssessmentID <= 0 || accessor == nil {
		return nil, ErrMissingContext
	}
	candidateID, ok := accessor.CurrentCandidateID(ctx)
	if !ok || candidateID <= 0 {
		return nil, ErrMissingContext
	}
	if _, err := game.ParseKind(string(p.Kind)); err != nil {
		return nil, err
	}
	if p.Bank == nil {
		p.Bank = bank.Current()
	}

	s := &Session{
		ID:           uuid.NewString(),
		Kind:         p.Kind,
		AssessmentID: p.AssessmentID,
		CandidateID:  candidateID,
		CreatedAt:    time.Now().UTC(),
		loop:         loop.New(),
		params:       p,
		subs:         make(map[int]chan Snapshot),
	}

	var buildErr error
	if err := s.loop.Do(func() { s.engine, buildErr = s.build() }); err != nil {
		buildErr = err
	}
	if buildErr != nil {
		s.loop.Close()
		return nil, fmt.Errorf("start %s: %w", p.Kind, buildErr)
	}
	log.Info().Str("session", s.ID).Str("game", string(s.Kind)).
		Int64("assessment", s.AssessmentID).Int64("candidate", s.CandidateID).Msg("session started")
	return s, nil
}

// Apply runs one action and returns the resulting snapshot. Actions the game
// rejects as invalid input are no-ops, not errors.
func (s *Session) Apply(ctx context.Context, a Action) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	var applyErr error
	err := s.loop.Do(func() {
		if applyErr = s.engine.apply(a); applyErr != nil {
			return
		}
		snap = s.snapshot()
		s.broadcast(snap)
	})
	if errors.Is(err, loop.ErrClosed) {
		return Snapshot{}, ErrClosed
	}
	return snap, applyErr
}

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := s.loop.Do(func() { snap = s.snapshot() }); err != nil {
		return Snapshot{}, ErrClosed
	}
	return snap, nil
}

// Outcome returns the outcome once the game has ended.
func (s *Session) Outcome() (game.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return game.Outcome{}, false
	}
	return *s.outcome, true
}

// Subscribe returns a channel of snapshots and a func to stop receiving.
// The channel is closed when the session closes.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 16)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close stops the engine's timers, the loop and every subscription.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		_ = s.loop.Do(func() { s.engine.close() })
		s.loop.Close()

		s.mu.Lock()
		s.closed = true
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
		s.mu.Unlock()
		log.Debug().Str("session", s.ID).Msg("session closed")
	})
}

// Pending reports the number of armed timers; zero once closed.
func (s *Session) Pending() int { return s.loop.Pending() }

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		SessionID:    s.ID,
		Game:         s.Kind,
		AssessmentID: s.AssessmentID,
		View:         s.engine.view(),
	}
	if out, ok := s.engine.outcome(); ok {
		score := out.Score
		snap.Finished = true
		snap.Score = &score
		snap.Feedback = out.Feedback
	}
	return snap
}

func (s *Session) broadcast(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// complete runs on the loop when the engine emits its outcome.
func (s *Session) complete(out game.Outcome) {
	s.mu.Lock()
	if s.outcome != nil {
		s.mu.Unlock()
		return
	}
	s.outcome = &out
	s.mu.Unlock()

	log.Info().Str("session", s.ID).Str("game", string(s.Kind)).Int("score", out.Score).Msg("session complete")
	if s.params.Dispatcher == nil {
		return
	}
	s.params.Dispatcher.Dispatch(pipeline.Completion{Outcome: out, CandidateID: s.CandidateID}, s.params.OnRecorded)
}

// publishing wraps the loop so that timer callbacks publish a snapshot.
type publishing struct {
	game.Scheduler
	s *Session
}

func (p publishing) After(d time.Duration, fn func()) func() {
	return p.Scheduler.After(d, func() { fn(); p.s.broadcast(p.s.snapshot()) })
}

func (p publishing) Every(d time.Duration, fn func()) func() {
	return p.Scheduler.Every(d, func() { fn(); p.s.broadcast(p.s.snapshot()) })
}
