// apps/go-server/internal/game/types.go
//
// Shared contracts for the assessment game engines.
// Defines:
//   - Kind: which mini-game a session plays (code guessing, card matching, quiz).
//   - Session: one play-through of one game for one assessment.
//   - Outcome: the immutable record produced when a session ends.
//   - Clock / Scheduler / Random: injectable time and randomness sources.
//
// Engines live in subpackages (codeguess, cardmatch, quiz) and depend only on
// this package; persistence and transport are handled by callers.

package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind names a mini-game.
type Kind string

const (
	KindCodeGuess Kind = "codeguess"
	KindCardMatch Kind = "cardmatch"
	KindQuiz      Kind = "quiz"
)

// ErrMissingAssessment is returned when an engine is started without an assessment id.
var ErrMissingAssessment = errors.New("missing assessment id")

// ParseKind validates a game name coming from outside the process.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindCodeGuess, KindCardMatch, KindQuiz:
		return k, nil
	}
	return "", fmt.Errorf("unknown game %q", s)
}

// SkillType is the recruiter-facing label of the skill a game measures.
func (k Kind) SkillType() string {
	switch k {
	case KindCodeGuess:
		return "Problem Solving"
	case KindCardMatch:
		return "Memory & Focus"
	case KindQuiz:
		return "Critical Thinking"
	}
	return string(k)
}

// Session identifies a single play-through.
type Session struct {
	AssessmentID int64     // Assessment the play-through belongs to.
	StartedAt    time.Time // When the engine was initialised.
	Finished     bool      // True once a terminal state has been reached.
}

// NewSession validates the assessment id and stamps the start time.
func NewSession(assessmentID int64, now time.Time) (Session, error) {
	if assessmentID <= 0 {
		return Session{}, ErrMissingAssessment
	}
	return Session{AssessmentID: assessmentID, StartedAt: now}, nil
}

// Outcome is produced exactly once per session, at the terminal transition.
type Outcome struct {
	Kind         Kind   `json:"kind"`
	AssessmentID int64  `json:"assessmentId"`
	Score        int    `json:"score"`    // 0..100
	Feedback     string `json:"feedback"` // candidate-facing text
	Report       string `json:"report"`   // recruiter-facing text
	Telemetry    any    `json:"telemetry"`
}

// TelemetryJSON encodes the telemetry blob for transport.
func (o Outcome) TelemetryJSON() (string, error) {
	b, err := json.Marshal(o.Telemetry)
	if err != nil {
		return "", fmt.Errorf("encode telemetry: %w", err)
	}
	return string(b), nil
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs delayed and periodic callbacks on the same single-threaded
// queue that delivers player actions. The returned func cancels the callback;
// calling it more than once is harmless.
type Scheduler interface {
	Clock
	After(d time.Duration, fn func()) (stop func())
	Every(d time.Duration, fn func()) (stop func())
}

// Random returns a uniform integer in [0, n).
type Random interface {
	IntN(n int) int
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
