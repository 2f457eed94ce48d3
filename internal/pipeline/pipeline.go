// apps/go-server/internal/pipeline/pipeline.go
//
// Outcome pipeline: turns a finished game's Outcome into persisted records.
// Steps (in order):
//   1. submit_score   – store score, feedback and telemetry for the candidate.
//   2. mark_completed – flip the assessment to COMPLETED.
//   3. create_report  – send the recruiter-facing report to the assessment's HR.
//   4. done
//
// Failure policy:
//   - A score failure stops the pipeline; it is reported, never retried.
//   - A status or report failure is logged and does not undo the score.
//   - Optional collaborators (assessments, candidates, reports) may be nil;
//     their steps are skipped.
//
// Engines never see this package; play sessions hand it a Completion.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
)

// ErrNoScoreSink is returned by Run when no score sink was configured.
var ErrNoScoreSink = errors.New("pipeline: no score sink")

// Step names a pipeline stage.
type Step string

const (
	StepSubmitScore   Step = "submit_score"
	StepMarkCompleted Step = "mark_completed"
	StepCreateReport  Step = "create_report"
	StepDone          Step = "done"
)

// Score is the record handed to the score sink.
type Score struct {
	AssessmentID int64
	CandidateID  int64
	Score        int
	Feedback     string
	GameData     string // telemetry JSON
}

// Assessment is what the pipeline needs to know about an assessment.
type Assessment struct {
	ID          int64
	HRID        int64
	CandidateID int64
}

// Candidate identifies the person who played.
type Candidate struct {
	ID    int64
	Name  string
	Email string
}

// Report is the recruiter-facing record handed to the report sink.
type Report struct {
	RecipientID    int64
	ScoreID        int64
	CandidateName  string
	CandidateEmail string
	Score          int
	SkillType      string
	ReportText     string
}

// ScoreSink accepts scores and returns the new score id.
type ScoreSink interface {
	SubmitScore(ctx context.Context, s Score) (int64, error)
}

// Assessments resolves assessments and records their completion.
type Assessments interface {
	LookupAssessment(ctx context.Context, id int64) (Assessment, error)
	MarkCompleted(ctx context.Context, id int64) error
}

// Candidates resolves candidate identity for report headers.
type Candidates interface {
	LookupCandidate(ctx context.Context, id int64) (Candidate, error)
}

// ReportSink accepts reports and returns the new report id.
type ReportSink interface {
	SubmitReport(ctx context.Context, r Report) (int64, error)
}

// Completion is one finished session waiting to be recorded.
type Completion struct {
	Outcome     game.Outcome
	CandidateID int64
}

// Result describes how far a run got.
type Result struct {
	Reached   Step  // last step reached; StepDone on a full run
	ScoreID   int64 // 0 when the score was not stored
	ReportID  int64 // 0 when no report was stored
	Err       error // score failure; the run stopped at submit_score
	StatusErr error
	ReportErr error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAssessments enables mark_completed and report routing.
func WithAssessments(a Assessments) Option { return func(p *Pipeline) { p.assessments = a } }

// WithCandidates enables candidate name/email in reports.
func WithCandidates(c Candidates) Option { return func(p *Pipeline) { p.candidates = c } }

// WithReports enables create_report.
func WithReports(r ReportSink) Option { return func(p *Pipeline) { p.reports = r } }

// WithTimeout bounds each dispatched run.
func WithTimeout(d time.Duration) Option { return func(p *Pipeline) { p.timeout = d } }

// WithClock sets the clock used for the report date.
func WithClock(c game.Clock) Option { return func(p *Pipeline) { p.clock = c } }

// Pipeline runs completions through the configured sinks.
type Pipeline struct {
	scores      ScoreSink
	assessments Assessments
	candidates  Candidates
	reports     ReportSink
	clock       game.Clock
	timeout     time.Duration
}

// New builds a pipeline around a score sink.
func New(scores ScoreSink, opts ...Option) *Pipeline {
	p := &Pipeline{scores: scores, clock: game.SystemClock{}, timeout: 15 * time.Second}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes every step for c and reports how far it got.
func (p *Pipeline) Run(ctx context.Context, c Completion) Result {
	out := c.Outcome
	logger := log.With().
		Int64("assessment", out.AssessmentID).
		Int64("candidate", c.CandidateID).
		Str("game", string(out.Kind)).
		Logger()

	// submit_score
	res := Result{Reached: StepSubmitScore}
	if p.scores == nil {
		res.Err = ErrNoScoreSink
		logger.Error().Err(res.Err).Msg("submit score")
		return res
	}
	data, err := out.TelemetryJSON()
	if err != nil {
		res.Err = err
		logger.Error().Err(err).Msg("submit score")
		return res
	}
	scoreID, err := p.scores.SubmitScore(ctx, Score{
		AssessmentID: out.AssessmentID,
		CandidateID:  c.CandidateID,
		Score:        out.Score,
		Feedback:     out.Feedback,
		GameData:     data,
	})
	if err != nil {
		res.Err = fmt.Errorf("submit score: %w", err)
		logger.Error().Err(err).Msg("submit score")
		return res
	}
	res.ScoreID = scoreID
	logger = logger.With().Int64("score", scoreID).Logger()
	logger.Info().Int("value", out.Score).Msg("score recorded")

	// mark_completed
	res.Reached = StepMarkCompleted
	if p.assessments != nil {
		if err := p.assessments.MarkCompleted(ctx, out.AssessmentID); err != nil {
			res.StatusErr = err
			logger.Warn().Err(err).Msg("mark assessment completed")
		}
	}

	// create_report
	res.Reached = StepCreateReport
	if p.reports != nil {
		id, err := p.report(ctx, c, scoreID)
		if err != nil {
			res.ReportErr = err
			logger.Warn().Err(err).Msg("create report")
		} else {
			res.ReportID = id
		}
	}

	res.Reached = StepDone
	return res
}

func (p *Pipeline) report(ctx context.Context, c Completion, scoreID int64) (int64, error) {
	out := c.Outcome
	if p.assessments == nil {
		return 0, errors.New("no assessment lookup to route the report")
	}
	a, err := p.assessments.LookupAssessment(ctx, out.AssessmentID)
	if err != nil {
		return 0, fmt.Errorf("lookup assessment: %w", err)
	}
	cand := Candidate{ID: c.CandidateID}
	if p.candidates != nil {
		if cand, err = p.candidates.LookupCandidate(ctx, c.CandidateID); err != nil {
			return 0, fmt.Errorf("lookup candidate: %w", err)
		}
	}
	return p.reports.SubmitReport(ctx, Report{
		RecipientID:    a.HRID,
		ScoreID:        scoreID,
		CandidateName:  cand.Name,
		CandidateEmail: cand.Email,
		Score:          out.Score,
		SkillType:      out.Kind.SkillType(),
		ReportText:     WithHeader(out.Report, cand, p.clock.Now()),
	})
}

// WithHeader inserts the candidate lines after the report's title line.
func WithHeader(report string, c Candidate, date time.Time) string {
	header := fmt.Sprintf("Candidate: %s\nEmail: %s\nAssessment Date: %s\n",
		c.Name, c.Email, date.Format("2006-01-02"))
	title, rest, found := strings.Cut(report, "\n")
	if !found {
		return title + "\n" + header
	}
	return title + "\n" + header + rest
}

// Dispatch runs c in the background under a bounded context. done, if not
// nil, receives the result on the pipeline goroutine.
func (p *Pipeline) Dispatch(c Completion, done func(Result)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		res := p.Run(ctx, c)
		if done != nil {
			done(res)
		}
	}()
}
