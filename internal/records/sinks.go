package records

import (
	"context"

	"github.com/robalobadob/softskill/apps/go-server/internal/pipeline"
)

var (
	_ pipeline.ScoreSink   = (*Store)(nil)
	_ pipeline.Assessments = (*Store)(nil)
	_ pipeline.Candidates  = (*Store)(nil)
	_ pipeline.ReportSink  = (*Store)(nil)
)

// SubmitScore stores a pipeline score.
func (s *Store) SubmitScore(ctx context.Context, sc pipeline.Score) (int64, error) {
	return s.InsertScore(ctx, Score{
		AssessmentID: sc.AssessmentID,
		CandidateID:  sc.CandidateID,
		Score:        sc.Score,
		Feedback:     sc.Feedback,
		GameData:     sc.GameData,
	})
}

// LookupAssessment resolves the recruiter an assessment reports to.
func (s *Store) LookupAssessment(ctx context.Context, id int64) (pipeline.Assessment, error) {
	a, err := s.AssessmentByID(ctx, id)
	if err != nil {
		return pipeline.Assessment{}, err
	}
	return pipeline.Assessment{ID: a.ID, HRID: a.HRID, CandidateID: a.CandidateID}, nil
}

// MarkCompleted flips an assessment to COMPLETED.
func (s *Store) MarkCompleted(ctx context.Context, id int64) error {
	return s.SetAssessmentStatus(ctx, id, StatusCompleted)
}

// LookupCandidate resolves a candidate's name and email.
func (s *Store) LookupCandidate(ctx context.Context, id int64) (pipeline.Candidate, error) {
	u, err := s.UserByID(ctx, id)
	if err != nil {
		return pipeline.Candidate{}, err
	}
	return pipeline.Candidate{ID: u.ID, Name: u.FullName(), Email: u.Email}, nil
}

// SubmitReport stores a pipeline report.
func (s *Store) SubmitReport(ctx context.Context, r pipeline.Report) (int64, error) {
	return s.InsertReport(ctx, Report{
		UserID:    r.RecipientID,
		ScoreID:   r.ScoreID,
		FullName:  r.CandidateName,
		Email:     r.CandidateEmail,
		Score:     r.Score,
		SkillType: r.SkillType,
		Feedback:  r.ReportText,
	})
}
