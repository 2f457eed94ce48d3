// apps/go-server/internal/records/store.go
//
// Typed access to users, assessments, scores and reports.
//
// Notes:
//   - Emails are stored lowercased; lookups are case-insensitive.
//   - Inserts use RETURNING id, supported by both SQLite and Postgres.
//   - Missing rows surface as ErrNotFound.

package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email taken")
)

// Role is a user's role.
type Role string

const (
	RoleRecruiter Role = "RECRUITER"
	RoleCandidate Role = "CANDIDATE"
)

// Status is an assessment's lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusExpired   Status = "EXPIRED"
)

// User matches the users table shape.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FullName is "First Last".
func (u User) FullName() string { return strings.TrimSpace(u.FirstName + " " + u.LastName) }

// Assessment is one game assigned by a recruiter to a candidate.
type Assessment struct {
	ID          int64      `json:"id"`
	HRID        int64      `json:"hrId"`
	CandidateID int64      `json:"candidateId"`
	Game        game.Kind  `json:"game"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Score is a recorded game outcome.
type Score struct {
	ID           int64     `json:"scoreId"`
	AssessmentID int64     `json:"assessmentId"`
	CandidateID  int64     `json:"candidateId"`
	Score        int       `json:"score"`
	Feedback     string    `json:"feedback"`
	GameData     string    `json:"gameData"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Report is a recruiter-facing assessment report.
type Report struct {
	ID        int64     `json:"reportId"`
	UserID    int64     `json:"userId"`
	ScoreID   int64     `json:"scoreId"`
	FullName  string    `json:"fullname"`
	Email     string    `json:"email"`
	Score     int       `json:"score"`
	SkillType string    `json:"skillType"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store reads and writes records.
type Store struct {
	db *DB
}

// NewStore wraps an open, migrated database.
func NewStore(db *DB) *Store { return &Store{db: db} }

func (s *Store) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.db.Rebind(q), args...)
}

func (s *Store) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.db.Rebind(q), args...)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ------------------------------- users -------------------------------------

// CreateUser inserts u; the email must be unused.
func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	var exists int
	err := s.queryRow(ctx, `SELECT 1 FROM users WHERE email=?`, u.Email).Scan(&exists)
	if err == nil {
		return User{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}
	u.CreatedAt = time.Now().UTC().Truncate(time.Second)
	err = s.queryRow(ctx, `INSERT INTO users (email, first_name, last_name, role, password_hash, created_at)
	                       VALUES (?,?,?,?,?,?) RETURNING id`,
		u.Email, u.FirstName, u.LastName, string(u.Role), u.PasswordHash, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

const userCols = `id, email, first_name, last_name, role, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &role, &u.PasswordHash, &u.CreatedAt); err != nil {
		return User{}, notFound(err)
	}
	u.Role = Role(role)
	return u, nil
}

// UserByEmail loads a user by email (case-insensitive).
func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(s.queryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=?`,
		strings.ToLower(strings.TrimSpace(email))))
}

// UserByID loads a user by id.
func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(s.queryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=?`, id))
}

// ---------------------------- assessments ----------------------------------

// CreateAssessment inserts a PENDING assessment.
func (s *Store) CreateAssessment(ctx context.Context, a Assessment) (Assessment, error) {
	now := time.Now().UTC().Truncate(time.Second)
	a.Status = StatusPending
	a.CreatedAt, a.UpdatedAt = now, now
	var due any
	if a.DueDate != nil {
		due = a.DueDate.UTC()
	}
	err := s.queryRow(ctx, `INSERT INTO assessments (hr_id, candidate_id, game, status, due_date, created_at, updated_at)
	                        VALUES (?,?,?,?,?,?,?) RETURNING id`,
		a.HRID, a.CandidateID, string(a.Game), string(a.Status), due, now, now).Scan(&a.ID)
	if err != nil {
		return Assessment{}, fmt.Errorf("insert assessment: %w", err)
	}
	return a, nil
}

const assessmentCols = `id, hr_id, candidate_id, game, status, due_date, created_at, updated_at`

func scanAssessment(row interface{ Scan(...any) error }) (Assessment, error) {
	var a Assessment
	var kind, status string
	var due sql.NullTime
	if err := row.Scan(&a.ID, &a.HRID, &a.CandidateID, &kind, &status, &due, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Assessment{}, notFound(err)
	}
	a.Game, a.Status = game.Kind(kind), Status(status)
	if due.Valid {
		t := due.Time
		a.DueDate = &t
	}
	return a, nil
}

// AssessmentByID loads one assessment.
func (s *Store) AssessmentByID(ctx context.Context, id int64) (Assessment, error) {
	return scanAssessment(s.queryRow(ctx, `SELECT `+assessmentCols+` FROM assessments WHERE id=?`, id))
}

// AssessmentsForCandidate lists a candidate's assessments, newest first.
func (s *Store) AssessmentsForCandidate(ctx context.Context, candidateID int64) ([]Assessment, error) {
	return s.listAssessments(ctx, `candidate_id=?`, candidateID)
}

// AssessmentsForRecruiter lists the assessments a recruiter created, newest first.
func (s *Store) AssessmentsForRecruiter(ctx context.Context, hrID int64) ([]Assessment, error) {
	return s.listAssessments(ctx, `hr_id=?`, hrID)
}

func (s *Store) listAssessments(ctx context.Context, where string, arg any) ([]Assessment, error) {
	rows, err := s.query(ctx, `SELECT `+assessmentCols+` FROM assessments WHERE `+where+` ORDER BY id DESC LIMIT 100`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetAssessmentStatus updates status and updated_at.
func (s *Store) SetAssessmentStatus(ctx context.Context, id int64, st Status) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE assessments SET status=?, updated_at=? WHERE id=?`),
		string(st), time.Now().UTC().Truncate(time.Second), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------------- scores ------------------------------------

// InsertScore records a score and returns its id.
func (s *Store) InsertScore(ctx context.Context, sc Score) (int64, error) {
	var id int64
	err := s.queryRow(ctx, `INSERT INTO scores (assessment_id, candidate_id, score, feedback, game_data, completed_at)
	                        VALUES (?,?,?,?,?,?) RETURNING id`,
		sc.AssessmentID, sc.CandidateID, sc.Score, sc.Feedback, sc.GameData, time.Now().UTC().Truncate(time.Second)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert score: %w", err)
	}
	return id, nil
}

// ScoresForCandidate lists a candidate's scores, newest first.
func (s *Store) ScoresForCandidate(ctx context.Context, candidateID int64) ([]Score, error) {
	rows, err := s.query(ctx, `SELECT id, assessment_id, candidate_id, score, feedback, game_data, completed_at
	                           FROM scores WHERE candidate_id=? ORDER BY id DESC LIMIT 100`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Score{}
	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.ID, &sc.AssessmentID, &sc.CandidateID, &sc.Score, &sc.Feedback, &sc.GameData, &sc.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ------------------------------- reports -----------------------------------

// InsertReport records a report and returns its id.
func (s *Store) InsertReport(ctx context.Context, r Report) (int64, error) {
	var id int64
	err := s.queryRow(ctx, `INSERT INTO reports (user_id, score_id, fullname, email, score, skill_type, feedback, created_at)
	                        VALUES (?,?,?,?,?,?,?,?) RETURNING id`,
		r.UserID, r.ScoreID, r.FullName, r.Email, r.Score, r.SkillType, r.Feedback, time.Now().UTC().Truncate(time.Second)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	return id, nil
}

// ReportsForUser lists the reports addressed to a recruiter, newest first.
func (s *Store) ReportsForUser(ctx context.Context, userID int64) ([]Report, error) {
	rows, err := s.query(ctx, `SELECT id, user_id, score_id, fullname, email, score, skill_type, feedback, created_at
	                           FROM reports WHERE user_id=? ORDER BY id DESC LIMIT 100`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Report{}
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.UserID, &r.ScoreID, &r.FullName, &r.Email, &r.Score, &r.SkillType, &r.Feedback, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
