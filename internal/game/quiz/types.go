// apps/go-server/internal/game/quiz/types.go
//
// Type definitions for the scenario-quiz engine.
// Defines:
//   - Category: the competency a question is scored against.
//   - Question: one multiple-choice workplace scenario.
//   - Phase: answering → complete.
//   - Metrics: critical-thinking signals, normalised on completion.
//   - Telemetry: raw answer data attached to the outcome.

package quiz

import "fmt"

// Category tags a question with the competency it measures.
type Category string

const (
	ProblemSolving Category = "problemSolving"
	Teamwork       Category = "teamwork"
	Communication  Category = "communication"
)

// Categories lists every category in report order.
var Categories = []Category{ProblemSolving, Teamwork, Communication}

// ParseCategory validates a category name from a question bank.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Label is the human-readable category name.
func (c Category) Label() string {
	switch c {
	case ProblemSolving:
		return "Problem Solving"
	case Teamwork:
		return "Teamwork"
	case Communication:
		return "Communication"
	}
	return string(c)
}

// Question is one scenario with its options. Correct indexes Options.
type Question struct {
	ID       int      `yaml:"id" json:"id"`
	Scenario string   `yaml:"scenario" json:"scenario"`
	Prompt   string   `yaml:"question" json:"question"`
	Options  []string `yaml:"options" json:"options"`
	Correct  int      `yaml:"correct" json:"-"`
	Category Category `yaml:"category" json:"category"`
}

// Phase is the coarse state of the engine.
type Phase string

const (
	PhaseAnswering Phase = "answering"
	PhaseComplete  Phase = "complete"
)

// Metrics accumulates critical-thinking signals.
type Metrics struct {
	AnalyticalReasoning        float64 `json:"analyticalReasoning"`
	InterpersonalSkills        float64 `json:"interpersonalSkills"`
	CommunicationEffectiveness float64 `json:"communicationEffectiveness"`
	DecisionMakingSpeed        float64 `json:"decisionMakingSpeed"`
	ConsistencyIndex           float64 `json:"consistencyIndex"`
}

// field returns the accumulator a category credits.
func (m *Metrics) field(c Category) *float64 {
	switch c {
	case ProblemSolving:
		return &m.AnalyticalReasoning
	case Teamwork:
		return &m.InterpersonalSkills
	default:
		return &m.CommunicationEffectiveness
	}
}

// Telemetry is the game data submitted alongside the score.
type Telemetry struct {
	CorrectAnswers         int              `json:"correctAnswers"`
	TotalQuestions         int              `json:"totalQuestions"`
	TimeSpent              string           `json:"timeSpent"`
	Categories             map[Category]int `json:"categories"`
	Answers                []*int           `json:"answers"`
	Metrics                Metrics          `json:"criticalThinkingMetrics"`
	AverageTimePerQuestion string           `json:"averageTimePerQuestion"`
}
