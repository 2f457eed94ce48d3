package quiz

// QuestionView is a question without its answer key.
type QuestionView struct {
	ID       int      `json:"id"`
	Scenario string   `json:"scenario"`
	Prompt   string   `json:"question"`
	Options  []string `json:"options"`
	Category Category `json:"category"`
}

// View is the presentation-facing snapshot of a game.
type View struct {
	Phase      Phase            `json:"phase"`
	Index      int              `json:"index"`
	Total      int              `json:"total"`
	Question   *QuestionView    `json:"question,omitempty"`
	Selected   *int             `json:"selected"`
	CanGoBack  bool             `json:"canGoBack"`
	CanAdvance bool             `json:"canAdvance"`
	Answered   int              `json:"answered"`
	Score      int              `json:"score"`
	Categories map[Category]int `json:"categories,omitempty"`
}

// View builds the snapshot.
func (g *Game) View() View {
	answered := 0
	for _, a := range g.answers {
		if a != nil {
			answered++
		}
	}
	v := View{
		Phase:      g.phase,
		Index:      g.index,
		Total:      len(g.questions),
		Selected:   copyAnswer(g.selected),
		Answered:   answered,
		Score:      g.score,
		Categories: g.CategoryPercentages(),
	}
	if g.phase == PhaseAnswering {
		q := g.questions[g.index]
		v.Question = &QuestionView{
			ID:       q.ID,
			Scenario: q.Scenario,
			Prompt:   q.Prompt,
			Options:  append([]string(nil), q.Options...),
			Category: q.Category,
		}
		v.CanGoBack = g.index > 0
		v.CanAdvance = g.selected != nil
	}
	return v
}
