package codeguess

// View is the presentation-facing snapshot of a game. The secret is only
// revealed once the game has ended.
type View struct {
	Phase        Phase   `json:"phase"`
	Slots        []*int  `json:"slots"`
	UsedDigits   []int   `json:"usedDigits"`
	CanSubmit    bool    `json:"canSubmit"`
	History      []Guess `json:"history"`
	Attempt      int     `json:"attempt"`
	AttemptsLeft int     `json:"attemptsLeft"`
	Score        int     `json:"score"`
	Secret       []int   `json:"secret,omitempty"`
}

// View builds the snapshot.
func (g *Game) View() View {
	slots := make([]*int, CodeLength)
	for i, d := range g.current {
		slots[i] = &d
	}
	v := View{
		Phase:        g.phase,
		Slots:        slots,
		UsedDigits:   g.Current(),
		CanSubmit:    g.CanSubmit(),
		History:      g.History(),
		Attempt:      g.attempt,
		AttemptsLeft: MaxAttempts - g.attempt,
		Score:        g.score,
	}
	if g.phase == PhaseWon || g.phase == PhaseLost {
		v.Secret = g.Secret()
		v.AttemptsLeft = 0
	}
	return v
}
