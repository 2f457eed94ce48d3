package cardmatch

// CardView is a card as the player may see it: the symbol is hidden while
// the card is face down.
type CardView struct {
	ID      int    `json:"id"`
	Symbol  string `json:"symbol,omitempty"`
	Flipped bool   `json:"flipped"`
	Matched bool   `json:"matched"`
}

// View is the presentation-facing snapshot of a game.
type View struct {
	Phase    Phase      `json:"phase"`
	Cards    []CardView `json:"cards"`
	Matches  int        `json:"matches"`
	Pairs    int        `json:"pairs"`
	Attempts int        `json:"attempts"`
	Accuracy int        `json:"accuracy"`
	Elapsed  int        `json:"elapsed"`
	Score    int        `json:"score"`
}

// View builds the snapshot.
func (g *Game) View() View {
	cards := make([]CardView, len(g.cards))
	for i, c := range g.cards {
		cards[i] = CardView{ID: c.ID, Flipped: c.Flipped, Matched: c.Matched}
		if c.Flipped || c.Matched {
			cards[i].Symbol = c.Symbol
		}
	}
	elapsed := g.elapsed
	if g.phase == PhaseComplete {
		elapsed = g.finalTime
	}
	return View{
		Phase:    g.phase,
		Cards:    cards,
		Matches:  g.matches,
		Pairs:    TotalPairs,
		Attempts: g.attempts,
		Accuracy: g.Accuracy(),
		Elapsed:  elapsed,
		Score:    g.score,
	}
}
