package play

import (
	"fmt"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
	"github.com/robalobadob/softskill/apps/go-server/internal/game/cardmatch"
	"github.com/robalobadob/softskill/apps/go-server/internal/game/codeguess"
	"github.com/robalobadob/softskill/apps/go-server/internal/game/quiz"
)

// Action types accepted by Apply.
const (
	ActSelectDigit  = "select_digit"
	ActRemoveDigit  = "remove_digit"
	ActSubmitGuess  = "submit_guess"
	ActFlip         = "flip"
	ActSelectAnswer = "select_answer"
	ActNext         = "next"
	ActPrevious     = "previous"
)

// Action is one player input. Only the field its type needs is read.
type Action struct {
	Type   string `json:"type"`
	Digit  *int   `json:"digit,omitempty"`
	Card   *int   `json:"card,omitempty"`
	Option *int   `json:"option,omitempty"`
}

// engine adapts one game package to the session.
type engine interface {
	apply(a Action) error
	view() any
	outcome() (game.Outcome, bool)
	close()
}

func (s *Session) build() (engine, error) {
	p := s.params
	sched := publishing{Scheduler: s.loop, s: s}
	switch p.Kind {
	case game.KindCodeGuess:
		opts := []codeguess.Option{codeguess.WithClock(sched), codeguess.OnComplete(s.complete)}
		if p.Random != nil {
			opts = append(opts, codeguess.WithRandom(p.Random))
		}
		g, err := codeguess.New(p.AssessmentID, opts...)
		if err != nil {
			return nil, err
		}
		return codeGuessEngine{g}, nil

	case game.KindCardMatch:
		opts := []cardmatch.Option{cardmatch.WithSymbols(p.Bank.Symbols), cardmatch.OnComplete(s.complete)}
		if p.Random != nil {
			opts = append(opts, cardmatch.WithRandom(p.Random))
		}
		if p.MatchDelay > 0 && p.MismatchDelay > 0 {
			opts = append(opts, cardmatch.WithDelays(p.MatchDelay, p.MismatchDelay))
		}
		g, err := cardmatch.New(p.AssessmentID, sched, opts...)
		if err != nil {
			return nil, err
		}
		return cardMatchEngine{g}, nil

	case game.KindQuiz:
		g, err := quiz.New(p.AssessmentID,
			quiz.WithQuestions(p.Bank.Questions),
			quiz.WithClock(sched),
			quiz.OnComplete(s.complete),
		)
		if err != nil {
			return nil, err
		}
		return quizEngine{g}, nil
	}
	return nil, fmt.Errorf("unsupported game %q", p.Kind)
}

// intArg extracts a required integer argument. A missing argument is treated
// like any other invalid input: the action does nothing.
func intArg(v *int, fn func(int)) {
	if v != nil {
		fn(*v)
	}
}

type codeGuessEngine struct{ g *codeguess.Game }

func (e codeGuessEngine) apply(a Action) error {
	switch a.Type {
	case ActSelectDigit:
		intArg(a.Digit, e.g.SelectDigit)
	case ActRemoveDigit:
		e.g.RemoveLastDigit()
	case ActSubmitGuess:
		e.g.SubmitGuess()
	default:
		return fmt.Errorf("%w %q for %s", ErrUnknownAction, a.Type, game.KindCodeGuess)
	}
	return nil
}

func (e codeGuessEngine) view() any                     { return e.g.View() }
func (e codeGuessEngine) outcome() (game.Outcome, bool) { return e.g.Outcome() }
func (e codeGuessEngine) close()                        { e.g.Close() }

type cardMatchEngine struct{ g *cardmatch.Game }

func (e cardMatchEngine) apply(a Action) error {
	if a.Type != ActFlip {
		return fmt.Errorf("%w %q for %s", ErrUnknownAction, a.Type, game.KindCardMatch)
	}
	intArg(a.Card, e.g.Flip)
	return nil
}

func (e cardMatchEngine) view() any                     { return e.g.View() }
func (e cardMatchEngine) outcome() (game.Outcome, bool) { return e.g.Outcome() }
func (e cardMatchEngine) close()                        { e.g.Close() }

type quizEngine struct{ g *quiz.Game }

func (e quizEngine) apply(a Action) error {
	switch a.Type {
	case ActSelectAnswer:
		intArg(a.Option, e.g.SelectAnswer)
	case ActNext:
		e.g.NextQuestion()
	case ActPrevious:
		e.g.PreviousQuestion()
	default:
		return fmt.Errorf("%w %q for %s", ErrUnknownAction, a.Type, game.KindQuiz)
	}
	return nil
}

func (e quizEngine) view() any                     { return e.g.View() }
func (e quizEngine) outcome() (game.Outcome, bool) { return e.g.Outcome() }
func (e quizEngine) close()                        { e.g.Close() }
