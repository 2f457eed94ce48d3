package codeguess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
)

// feedback is the candidate-facing summary.
func (g *Game) feedback() string {
	m := g.metrics
	var b strings.Builder
	fmt.Fprintf(&b, "Code Breaker Assessment - Problem Solving Score: %d%%\n\n", g.score)

	if g.phase == PhaseWon {
		fmt.Fprintf(&b, "Excellent! You cracked the code in %d attempt%s.\n\n", g.attempt+1, plural(g.attempt+1))
	} else {
		b.WriteString("The code was not cracked, but you demonstrated persistence and logical thinking.\n\n")
	}

	b.WriteString("Problem-Solving Analysis:\n")
	bullet(&b, "Strategic Thinking", m.StrategicThinking,
		"Strong systematic approach to problem-solving.",
		"Consider developing more structured problem-solving strategies.")
	bullet(&b, "Logical Reasoning", m.LogicalReasoning,
		"Excellent use of feedback to refine approach.",
		"Focus on better utilizing available information.")
	bullet(&b, "Persistence", m.Persistence,
		"Great determination and resilience.",
		"Continue building perseverance in challenging situations.")

	fmt.Fprintf(&b, "\nTime taken: %s\n", game.FormatClock(m.TimeSpent))
	fmt.Fprintf(&b, "The secret code was: %s", joinDigits(g.secret))
	return b.String()
}

func bullet(b *strings.Builder, name string, v float64, strong, weak string) {
	fmt.Fprintf(b, "• %s: %d%% - %s\n", name, game.Round(v), game.Pick(v,
		game.Band{Min: 70, Text: strong},
		game.Band{Min: game.Otherwise, Text: weak},
	))
}

// report is the recruiter-facing analysis.
func (g *Game) report() string {
	m := g.metrics
	var b strings.Builder
	b.WriteString("CODE BREAKER ASSESSMENT REPORT\n")
	fmt.Fprintf(&b, "Skill Assessed: %s\n\n", game.KindCodeGuess.SkillType())

	b.WriteString("PERFORMANCE SUMMARY:\n")
	fmt.Fprintf(&b, "Final Score: %d%%\n", g.score)
	if g.phase == PhaseWon {
		fmt.Fprintf(&b, "Outcome: Code cracked in %d attempt%s\n", g.attempt+1, plural(g.attempt+1))
	} else {
		b.WriteString("Outcome: Code not cracked\n")
	}
	fmt.Fprintf(&b, "Attempts Used: %d of %d\n", len(g.history), MaxAttempts)
	fmt.Fprintf(&b, "Time Taken: %s\n", game.FormatClock(m.TimeSpent))
	fmt.Fprintf(&b, "Secret Code: %s\n\n", joinDigits(g.secret))

	b.WriteString("PROBLEM-SOLVING ANALYSIS:\n")
	tier(&b, "Strategic Thinking", m.StrategicThinking,
		"- Highly systematic search; each guess narrows the solution space\n",
		"- Reasonable structure with some redundant guesses\n",
		"- Guessing pattern suggests trial and error over a deliberate plan\n")
	tier(&b, "Logical Reasoning", m.LogicalReasoning,
		"- Consistently builds on confirmed information\n",
		"- Uses feedback, though not always to full effect\n",
		"- Often discards information already confirmed by feedback\n")
	tier(&b, "Persistence", m.Persistence,
		"- Sees the problem through to a resolution\n",
		"- Keeps working the problem under pressure\n",
		"- Limited follow-through when progress is slow\n")

	b.WriteString("\nHIRING RECOMMENDATION:\n")
	b.WriteString(game.Pick(float64(g.score),
		game.Band{Min: 80, Text: "HIGHLY RECOMMENDED - Strong analytical problem-solver suited to complex, ambiguous work.\n"},
		game.Band{Min: 60, Text: "RECOMMENDED - Solid problem-solving foundation with room to sharpen strategy.\n"},
		game.Band{Min: 40, Text: "CONDITIONAL - Basic problem-solving present; benefits from structured guidance.\n"},
		game.Band{Min: game.Otherwise, Text: "NEEDS DEVELOPMENT - Structured reasoning and use of feedback need significant work.\n"},
	))

	b.WriteString("\nGUESS HISTORY:\n")
	for i := len(g.history) - 1; i >= 0; i-- {
		h := g.history[i]
		c, mp, w := h.Tally()
		fmt.Fprintf(&b, "Attempt %d: %s - %d correct, %d misplaced, %d wrong\n",
			len(g.history)-i, joinDigits(h.Digits), c, mp, w)
	}
	return b.String()
}

func tier(b *strings.Builder, name string, v float64, high, mid, low string) {
	fmt.Fprintf(b, "%s: %d%%\n", name, game.Round(v))
	b.WriteString(game.Pick(v,
		game.Band{Min: 80, Text: high},
		game.Band{Min: 60, Text: mid},
		game.Band{Min: game.Otherwise, Text: low},
	))
}

func joinDigits(ds []int) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
