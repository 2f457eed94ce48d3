package quiz

import (
	"fmt"
	"strings"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
)

var categoryFeedback = map[Category][2]string{
	ProblemSolving: {"Strong analytical skills. ", "Focus on structured problem-solving approaches. "},
	Teamwork:       {"Excellent collaboration mindset. ", "Develop team collaboration strategies. "},
	Communication:  {"Great communication approach. ", "Work on clear, timely communication. "},
}

var categoryTiers = map[Category][3]string{
	ProblemSolving: {
		"- Excellent analytical and logical reasoning abilities\n- Strong capacity for systematic problem analysis\n",
		"- Good problem-solving skills with room for development\n- Shows potential for analytical thinking\n",
		"- Needs development in structured problem-solving approaches\n- Would benefit from analytical thinking training\n",
	},
	Teamwork: {
		"- Outstanding collaboration and interpersonal skills\n- Excellent understanding of team dynamics\n",
		"- Good team collaboration abilities\n- Shows understanding of team-based solutions\n",
		"- Needs development in team collaboration strategies\n- Would benefit from teamwork and leadership training\n",
	},
	Communication: {
		"- Excellent communication and stakeholder management skills\n- Strong understanding of effective communication strategies\n",
		"- Good communication awareness\n- Shows understanding of appropriate communication approaches\n",
		"- Needs development in communication effectiveness\n- Would benefit from communication skills training\n",
	},
}

func (g *Game) feedback() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall Performance: %d%% - ", g.score)
	b.WriteString(game.Pick(float64(g.score),
		game.Band{Min: 80, Text: "Excellent critical thinking skills demonstrated! "},
		game.Band{Min: 60, Text: "Good critical thinking abilities with room for growth. "},
		game.Band{Min: game.Otherwise, Text: "Developing critical thinking skills - consider additional training. "},
	))

	b.WriteString("\n\nCategory Breakdown:")
	for _, c := range g.presentCategories() {
		pct := g.categoryPct[c]
		text := categoryFeedback[c][1]
		if pct >= 75 {
			text = categoryFeedback[c][0]
		}
		fmt.Fprintf(&b, "\n%s: %d%% - %s", c.Label(), pct, text)
	}
	return b.String()
}

func (g *Game) report() string {
	m := g.metrics
	var b strings.Builder
	b.WriteString("CRITICAL THINKING ASSESSMENT REPORT\n")
	fmt.Fprintf(&b, "Skill Assessed: %s\n\n", game.KindQuiz.SkillType())

	b.WriteString("PERFORMANCE SUMMARY:\n")
	fmt.Fprintf(&b, "Final Score: %d%%\n", g.score)
	fmt.Fprintf(&b, "Correct Answers: %d of %d\n", g.correct, len(g.questions))
	fmt.Fprintf(&b, "Total Time: %s\n", game.FormatClock(g.timeSpent))
	fmt.Fprintf(&b, "Average Time per Question: %s seconds\n\n", g.averageTime())

	b.WriteString("CATEGORY PERFORMANCE:\n")
	for i, c := range g.presentCategories() {
		if i > 0 {
			b.WriteString("\n")
		}
		pct := g.categoryPct[c]
		fmt.Fprintf(&b, "%s: %d%%\n", c.Label(), pct)
		t := categoryTiers[c]
		b.WriteString(game.Pick(float64(pct),
			game.Band{Min: 80, Text: t[0]},
			game.Band{Min: 60, Text: t[1]},
			game.Band{Min: game.Otherwise, Text: t[2]},
		))
	}

	b.WriteString("\nADVANCED ANALYSIS:\n")
	fmt.Fprintf(&b, "Analytical Reasoning: %d%%\n", game.Round(m.AnalyticalReasoning))
	fmt.Fprintf(&b, "Interpersonal Skills: %d%%\n", game.Round(m.InterpersonalSkills))
	fmt.Fprintf(&b, "Communication Effectiveness: %d%%\n", game.Round(m.CommunicationEffectiveness))
	fmt.Fprintf(&b, "Decision Making Speed: %d%%\n", game.Round(m.DecisionMakingSpeed))
	fmt.Fprintf(&b, "Consistency Index: %d%%\n\n", game.Round(m.ConsistencyIndex))

	b.WriteString("WORKPLACE SUITABILITY:\n")
	b.WriteString(game.Pick(float64(g.score),
		game.Band{Min: 80, Text: "HIGHLY RECOMMENDED - Excellent critical thinking abilities suitable for leadership and strategic roles.\n" +
			"Ideal for: Management positions, strategic planning, complex project leadership, consulting roles.\n"},
		game.Band{Min: 65, Text: "RECOMMENDED - Good critical thinking skills with strong potential for growth.\n" +
			"Suitable for: Team lead positions, project coordination, analytical roles, client-facing positions.\n"},
		game.Band{Min: 50, Text: "CONDITIONAL - Basic critical thinking skills present, would benefit from structured development.\n" +
			"Best for: Individual contributor roles with mentorship and training support.\n"},
		game.Band{Min: game.Otherwise, Text: "NEEDS DEVELOPMENT - Significant improvement needed in critical thinking and decision-making skills.\n" +
			"Recommend: Comprehensive training in analytical thinking, communication, and teamwork.\n"},
	))

	strengths, develop := g.strengths()
	b.WriteString("\nSTRENGTHS & DEVELOPMENT AREAS:\n")
	fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(strengths, ", "))
	fmt.Fprintf(&b, "Development Areas: %s\n\n", strings.Join(develop, ", "))

	b.WriteString("DETAILED RESPONSES:\n")
	for i, q := range g.questions {
		a := g.answers[i]
		ok := a != nil && *a == q.Correct
		verdict := "Incorrect"
		if ok {
			verdict = "Correct"
		}
		fmt.Fprintf(&b, "Q%d (%s): %s\n", i+1, q.Category, verdict)
		if a != nil {
			fmt.Fprintf(&b, "Selected: Option %d - \"%s\"\n", *a+1, q.Options[*a])
		} else {
			b.WriteString("Selected: none\n")
		}
		if !ok {
			fmt.Fprintf(&b, "Correct Answer: Option %d - \"%s\"\n", q.Correct+1, q.Options[q.Correct])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (g *Game) strengths() (strengths, develop []string) {
	add := func(ok bool, strength, area string) {
		if ok {
			strengths = append(strengths, strength)
		} else {
			develop = append(develop, area)
		}
	}
	add(g.categoryPct[ProblemSolving] >= 70, "Analytical problem-solving", "Structured problem analysis")
	add(g.categoryPct[Teamwork] >= 70, "Team collaboration", "Interpersonal team skills")
	add(g.categoryPct[Communication] >= 70, "Communication effectiveness", "Stakeholder communication")
	add(g.metrics.DecisionMakingSpeed >= 75, "Efficient decision-making", "Decision-making efficiency")
	add(g.metrics.ConsistencyIndex >= 75, "Consistent performance", "Performance consistency")
	return strengths, develop
}

// presentCategories lists, in report order, the categories that have questions.
func (g *Game) presentCategories() []Category {
	var out []Category
	for _, c := range Categories {
		if _, ok := g.categoryPct[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
