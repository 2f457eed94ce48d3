package cardmatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
)

func (g *Game) feedback() string {
	acc := g.Accuracy()
	var b strings.Builder
	fmt.Fprintf(&b, "Overall Performance: %d%% - ", g.score)
	b.WriteString(game.Pick(float64(g.score),
		game.Band{Min: 85, Text: "Outstanding memory and focus abilities! "},
		game.Band{Min: 70, Text: "Good memory and concentration skills with room for improvement. "},
		game.Band{Min: game.Otherwise, Text: "Developing memory and focus skills - practice will help improve performance. "},
	))

	b.WriteString("\n\nDetailed Analysis:\n")
	fmt.Fprintf(&b, "Accuracy: %d%% - ", acc)
	b.WriteString(game.Pick(float64(acc),
		game.Band{Min: 80, Text: "Excellent precision in matching pairs. "},
		game.Band{Min: game.Otherwise, Text: "Focus on careful observation to improve accuracy. "},
	))

	fmt.Fprintf(&b, "\nCompletion Time: %s - ", game.FormatClock(g.finalTime))
	switch {
	case g.finalTime <= 180:
		b.WriteString("Great speed and efficiency! ")
	case g.finalTime <= 300:
		b.WriteString("Good completion time. ")
	default:
		b.WriteString("Take time to observe patterns for better efficiency. ")
	}

	fmt.Fprintf(&b, "\nAttempts: %d - ", g.attempts)
	if g.attempts <= 12 {
		b.WriteString("Efficient matching with minimal attempts. ")
	} else {
		b.WriteString("Consider developing memory strategies to reduce attempts. ")
	}
	return b.String()
}

func (g *Game) report() string {
	m := g.metrics
	acc := g.Accuracy()
	var b strings.Builder
	b.WriteString("MEMORY & FOCUS ASSESSMENT REPORT\n")
	fmt.Fprintf(&b, "Skill Assessed: %s\n\n", game.KindCardMatch.SkillType())

	b.WriteString("PERFORMANCE SUMMARY:\n")
	fmt.Fprintf(&b, "Final Score: %d%%\n", g.score)
	fmt.Fprintf(&b, "Completion Status: %s\n", yesNo(g.phase == PhaseComplete, "Successfully completed", "Incomplete"))
	fmt.Fprintf(&b, "Matches Found: %d of %d\n", g.matches, TotalPairs)
	fmt.Fprintf(&b, "Accuracy: %d%%\n", acc)
	fmt.Fprintf(&b, "Total Attempts: %d\n", g.attempts)
	fmt.Fprintf(&b, "Time Taken: %s\n", game.FormatClock(g.finalTime))
	fmt.Fprintf(&b, "Average Response Time: %s seconds per attempt\n\n", g.avgResponseTime())

	b.WriteString("DETAILED COGNITIVE ANALYSIS:\n")
	fmt.Fprintf(&b, "Concentration Level: %d%%\n", game.Round(m.ConcentrationLevel))
	b.WriteString(game.Pick(m.ConcentrationLevel,
		game.Band{Min: 80, Text: "- Excellent sustained attention and focus\n- Demonstrates strong ability to maintain concentration under pressure\n"},
		game.Band{Min: 60, Text: "- Good concentration abilities with occasional lapses\n- Shows potential for maintaining focus in work environments\n"},
		game.Band{Min: game.Otherwise, Text: "- Concentration skills need development\n- Would benefit from attention training and focus exercises\n"},
	))

	fmt.Fprintf(&b, "\nMemory Retention: %d%%\n", game.Round(m.MemoryRetention))
	b.WriteString(game.Pick(m.MemoryRetention,
		game.Band{Min: 80, Text: "- Outstanding short-term memory capabilities\n- Excellent ability to retain and recall visual information\n"},
		game.Band{Min: 60, Text: "- Good memory retention with room for improvement\n- Shows adequate recall abilities for most tasks\n"},
		game.Band{Min: game.Otherwise, Text: "- Memory retention needs strengthening\n- Would benefit from memory enhancement techniques\n"},
	))

	fmt.Fprintf(&b, "\nVisual Processing: %d%%\n", game.Round(m.VisualProcessing))
	b.WriteString(game.Pick(m.VisualProcessing,
		game.Band{Min: 80, Text: "- Excellent visual pattern recognition\n- Strong ability to quickly process visual information\n"},
		game.Band{Min: 60, Text: "- Good visual processing abilities\n- Adequate speed in recognizing visual patterns\n"},
		game.Band{Min: game.Otherwise, Text: "- Visual processing speed could be improved\n- May need more time for visual information processing\n"},
	))

	fmt.Fprintf(&b, "\nTask Persistence: %d%%\n", game.Round(m.TaskPersistence))
	b.WriteString(game.Pick(m.TaskPersistence,
		game.Band{Min: 80, Text: "- Excellent determination and task completion drive\n- Shows strong resilience when facing challenges\n"},
		game.Band{Min: game.Otherwise, Text: "- Shows good effort in task completion\n- Can maintain engagement despite difficulties\n"},
	))

	b.WriteString("\nWORKPLACE SUITABILITY:\n")
	b.WriteString(game.Pick(float64(g.score),
		game.Band{Min: 85, Text: "HIGHLY RECOMMENDED - Excellent memory and focus abilities suitable for detail-oriented and high-concentration roles.\n" +
			"Ideal for: Data analysis, quality control, research, design, and complex problem-solving positions.\n"},
		game.Band{Min: 70, Text: "RECOMMENDED - Good cognitive abilities with strong potential for focused work.\n" +
			"Suitable for: Administrative roles, customer service, project coordination, and collaborative tasks.\n"},
		game.Band{Min: 55, Text: "CONDITIONAL - Basic memory and focus skills present, may need supportive work environment.\n" +
			"Best for: Structured roles with clear guidelines and regular check-ins.\n"},
		game.Band{Min: game.Otherwise, Text: "NEEDS DEVELOPMENT - Significant improvement needed in memory and concentration skills.\n" +
			"Recommend: Training programs focused on attention and memory enhancement.\n"},
	))

	b.WriteString("\nDETAILED PERFORMANCE DATA:\n")
	fmt.Fprintf(&b, "Game Completion: %s\n", yesNo(g.phase == PhaseComplete, "Yes", "No"))
	fmt.Fprintf(&b, "Efficiency Ratio: %d%% (matches/attempts)\n", acc)
	speed := "Slow"
	switch {
	case g.finalTime <= 180:
		speed = "Fast"
	case g.finalTime <= 300:
		speed = "Average"
	}
	fmt.Fprintf(&b, "Speed Factor: %s\n", speed)
	if g.attempts > 0 {
		avg := g.avgResponseTime()
		secs, _ := strconv.ParseFloat(avg, 64)
		label := "Deliberate"
		switch {
		case secs < 5:
			label = "Quick"
		case secs < 10:
			label = "Moderate"
		}
		fmt.Fprintf(&b, "Decision Speed: %s (%ss per decision)\n", label, avg)
	}
	return b.String()
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
