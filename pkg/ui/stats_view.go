package ui

import (
	"fmt"
	"strings"

	"github.com/smirnovd/tg-couple-bot/pkg/milestone"
)

const dateLayout = "02.01.2006"

const progressCells = 10

func progressBar(progress float64) string {
	filled := int(progress * progressCells)
	if filled < 0 {
		filled = 0
	}
	if filled > progressCells {
		filled = progressCells
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", progressCells-filled)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// RenderStats formats the anniversary screen for a pair with a start date.
func RenderStats(s milestone.Stats) string {
	if s.Future {
		return fmt.Sprintf(
			"❤️ Your story starts on %s.\n%d %s to go!",
			s.StartDate.Format(dateLayout),
			s.DaysUntilNext, plural(s.DaysUntilNext, "day", "days"),
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "❤️ Together since %s\n\n", s.StartDate.Format(dateLayout))
	fmt.Fprintf(&b, "That is %d %s", s.DaysTogether, plural(s.DaysTogether, "day", "days"))
	if s.Years > 0 || s.Months > 0 {
		b.WriteString(" (")
		if s.Years > 0 {
			fmt.Fprintf(&b, "%d %s", s.Years, plural(s.Years, "year", "years"))
			if s.Months > 0 {
				b.WriteString(" ")
			}
		}
		if s.Months > 0 {
			fmt.Fprintf(&b, "%d %s", s.Months, plural(s.Months, "month", "months"))
		}
		b.WriteString(")")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Next anniversary: %s\n", s.NextAnniversary.Format(dateLayout))
	fmt.Fprintf(&b, "%s %d%%\n", progressBar(s.Progress), int(s.Progress*100))
	fmt.Fprintf(&b, "%d %s left\n", s.DaysUntilNext, plural(s.DaysUntilNext, "day", "days"))

	if s.NextMilestoneDays > 0 {
		fmt.Fprintf(&b, "\n✨ %d days together on %s (in %d %s)\n",
			s.NextMilestoneDays, s.NextMilestoneDate.Format(dateLayout),
			s.DaysToMilestone, plural(s.DaysToMilestone, "day", "days"))
	}

	fmt.Fprintf(&b, "\n🎉 %d-year anniversary on %s (in %d %s)",
		s.NextBigYear, s.NextBigDate.Format(dateLayout),
		s.DaysToBig, plural(s.DaysToBig, "day", "days"))

	return b.String()
}
