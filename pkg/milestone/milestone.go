// Package milestone derives relationship facts from a start date and a
// reference date. Everything here is pure calendar arithmetic; storage and
// delivery live elsewhere.
package milestone

import "time"

// BeautifulDays are the day counts treated as notification-worthy.
var BeautifulDays = []int{
	100, 200, 300, 400, 500, 600, 700, 800, 900,
	1000, 1500, 2000, 2500, 3000,
}

// Stats is everything the stats screen and the webapp need to render a
// relationship summary.
type Stats struct {
	StartDate time.Time
	Future    bool

	DaysTogether int
	Years        int
	Months       int

	LastAnniversary time.Time
	NextAnniversary time.Time
	DaysUntilNext   int
	Progress        float64

	NextMilestoneDays int // 0 when past the last beautiful day
	NextMilestoneDate time.Time
	DaysToMilestone   int

	NextBigYear int
	NextBigDate time.Time
	DaysToBig   int
}

// Date builds a normalized UTC date with zero time-of-day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the time-of-day and timezone from t.
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

func daysBetween(from, to time.Time) int {
	return int(Normalize(to).Sub(Normalize(from)) / (24 * time.Hour))
}

func beforeMonthDay(t, ref time.Time) bool {
	if t.Month() != ref.Month() {
		return t.Month() < ref.Month()
	}
	return t.Day() < ref.Day()
}

// CalcStats computes the relationship summary for today. A future start
// date yields only the Future flag; years and months are anchored on
// anniversaries, not on raw day counts.
func CalcStats(start, today time.Time) Stats {
	start = Normalize(start)
	today = Normalize(today)

	stats := Stats{StartDate: start}
	if start.After(today) {
		stats.Future = true
		stats.DaysUntilNext = daysBetween(today, start)
		return stats
	}

	stats.DaysTogether = daysBetween(start, today)

	years := today.Year() - start.Year()
	if beforeMonthDay(today, start) {
		years--
	}
	if years < 0 {
		years = 0
	}
	stats.Years = years

	// A Feb 29 start rolls over to Mar 1 in non-leap years, via
	// time.Date normalization.
	lastAnniversary := Date(start.Year()+years, start.Month(), start.Day())
	months := (today.Year()-lastAnniversary.Year())*12 + int(today.Month()) - int(lastAnniversary.Month())
	if today.Day() < start.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	stats.Months = months
	stats.LastAnniversary = lastAnniversary

	nextAnniversary := Date(start.Year()+years+1, start.Month(), start.Day())
	stats.NextAnniversary = nextAnniversary
	stats.DaysUntilNext = daysBetween(today, nextAnniversary)

	totalPeriod := daysBetween(lastAnniversary, nextAnniversary)
	if totalPeriod < 1 {
		totalPeriod = 1
	}
	done := daysBetween(lastAnniversary, today)
	if done < 0 {
		done = 0
	}
	if done > totalPeriod {
		done = totalPeriod
	}
	stats.Progress = float64(done) / float64(totalPeriod)

	for _, d := range BeautifulDays {
		if d > stats.DaysTogether {
			stats.NextMilestoneDays = d
			stats.NextMilestoneDate = start.AddDate(0, 0, d)
			stats.DaysToMilestone = d - stats.DaysTogether
			break
		}
	}

	stats.NextBigYear = (years/5 + 1) * 5
	stats.NextBigDate = Date(start.Year()+stats.NextBigYear, start.Month(), start.Day())
	stats.DaysToBig = daysBetween(today, stats.NextBigDate)

	return stats
}
