package milestone

import "time"

// EventKind values match the notif_type column in the notification log.
type EventKind string

const (
	EventAnniversaryWarning7d EventKind = "year_anniversary_7d"
	EventAnniversaryWarning1d EventKind = "year_anniversary_1d"
	EventAnniversaryDay       EventKind = "year_anniversary"
	EventBeautifulDay         EventKind = "beautiful_day"
)

// Event is a single due notification. Key disambiguates repeats of the
// same kind: the anniversary year number, or the day count for beautiful
// days.
type Event struct {
	Kind EventKind
	Key  int
	Date time.Time
}

// DueEvents reports which notifications are due today. Checks are
// independent; a beautiful day and an anniversary warning may co-fire in
// the same pass. Future start dates yield nothing.
func DueEvents(start, today time.Time) []Event {
	start = Normalize(start)
	today = Normalize(today)

	if start.After(today) {
		return nil
	}

	var events []Event

	anniversaryThisYear := Date(today.Year(), start.Month(), start.Day())
	upcoming := anniversaryThisYear
	if anniversaryThisYear.Before(today) {
		upcoming = Date(today.Year()+1, start.Month(), start.Day())
	}

	// yearN <= 0 means the first anniversary has not been reached yet.
	yearN := upcoming.Year() - start.Year()
	if yearN > 0 {
		switch daysBetween(today, upcoming) {
		case 7:
			events = append(events, Event{Kind: EventAnniversaryWarning7d, Key: yearN, Date: upcoming})
		case 1:
			events = append(events, Event{Kind: EventAnniversaryWarning1d, Key: yearN, Date: upcoming})
		case 0:
			events = append(events, Event{Kind: EventAnniversaryDay, Key: yearN, Date: upcoming})
		}
	}

	daysTogether := daysBetween(start, today)
	for _, d := range BeautifulDays {
		if d == daysTogether {
			events = append(events, Event{Kind: EventBeautifulDay, Key: daysTogether, Date: today})
			break
		}
	}

	return events
}
