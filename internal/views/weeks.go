package views

import (
	"fmt"
	"time"

	"github.com/example/resama/internal/domain"
)

// DefaultWeekCount is the number of selectable weeks on the planning and recap pages.
const DefaultWeekCount = 12

// Week is a Monday to Friday teaching week.
type Week struct {
	ID     string      `json:"id"`
	Start  domain.Date `json:"debut"`
	End    domain.Date `json:"fin"`
	Number int         `json:"numeroSemaine"`
	Label  string      `json:"label"`
}

// Days returns the five teaching dates of the week.
func (w Week) Days() []domain.Date {
	days := make([]domain.Date, len(domain.TeachingDays))
	for i := range days {
		days[i] = w.Start.AddDays(i)
	}
	return days
}

// Contains reports whether day falls between Monday and Friday of the week.
func (w Week) Contains(day domain.Date) bool {
	return day.Within(w.Start, w.End)
}

// GenerateWeeks returns n consecutive weeks, the first one containing
// reference. A Sunday reference starts with the following week.
func GenerateWeeks(reference time.Time, n int) []Week {
	if n <= 0 {
		return nil
	}
	today := domain.DateOf(reference)
	offset := int(today.Weekday()) - 1
	if today.Weekday() == time.Sunday {
		offset = -1
	}
	monday := today.AddDays(-offset)

	weeks := make([]Week, n)
	for i := range weeks {
		start := monday.AddDays(7 * i)
		_, number := start.Time().ISOWeek()
		weeks[i] = Week{
			ID:     fmt.Sprintf("semaine-%d", i),
			Start:  start,
			End:    start.AddDays(4),
			Number: number,
			Label:  fmt.Sprintf("Semaine %d (%s)", number, start.Time().Format("02/01/2006")),
		}
	}
	return weeks
}

// FindWeek selects a week by ID, by its Monday ("2006-01-02") or by any day it
// contains. An empty selector picks the first week.
func FindWeek(weeks []Week, selector string) (Week, bool) {
	if len(weeks) == 0 {
		return Week{}, false
	}
	if selector == "" {
		return weeks[0], true
	}
	for _, w := range weeks {
		if w.ID == selector {
			return w, true
		}
	}
	day, err := domain.ParseDate(selector)
	if err != nil {
		return Week{}, false
	}
	for _, w := range weeks {
		if w.Contains(day) {
			return w, true
		}
	}
	return Week{}, false
}
