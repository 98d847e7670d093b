// Package recurrence expands a repeated booking into the teaching days it covers.
package recurrence

import (
	"errors"
	"time"

	"github.com/example/resama/internal/domain"
)

// DefaultMaxOccurrences caps a series at one academic year of weekly slots.
const DefaultMaxOccurrences = 52

// Frequency represents supported recurrence intervals.
type Frequency int

const (
	// FrequencyUnspecified indicates the rule frequency is not set.
	FrequencyUnspecified Frequency = iota
	// FrequencyDaily repeats on every teaching day, or on Weekdays when set.
	FrequencyDaily
	// FrequencyWeekly repeats on the selected weekdays, or on the first day's weekday.
	FrequencyWeekly
)

// ParseFrequency accepts "daily"/"quotidien" and "weekly"/"hebdomadaire".
func ParseFrequency(value string) (Frequency, error) {
	switch value {
	case "daily", "quotidien":
		return FrequencyDaily, nil
	case "weekly", "hebdomadaire":
		return FrequencyWeekly, nil
	default:
		return FrequencyUnspecified, ErrInvalidFrequency
	}
}

// Rule describes a repeated reservation. EndsOn is inclusive.
type Rule struct {
	Frequency Frequency
	Weekdays  []domain.Weekday
	StartsOn  domain.Date
	EndsOn    domain.Date
}

// Occurrence is one reservation of a series.
type Occurrence struct {
	Day   domain.Date
	Start domain.ClockTime
	End   domain.ClockTime
}

// Engine expands recurrence rules into occurrences.
type Engine struct {
	maxOccurrences int
}

// NewEngine caps series at limit occurrences; limit <= 0 means DefaultMaxOccurrences.
func NewEngine(limit int) *Engine {
	if limit <= 0 {
		limit = DefaultMaxOccurrences
	}
	return &Engine{maxOccurrences: limit}
}

var (
	// ErrInvalidFrequency indicates the recurrence frequency is not supported.
	ErrInvalidFrequency = errors.New("recurrence: invalid frequency")
	// ErrInvalidWindow indicates the rule has no start, no end, or ends before it starts.
	ErrInvalidWindow = errors.New("recurrence: series requires a start and an end day")
	// ErrInvalidDuration indicates the slot does not end after it starts.
	ErrInvalidDuration = errors.New("recurrence: slot must end after it starts")
	// ErrTooManyOccurrences indicates the series exceeds the engine cap.
	ErrTooManyOccurrences = errors.New("recurrence: too many occurrences")
)

// Expand lists the occurrences of rule in chronological order, every one on a
// teaching day and using the same start and end times.
func (e *Engine) Expand(rule Rule, start, end domain.ClockTime) ([]Occurrence, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil, ErrInvalidDuration
	}
	if rule.StartsOn.IsZero() || rule.EndsOn.IsZero() || rule.EndsOn.Before(rule.StartsOn) {
		return nil, ErrInvalidWindow
	}

	weekdaySet := make(map[time.Weekday]struct{}, len(rule.Weekdays))
	for _, day := range rule.Weekdays {
		if offset := day.Offset(); offset >= 0 {
			weekdaySet[time.Monday+time.Weekday(offset)] = struct{}{}
		}
	}
	if rule.Frequency == FrequencyWeekly && len(weekdaySet) == 0 {
		weekdaySet[rule.StartsOn.Weekday()] = struct{}{}
	}

	occurrences := make([]Occurrence, 0)
	for current := rule.StartsOn; !rule.EndsOn.Before(current); current = current.AddDays(1) {
		include, err := shouldInclude(rule.Frequency, weekdaySet, current)
		if err != nil {
			return nil, err
		}
		if !include {
			continue
		}
		if len(occurrences) == e.maxOccurrences {
			return nil, ErrTooManyOccurrences
		}
		occurrences = append(occurrences, Occurrence{Day: current, Start: start, End: end})
	}

	return occurrences, nil
}

func shouldInclude(freq Frequency, weekdaySet map[time.Weekday]struct{}, day domain.Date) (bool, error) {
	_, teaching := day.TeachingDay()
	switch freq {
	case FrequencyDaily:
		if !teaching {
			return false, nil
		}
		if len(weekdaySet) == 0 {
			return true, nil
		}
		_, ok := weekdaySet[day.Weekday()]
		return ok, nil
	case FrequencyWeekly:
		if !teaching {
			return false, nil
		}
		_, ok := weekdaySet[day.Weekday()]
		return ok, nil
	case FrequencyUnspecified:
		fallthrough
	default:
		return false, ErrInvalidFrequency
	}
}
