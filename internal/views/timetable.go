package views

import (
	"fmt"

	"github.com/example/resama/internal/domain"
)

// Slot is one créneau of the weekly timetable.
type Slot struct {
	ID    string           `json:"id"`
	Day   domain.Weekday   `json:"jour"`
	Start domain.ClockTime `json:"heureDebut"`
	End   domain.ClockTime `json:"heureFin"`
}

// Hours is the slot length.
func (s Slot) Hours() float64 {
	return CalculateDuration(s.Start, s.End)
}

var dailySlots = [][2]string{
	{"08:00", "10:00"},
	{"10:15", "12:15"},
	{"13:30", "15:30"},
	{"15:45", "17:45"},
}

// DefaultTimetable returns the 20 créneaux C001..C020, four per teaching day.
func DefaultTimetable() []Slot {
	slots := make([]Slot, 0, len(domain.TeachingDays)*len(dailySlots))
	for _, day := range domain.TeachingDays {
		for _, bounds := range dailySlots {
			slots = append(slots, Slot{
				ID:    fmt.Sprintf("C%03d", len(slots)+1),
				Day:   day,
				Start: domain.MustClockTime(bounds[0]),
				End:   domain.MustClockTime(bounds[1]),
			})
		}
	}
	return slots
}

// SlotsFor keeps the slots of day in timetable order.
func SlotsFor(timetable []Slot, day domain.Weekday) []Slot {
	var out []Slot
	for _, s := range timetable {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out
}
