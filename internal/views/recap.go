package views

import (
	"github.com/example/resama/internal/domain"
)

// CalculateDuration returns end - start in hours; negative when end precedes start.
func CalculateDuration(start, end domain.ClockTime) float64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	return start.HoursUntil(end)
}

// DayHours maps every teaching day to a number of hours.
type DayHours map[domain.Weekday]float64

func newDayHours() DayHours {
	hours := make(DayHours, len(domain.TeachingDays))
	for _, day := range domain.TeachingDays {
		hours[day] = 0
	}
	return hours
}

// Course is one line of the recap course list.
type Course struct {
	Name  string  `json:"nom"`
	Hours float64 `json:"heures"`
	Room  string  `json:"salle"`
}

const unknownRoom = "Salle non définie"

// Recap is the recap horaire of one teacher for one week. Formations lists
// those the teacher is responsible for.
type Recap struct {
	TeacherID    int64                `json:"utilisateurId"`
	Week         Week                 `json:"semaine"`
	TotalHours   float64              `json:"totalHeures"`
	HoursPerDay  DayHours             `json:"heuresParJour"`
	Courses      []Course             `json:"cours"`
	Reservations []domain.Reservation `json:"reservations"`
	Formations   []domain.Formation   `json:"formations"`
}

// BuildRecap aggregates the CONFIRMEE reservations of teacherID that fall in
// week. Hours come from each reservation's own start and end times.
func BuildRecap(teacherID int64, week Week, reservations []domain.Reservation, formations []domain.Formation) Recap {
	recap := Recap{
		TeacherID:    teacherID,
		Week:         week,
		HoursPerDay:  newDayHours(),
		Courses:      []Course{},
		Reservations: []domain.Reservation{},
		Formations:   []domain.Formation{},
	}

	for _, r := range reservations {
		if r.Teacher.ID != teacherID || !r.IsConfirmed() || !week.Contains(r.Day) {
			continue
		}
		day, ok := r.Day.TeachingDay()
		if !ok {
			continue
		}
		hours := CalculateDuration(r.Start, r.End)
		recap.HoursPerDay[day] += hours
		recap.TotalHours += hours
		recap.Reservations = append(recap.Reservations, r)

		room := unknownRoom
		if r.Room != nil && r.Room.Name != "" {
			room = r.Room.Name
		}
		recap.Courses = append(recap.Courses, Course{Name: r.Motive, Hours: hours, Room: room})
	}

	for _, f := range formations {
		if f.Responsible.ID == teacherID {
			recap.Formations = append(recap.Formations, f)
		}
	}
	return recap
}

// GlobalStats are the four headline figures of the recap page.
type GlobalStats struct {
	ReservationsToday int     `json:"reservationsAujourdhui"`
	RoomsBooked       int     `json:"sallesReservees"`
	EquipmentBorrowed int     `json:"materielEmprunte"`
	WeekHours         float64 `json:"heuresSemaine"`
}

// BuildGlobalStats counts the CONFIRMEE reservations of teacherID: those on
// today, the distinct rooms and the equipment loans. WeekHours is taken from recap.
func BuildGlobalStats(teacherID int64, today domain.Date, reservations []domain.Reservation, recap Recap) GlobalStats {
	stats := GlobalStats{WeekHours: recap.TotalHours}
	rooms := make(map[string]struct{})
	for _, r := range reservations {
		if r.Teacher.ID != teacherID || !r.IsConfirmed() {
			continue
		}
		if r.Day.Equal(today) {
			stats.ReservationsToday++
		}
		if code := r.RoomCode(); code != "" {
			rooms[code] = struct{}{}
		}
		if r.Equipment != nil {
			stats.EquipmentBorrowed++
		}
	}
	stats.RoomsBooked = len(rooms)
	return stats
}
