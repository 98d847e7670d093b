// Package views derives page state from cached collections. Every function is
// pure: inputs are never modified and results keep the input order.
package views

import (
	"strings"

	"github.com/example/resama/internal/domain"
)

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func normalize(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

// FilterTeachers keeps teachers whose last name, first name, email or
// specialty contains search, and whose specialty equals specialty when set.
func FilterTeachers(teachers []domain.Teacher, search, specialty string) []domain.Teacher {
	search = normalize(search)
	out := make([]domain.Teacher, 0, len(teachers))
	for _, t := range teachers {
		if specialty != "" && t.Specialty != specialty {
			continue
		}
		if !matches(search, t.LastName, t.FirstName, t.Email, t.Specialty) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Specialties lists the distinct non-empty specialties in first-seen order.
func Specialties(teachers []domain.Teacher) []string {
	seen := make(map[string]struct{}, len(teachers))
	var out []string
	for _, t := range teachers {
		if t.Specialty == "" {
			continue
		}
		if _, dup := seen[t.Specialty]; dup {
			continue
		}
		seen[t.Specialty] = struct{}{}
		out = append(out, t.Specialty)
	}
	return out
}

// TeacherSummary counts the teacher list shown on the management page.
// Responsables counts teachers responsible for at least one formation.
type TeacherSummary struct {
	Total        int `json:"total"`
	Specialties  int `json:"specialites"`
	Responsables int `json:"responsables"`
}

func TeacherStats(teachers []domain.Teacher, formations []domain.Formation) TeacherSummary {
	responsible := make(map[int64]struct{})
	for _, f := range formations {
		if f.Responsible.ID > 0 {
			responsible[f.Responsible.ID] = struct{}{}
		}
	}
	summary := TeacherSummary{Total: len(teachers), Specialties: len(Specialties(teachers))}
	for _, t := range teachers {
		if _, ok := responsible[t.ID]; ok {
			summary.Responsables++
		}
	}
	return summary
}

// FilterFormations matches search against code, name, description and the
// responsible teacher's names; level must match exactly when set.
func FilterFormations(formations []domain.Formation, search, level string) []domain.Formation {
	search = normalize(search)
	out := make([]domain.Formation, 0, len(formations))
	for _, f := range formations {
		if level != "" && f.Level != level {
			continue
		}
		if !matches(search, f.Code, f.Name, f.Description, f.Responsible.LastName, f.Responsible.FirstName) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// RoomCriteria are the room booking page filters. Zero values disable a criterion.
type RoomCriteria struct {
	MinCapacity int
	Type        string
	Equipment   string
	Search      string
}

func FilterRooms(rooms []domain.Room, c RoomCriteria) []domain.Room {
	equipment := normalize(c.Equipment)
	search := normalize(c.Search)
	out := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if c.MinCapacity > 0 && r.Capacity < c.MinCapacity {
			continue
		}
		if c.Type != "" && r.Type != c.Type {
			continue
		}
		if equipment != "" && !strings.Contains(strings.ToLower(r.Equipment), equipment) {
			continue
		}
		if !matches(search, r.Code, r.Name, r.Building) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// EquipmentCriteria are the equipment loan page filters.
type EquipmentCriteria struct {
	Kind   domain.EquipmentKind
	Search string
}

// FilterEquipment matches search against brand, model and code. Without a
// search only available items are listed.
func FilterEquipment(items []domain.Equipment, c EquipmentCriteria) []domain.Equipment {
	search := normalize(c.Search)
	out := make([]domain.Equipment, 0, len(items))
	for _, item := range items {
		if c.Kind != "" && item.Kind != c.Kind {
			continue
		}
		if search == "" {
			if item.Available {
				out = append(out, item)
			}
			continue
		}
		if matches(search, item.Brand, item.Model, item.Code) {
			out = append(out, item)
		}
	}
	return out
}

// KindCount is the available/total pair shown per equipment kind.
type KindCount struct {
	Available int `json:"disponibles"`
	Total     int `json:"total"`
}

// EquipmentCounts tallies items per kind; the "" key holds the overall count.
func EquipmentCounts(items []domain.Equipment) map[domain.EquipmentKind]KindCount {
	counts := make(map[domain.EquipmentKind]KindCount, 3)
	for _, key := range []domain.EquipmentKind{"", domain.KindComputer, domain.KindProjector} {
		counts[key] = KindCount{}
	}
	for _, item := range items {
		for _, key := range []domain.EquipmentKind{"", item.Kind} {
			c := counts[key]
			c.Total++
			if item.Available {
				c.Available++
			}
			counts[key] = c
		}
	}
	return counts
}

// ReservationCriteria filter the reservation list.
type ReservationCriteria struct {
	Search    string
	Status    domain.ReservationStatus
	TeacherID int64
}

// FilterReservations matches search against motive, room, equipment and
// teacher names.
func FilterReservations(reservations []domain.Reservation, c ReservationCriteria) []domain.Reservation {
	search := normalize(c.Search)
	out := make([]domain.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if c.Status != "" && r.Status != c.Status {
			continue
		}
		if c.TeacherID > 0 && r.Teacher.ID != c.TeacherID {
			continue
		}
		fields := []string{r.Motive, r.Teacher.LastName, r.Teacher.FirstName}
		if r.Room != nil {
			fields = append(fields, r.Room.Code, r.Room.Name)
		}
		if r.Equipment != nil {
			fields = append(fields, r.Equipment.Code, r.Equipment.Brand, r.Equipment.Model)
		}
		if !matches(search, fields...) {
			continue
		}
		out = append(out, r)
	}
	return out
}
