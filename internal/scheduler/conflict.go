// Package scheduler flags overlaps between a candidate booking and known
// reservations. The result is advisory only: the backend owns conflict rules.
package scheduler

import (
	"sort"

	"github.com/example/resama/internal/domain"
)

// Booking is the overlap-relevant projection of a reservation.
type Booking struct {
	Number        int64
	Day           domain.Date
	Start         domain.ClockTime
	End           domain.ClockTime
	TeacherID     int64
	RoomCode      string
	EquipmentCode string
	Status        domain.ReservationStatus
}

// FromReservation projects a backend reservation.
func FromReservation(r domain.Reservation) Booking {
	b := Booking{
		Number:    r.Number,
		Day:       r.Day,
		Start:     r.Start,
		End:       r.End,
		TeacherID: r.Teacher.ID,
		Status:    r.Status,
	}
	if r.Room != nil {
		b.RoomCode = r.Room.Code
	}
	if r.Equipment != nil {
		b.EquipmentCode = r.Equipment.Code
	}
	return b
}

// FromRequest projects a reservation that has not been submitted yet.
func FromRequest(req domain.CreateReservationRequest) Booking {
	return Booking{
		Day:           req.Day,
		Start:         req.Start,
		End:           req.End,
		TeacherID:     req.TeacherID,
		RoomCode:      req.RoomCode,
		EquipmentCode: req.EquipmentCode,
		Status:        domain.StatusPending,
	}
}

// ConflictType describes the type of conflict detected between bookings.
type ConflictType string

const (
	// ConflictTypeTeacher indicates the teacher is double-booked.
	ConflictTypeTeacher ConflictType = "enseignant"
	// ConflictTypeRoom indicates a room is double-booked.
	ConflictTypeRoom ConflictType = "salle"
	// ConflictTypeEquipment indicates an equipment item is lent twice.
	ConflictTypeEquipment ConflictType = "materiel"
)

// Conflict details an overlapping reservation that callers can present to users.
type Conflict struct {
	WithReservation int64            `json:"numero"`
	Type            ConflictType     `json:"type"`
	Day             domain.Date      `json:"jour"`
	Start           domain.ClockTime `json:"heureDebut"`
	End             domain.ClockTime `json:"heureFin"`
	Resource        string           `json:"ressource,omitempty"`
}

// Overlaps reports whether a and b share a day and their time ranges intersect.
// Touching ranges (10:00-12:00 and 12:00-14:00) do not overlap.
func Overlaps(a, b Booking) bool {
	if a.Day.IsZero() || !a.Day.Equal(b.Day) {
		return false
	}
	if a.Start.IsZero() || a.End.IsZero() || b.Start.IsZero() || b.End.IsZero() {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// DetectConflicts identifies conflicts for the candidate against existing
// bookings. Cancelled bookings and the candidate itself are ignored. Results
// are ordered by start time then reservation number.
func DetectConflicts(existing []Booking, candidate Booking) []Conflict {
	var conflicts []Conflict
	for _, other := range existing {
		if other.Status == domain.StatusCancelled {
			continue
		}
		if candidate.Number != 0 && other.Number == candidate.Number {
			continue
		}
		if !Overlaps(candidate, other) {
			continue
		}

		base := Conflict{WithReservation: other.Number, Day: other.Day, Start: other.Start, End: other.End}
		if candidate.RoomCode != "" && candidate.RoomCode == other.RoomCode {
			c := base
			c.Type, c.Resource = ConflictTypeRoom, other.RoomCode
			conflicts = append(conflicts, c)
		}
		if candidate.EquipmentCode != "" && candidate.EquipmentCode == other.EquipmentCode {
			c := base
			c.Type, c.Resource = ConflictTypeEquipment, other.EquipmentCode
			conflicts = append(conflicts, c)
		}
		if candidate.TeacherID != 0 && candidate.TeacherID == other.TeacherID {
			c := base
			c.Type = ConflictTypeTeacher
			conflicts = append(conflicts, c)
		}
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		if conflicts[i].Start.Minutes() != conflicts[j].Start.Minutes() {
			return conflicts[i].Start.Before(conflicts[j].Start)
		}
		return conflicts[i].WithReservation < conflicts[j].WithReservation
	})
	return conflicts
}
