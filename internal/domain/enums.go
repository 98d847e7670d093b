package domain

import "strings"

// Role gates access to management views.
type Role string

const (
	// RoleTeacher is the default role of teaching staff.
	RoleTeacher Role = "ENSEIGNANT"
	// RoleResponsable may manage teachers, formations and the catalog.
	RoleResponsable Role = "RESPONSABLE"
)

// ParseRole normalizes a role label received from the backend or a persisted session.
// Unknown or empty values fall back to RoleTeacher.
func ParseRole(value string) Role {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(RoleResponsable):
		return RoleResponsable
	default:
		return RoleTeacher
	}
}

// ReservationStatus is owned by the backend; the client only requests transitions.
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "CONFIRMEE"
	StatusCancelled ReservationStatus = "ANNULEE"
	StatusPending   ReservationStatus = "EN_ATTENTE"
)

// Valid reports whether the status is one of the known values.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusPending:
		return true
	}
	return false
}

// EquipmentKind discriminates the equipment sub-types.
type EquipmentKind string

const (
	KindComputer  EquipmentKind = "ORDINATEUR"
	KindProjector EquipmentKind = "VIDEO_PROJECTEUR"
)

// Valid reports whether the kind is one of the known values.
func (k EquipmentKind) Valid() bool {
	return k == KindComputer || k == KindProjector
}

// Weekday names a teaching day of the week.
type Weekday string

const (
	Monday    Weekday = "LUNDI"
	Tuesday   Weekday = "MARDI"
	Wednesday Weekday = "MERCREDI"
	Thursday  Weekday = "JEUDI"
	Friday    Weekday = "VENDREDI"
)

// TeachingDays lists the days covered by the weekly timetable, Monday first.
var TeachingDays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// Offset returns the number of days between Monday and the weekday, or -1 when unknown.
func (d Weekday) Offset() int {
	for i, day := range TeachingDays {
		if day == d {
			return i
		}
	}
	return -1
}
