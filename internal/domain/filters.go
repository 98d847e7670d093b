package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// InvalidFilterError reports a filter rejected before any request is issued.
type InvalidFilterError struct {
	Field  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Reason)
}

// TeacherFilter narrows GET /enseignants.
type TeacherFilter struct {
	Specialty string
	LastName  string
	FirstName string
	Email     string
}

func (f TeacherFilter) Validate() error {
	return nil
}

func (f TeacherFilter) Values() url.Values {
	values := url.Values{}
	setString(values, "specialite", f.Specialty)
	setString(values, "nomEnseignant", f.LastName)
	setString(values, "prenomEnseignant", f.FirstName)
	setString(values, "email", f.Email)
	return values
}

// FormationFilter narrows GET /formations.
type FormationFilter struct {
	Level         string
	ResponsibleID int64
	Code          string
	Name          string
	MinDuration   int
	MaxDuration   int
}

func (f FormationFilter) Validate() error {
	if f.ResponsibleID < 0 {
		return &InvalidFilterError{Field: "responsableId", Reason: "must be positive"}
	}
	if f.MinDuration < 0 {
		return &InvalidFilterError{Field: "dureeMin", Reason: "must be positive"}
	}
	if f.MaxDuration < 0 {
		return &InvalidFilterError{Field: "dureeMax", Reason: "must be positive"}
	}
	if f.MinDuration > 0 && f.MaxDuration > 0 && f.MaxDuration < f.MinDuration {
		return &InvalidFilterError{Field: "dureeMax", Reason: "must not be lower than dureeMin"}
	}
	return nil
}

func (f FormationFilter) Values() url.Values {
	values := url.Values{}
	setString(values, "niveau", f.Level)
	setInt(values, "responsableId", f.ResponsibleID)
	setString(values, "codeFormation", f.Code)
	setString(values, "nomFormation", f.Name)
	setInt(values, "dureeMin", int64(f.MinDuration))
	setInt(values, "dureeMax", int64(f.MaxDuration))
	return values
}

// ReservationFilter narrows GET /reservations.
type ReservationFilter struct {
	Status      ReservationStatus
	From        Date
	To          Date
	TeacherID   int64
	FormationID int64
}

func (f ReservationFilter) Validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return &InvalidFilterError{Field: "statut", Reason: fmt.Sprintf("unknown status %q", f.Status)}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return &InvalidFilterError{Field: "dateFin", Reason: "must not precede dateDebut"}
	}
	if f.TeacherID < 0 {
		return &InvalidFilterError{Field: "enseignantId", Reason: "must be positive"}
	}
	if f.FormationID < 0 {
		return &InvalidFilterError{Field: "formationId", Reason: "must be positive"}
	}
	return nil
}

func (f ReservationFilter) Values() url.Values {
	values := url.Values{}
	setString(values, "statut", string(f.Status))
	setString(values, "dateDebut", f.From.String())
	setString(values, "dateFin", f.To.String())
	setInt(values, "enseignantId", f.TeacherID)
	setInt(values, "formationId", f.FormationID)
	return values
}

// RoomAvailabilityQuery asks which rooms are free for a time range on a day.
type RoomAvailabilityQuery struct {
	Day   Date
	Start ClockTime
	End   ClockTime
}

func (q RoomAvailabilityQuery) Validate() error {
	if q.Day.IsZero() {
		return &InvalidFilterError{Field: "date", Reason: "is required"}
	}
	if q.Start.IsZero() {
		return &InvalidFilterError{Field: "heureDebut", Reason: "is required"}
	}
	if q.End.IsZero() {
		return &InvalidFilterError{Field: "heureFin", Reason: "is required"}
	}
	if !q.Start.Before(q.End) {
		return &InvalidFilterError{Field: "heureFin", Reason: "must be after heureDebut"}
	}
	return nil
}

func (q RoomAvailabilityQuery) Values() url.Values {
	values := url.Values{}
	setString(values, "date", q.Day.String())
	setString(values, "heureDebut", q.Start.String())
	setString(values, "heureFin", q.End.String())
	return values
}

// EquipmentAvailabilityQuery asks which equipment is free between two days.
type EquipmentAvailabilityQuery struct {
	From Date
	To   Date
}

func (q EquipmentAvailabilityQuery) Validate() error {
	if q.From.IsZero() {
		return &InvalidFilterError{Field: "dateDebut", Reason: "is required"}
	}
	if q.To.IsZero() {
		return &InvalidFilterError{Field: "dateFin", Reason: "is required"}
	}
	if q.To.Before(q.From) {
		return &InvalidFilterError{Field: "dateFin", Reason: "must not precede dateDebut"}
	}
	return nil
}

func (q EquipmentAvailabilityQuery) Values() url.Values {
	values := url.Values{}
	setString(values, "dateDebut", q.From.String())
	setString(values, "dateFin", q.To.String())
	return values
}

// CanonicalQuery encodes values with sorted keys and sorted repeated values,
// so equal filters always produce the same string.
func CanonicalQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	normalized := make(url.Values, len(values))
	for key, vals := range values {
		copied := append([]string(nil), vals...)
		sort.Strings(copied)
		normalized[key] = copied
	}
	// Encode already sorts by key.
	return normalized.Encode()
}

func setString(values url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		values.Set(key, value)
	}
}

func setInt(values url.Values, key string, value int64) {
	if value > 0 {
		values.Set(key, strconv.FormatInt(value, 10))
	}
}
