package domain

import (
	"strings"
	"time"
)

// User is the authenticated person held by the client session.
type User struct {
	SessionID      string     `json:"sessionId"`
	PersonID       int64      `json:"personId"`
	LastName       string     `json:"lastName"`
	FirstName      string     `json:"firstName"`
	DisplayName    string     `json:"displayName"`
	Role           Role       `json:"role"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Specialty      string     `json:"specialty,omitempty"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
}

// IsResponsable reports whether the user may access responsable-only views.
func (u User) IsResponsable() bool {
	return u.Role == RoleResponsable
}

// Teacher is the relation-stripped teacher shape used by list views.
type Teacher struct {
	ID        int64  `json:"idEnseignant"`
	LastName  string `json:"nomEnseignant"`
	FirstName string `json:"prenomEnseignant"`
	Email     string `json:"email"`
	Phone     string `json:"telephone,omitempty"`
	Specialty string `json:"specialite,omitempty"`
}

// FullName renders "First Last".
func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// TeacherDetail carries the teacher with its relations.
type TeacherDetail struct {
	Teacher
	Formations   []Formation         `json:"formationsResponsables,omitempty"`
	Reservations []ReservationSimple `json:"reservations,omitempty"`
}

// Formation is a course offering with exactly one responsible teacher.
type Formation struct {
	ID            int64   `json:"idFormation"`
	Code          string  `json:"codeFormation"`
	Name          string  `json:"nomFormation"`
	Description   string  `json:"description"`
	Level         string  `json:"niveau"`
	DurationHours int     `json:"dureeHeures"`
	Responsible   Teacher `json:"responsable"`
}

// FormationDetail carries the formation with its reservations.
type FormationDetail struct {
	Formation
	Reservations []ReservationSimple `json:"reservations,omitempty"`
}

// Room is identified by its code.
type Room struct {
	Code      string `json:"codeSalle"`
	Name      string `json:"nomSalle"`
	Capacity  int    `json:"capacite"`
	Available bool   `json:"disponibilite"`
	Type      string `json:"typeSalle"`
	Building  string `json:"batiment"`
	Floor     string `json:"etage"`
	Equipment string `json:"equipements"`
}

// EquipmentList splits the comma separated equipment description.
func (r Room) EquipmentList() []string {
	if strings.TrimSpace(r.Equipment) == "" {
		return nil
	}
	parts := strings.Split(r.Equipment, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// RoomDetail carries the room with its reservations.
type RoomDetail struct {
	Room
	Reservations []ReservationSimple `json:"reservations,omitempty"`
}

// Equipment is a lendable item identified by its code. Kind specific
// attributes are only populated for the matching kind.
type Equipment struct {
	Code            string        `json:"codeMateriel"`
	Available       bool          `json:"disponibilite"`
	Brand           string        `json:"marque"`
	Model           string        `json:"modele"`
	Condition       string        `json:"etat"`
	AcquisitionDate Date          `json:"dateAcquisition,omitzero"`
	Location        string        `json:"localisation"`
	Kind            EquipmentKind `json:"type"`

	Processor       string `json:"processeur,omitempty"`
	RAM             string `json:"ram,omitempty"`
	Storage         string `json:"stockage,omitempty"`
	ScreenSize      string `json:"tailleEcran,omitempty"`
	OperatingSystem string `json:"systemeExploitation,omitempty"`
	ComputerType    string `json:"typeOrdinateur,omitempty"`

	Description    string  `json:"description,omitempty"`
	Resolution     string  `json:"resolution,omitempty"`
	Brightness     string  `json:"luminosite,omitempty"`
	Connectivity   string  `json:"connectivite,omitempty"`
	Weight         float64 `json:"poids,omitempty"`
	ProjectionType string  `json:"typeProjection,omitempty"`
}

// Label renders "Brand Model (CODE)".
func (e Equipment) Label() string {
	name := strings.TrimSpace(e.Brand + " " + e.Model)
	if name == "" {
		return e.Code
	}
	return name + " (" + e.Code + ")"
}

// EquipmentDetail carries the equipment with its reservations.
type EquipmentDetail struct {
	Equipment
	Reservations []ReservationSimple `json:"reservations,omitempty"`
}

// ReservationSimple is the relation-stripped reservation shape.
type ReservationSimple struct {
	Number       int64             `json:"numero"`
	Day          Date              `json:"jour"`
	Start        ClockTime         `json:"heureDebut"`
	End          ClockTime         `json:"heureFin"`
	Motive       string            `json:"motif"`
	Status       ReservationStatus `json:"statut"`
	Participants int               `json:"nombreParticipants"`
}

// Reservation books either a room or an equipment item for a teacher.
type Reservation struct {
	Number       int64             `json:"numero"`
	Day          Date              `json:"jour"`
	Start        ClockTime         `json:"heureDebut"`
	End          ClockTime         `json:"heureFin"`
	Motive       string            `json:"motif"`
	Status       ReservationStatus `json:"statut"`
	Participants int               `json:"nombreParticipants"`
	Teacher      Teacher           `json:"enseignant"`
	Room         *Room             `json:"salle,omitempty"`
	Equipment    *Equipment        `json:"materiel,omitempty"`
	Formation    *Formation        `json:"formation,omitempty"`
}

// Simple strips the relations.
func (r Reservation) Simple() ReservationSimple {
	return ReservationSimple{
		Number:       r.Number,
		Day:          r.Day,
		Start:        r.Start,
		End:          r.End,
		Motive:       r.Motive,
		Status:       r.Status,
		Participants: r.Participants,
	}
}

// DurationHours returns the booked duration in hours; zero when times are missing.
func (r Reservation) DurationHours() float64 {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return r.Start.HoursUntil(r.End)
}

// RoomCode returns the booked room code, or "" for equipment loans.
func (r Reservation) RoomCode() string {
	if r.Room == nil {
		return ""
	}
	return r.Room.Code
}

// IsConfirmed reports whether the backend confirmed the reservation.
func (r Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}
