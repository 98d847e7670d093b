package testfixtures

import (
	"fmt"
	"sync/atomic"

	"github.com/example/resama/internal/domain"
)

var (
	teacherCounter     int64 = 100
	formationCounter   int64 = 200
	roomCounter        int64
	equipmentCounter   int64
	reservationCounter int64 = 1000
)

// ReferenceDay is the calendar day of ReferenceTime.
func ReferenceDay() domain.Date {
	return domain.DateOf(referenceTime)
}

// ReferenceMonday is the Monday of the week containing ReferenceTime.
func ReferenceMonday() domain.Date {
	return ReferenceDay().AddDays(-2)
}

// ----------------------------- Users -----------------------------

// ResponsableUser mirrors the demo responsable account.
func ResponsableUser() domain.User {
	return domain.User{
		SessionID:   "session-responsable",
		PersonID:    1,
		LastName:    "Martin",
		FirstName:   "Jean",
		DisplayName: "Jean Martin",
		Role:        domain.RoleResponsable,
		Email:       "responsable@univ.fr",
		Phone:       "01.23.45.67.89",
		Specialty:   "Informatique",
	}
}

// TeacherUser mirrors the demo teacher account.
func TeacherUser() domain.User {
	return domain.User{
		SessionID:   "session-enseignant",
		PersonID:    2,
		LastName:    "Dubois",
		FirstName:   "Marie",
		DisplayName: "Marie Dubois",
		Role:        domain.RoleTeacher,
		Email:       "enseignant@univ.fr",
		Phone:       "01.23.45.67.90",
		Specialty:   "Mathématiques",
	}
}

// ----------------------------- Teachers -----------------------------

type TeacherOption func(*domain.Teacher)

// NewTeacher returns a teacher with a fresh identifier.
func NewTeacher(opts ...TeacherOption) domain.Teacher {
	idx := atomic.AddInt64(&teacherCounter, 1)
	teacher := domain.Teacher{
		ID:        idx,
		LastName:  fmt.Sprintf("Nom%03d", idx),
		FirstName: fmt.Sprintf("Prenom%03d", idx),
		Email:     fmt.Sprintf("enseignant%03d@univ.fr", idx),
		Specialty: "Informatique",
	}
	for _, opt := range opts {
		opt(&teacher)
	}
	return teacher
}

func WithTeacherID(id int64) TeacherOption {
	return func(t *domain.Teacher) { t.ID = id }
}

func WithTeacherName(first, last string) TeacherOption {
	return func(t *domain.Teacher) {
		t.FirstName = first
		t.LastName = last
	}
}

func WithTeacherEmail(email string) TeacherOption {
	return func(t *domain.Teacher) { t.Email = email }
}

func WithSpecialty(specialty string) TeacherOption {
	return func(t *domain.Teacher) { t.Specialty = specialty }
}

// TeacherOf projects a session user onto the teacher record the backend holds.
func TeacherOf(user domain.User) domain.Teacher {
	return domain.Teacher{
		ID:        user.PersonID,
		LastName:  user.LastName,
		FirstName: user.FirstName,
		Email:     user.Email,
		Phone:     user.Phone,
		Specialty: user.Specialty,
	}
}

// ----------------------------- Formations -----------------------------

type FormationOption func(*domain.Formation)

func NewFormation(opts ...FormationOption) domain.Formation {
	idx := atomic.AddInt64(&formationCounter, 1)
	formation := domain.Formation{
		ID:            idx,
		Code:          fmt.Sprintf("F%03d", idx),
		Name:          fmt.Sprintf("Formation %03d", idx),
		Description:   "Cours magistral",
		Level:         "L3",
		DurationHours: 30,
		Responsible:   TeacherOf(ResponsableUser()),
	}
	for _, opt := range opts {
		opt(&formation)
	}
	return formation
}

func WithFormationID(id int64) FormationOption {
	return func(f *domain.Formation) { f.ID = id }
}

func WithFormationCode(code, name string) FormationOption {
	return func(f *domain.Formation) {
		f.Code = code
		f.Name = name
	}
}

func WithLevel(level string) FormationOption {
	return func(f *domain.Formation) { f.Level = level }
}

func WithResponsible(t domain.Teacher) FormationOption {
	return func(f *domain.Formation) { f.Responsible = t }
}

// ----------------------------- Rooms -----------------------------

type RoomOption func(*domain.Room)

func NewRoom(opts ...RoomOption) domain.Room {
	idx := atomic.AddInt64(&roomCounter, 1)
	room := domain.Room{
		Code:      fmt.Sprintf("S%03d", idx),
		Name:      fmt.Sprintf("Salle %03d", idx),
		Capacity:  30,
		Available: true,
		Type:      "TD",
		Building:  "A",
		Floor:     "1",
		Equipment: "Vidéoprojecteur, Tableau blanc",
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

func WithRoomCode(code string) RoomOption {
	return func(r *domain.Room) { r.Code = code }
}

func WithRoomName(name string) RoomOption {
	return func(r *domain.Room) { r.Name = name }
}

func WithCapacity(capacity int) RoomOption {
	return func(r *domain.Room) { r.Capacity = capacity }
}

func WithRoomType(kind string) RoomOption {
	return func(r *domain.Room) { r.Type = kind }
}

func WithRoomEquipment(equipment string) RoomOption {
	return func(r *domain.Room) { r.Equipment = equipment }
}

// ----------------------------- Equipment -----------------------------

type EquipmentOption func(*domain.Equipment)

// NewComputer returns an available laptop.
func NewComputer(opts ...EquipmentOption) domain.Equipment {
	idx := atomic.AddInt64(&equipmentCounter, 1)
	item := domain.Equipment{
		Code:            fmt.Sprintf("ORD%03d", idx),
		Available:       true,
		Brand:           "Dell",
		Model:           "Latitude 5540",
		Condition:       "BON",
		AcquisitionDate: domain.NewDate(2023, 9, 1),
		Location:        "Bâtiment A",
		Kind:            domain.KindComputer,
		Processor:       "Intel i5",
		RAM:             "16 Go",
		Storage:         "512 Go SSD",
		OperatingSystem: "Windows 11",
		ComputerType:    "PORTABLE",
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// NewProjector returns an available video projector.
func NewProjector(opts ...EquipmentOption) domain.Equipment {
	idx := atomic.AddInt64(&equipmentCounter, 1)
	item := domain.Equipment{
		Code:           fmt.Sprintf("VP%03d", idx),
		Available:      true,
		Brand:          "Epson",
		Model:          "EB-W51",
		Condition:      "BON",
		Location:       "Bâtiment B",
		Kind:           domain.KindProjector,
		Resolution:     "1280x800",
		Brightness:     "4000 lumens",
		Connectivity:   "HDMI",
		Weight:         2.5,
		ProjectionType: "LCD",
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

func WithEquipmentCode(code string) EquipmentOption {
	return func(e *domain.Equipment) { e.Code = code }
}

func Unavailable() EquipmentOption {
	return func(e *domain.Equipment) { e.Available = false }
}

// ----------------------------- Reservations -----------------------------

type ReservationOption func(*domain.Reservation)

// NewReservation returns a confirmed two-hour morning booking on ReferenceDay
// by the demo teacher, with no room or equipment attached.
func NewReservation(opts ...ReservationOption) domain.Reservation {
	idx := atomic.AddInt64(&reservationCounter, 1)
	reservation := domain.Reservation{
		Number:       idx,
		Day:          ReferenceDay(),
		Start:        domain.MustClockTime("08:00"),
		End:          domain.MustClockTime("10:00"),
		Motive:       fmt.Sprintf("Cours %d", idx),
		Status:       domain.StatusConfirmed,
		Participants: 20,
		Teacher:      TeacherOf(TeacherUser()),
	}
	for _, opt := range opts {
		opt(&reservation)
	}
	return reservation
}

func WithNumber(n int64) ReservationOption {
	return func(r *domain.Reservation) { r.Number = n }
}

func OnDay(day domain.Date) ReservationOption {
	return func(r *domain.Reservation) { r.Day = day }
}

// Between sets the slot from "HH:MM" bounds.
func Between(start, end string) ReservationOption {
	return func(r *domain.Reservation) {
		r.Start = domain.MustClockTime(start)
		r.End = domain.MustClockTime(end)
	}
}

func WithStatus(status domain.ReservationStatus) ReservationOption {
	return func(r *domain.Reservation) { r.Status = status }
}

func ByTeacher(t domain.Teacher) ReservationOption {
	return func(r *domain.Reservation) { r.Teacher = t }
}

func InRoom(room domain.Room) ReservationOption {
	return func(r *domain.Reservation) {
		copied := room
		r.Room = &copied
	}
}

func WithItem(item domain.Equipment) ReservationOption {
	return func(r *domain.Reservation) {
		copied := item
		r.Equipment = &copied
	}
}

func ForFormation(f domain.Formation) ReservationOption {
	return func(r *domain.Reservation) {
		copied := f
		r.Formation = &copied
	}
}

func WithMotive(motive string) ReservationOption {
	return func(r *domain.Reservation) { r.Motive = motive }
}

func WithParticipants(n int) ReservationOption {
	return func(r *domain.Reservation) { r.Participants = n }
}
