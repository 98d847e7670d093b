package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/querycache"
	"github.com/example/resama/internal/services"
)

// Resource families; a mutation invalidates whole families.
const (
	FamilyTeachers     = "teachers"
	FamilyFormations   = "formations"
	FamilyRooms        = "rooms"
	FamilyEquipment    = "equipment"
	FamilyReservations = "reservations"
	FamilyDashboard    = "dashboard"
)

var (
	teacherWriteFamilies     = []string{FamilyTeachers, FamilyFormations, FamilyDashboard}
	formationWriteFamilies   = []string{FamilyFormations, FamilyDashboard}
	roomWriteFamilies        = []string{FamilyRooms}
	equipmentWriteFamilies   = []string{FamilyEquipment}
	reservationWriteFamilies = []string{FamilyReservations, FamilyRooms, FamilyEquipment, FamilyDashboard}
)

// StaleWindows sets how long each kind of read is served from the cache.
type StaleWindows struct {
	Rooms          time.Duration
	Teachers       time.Duration
	Formations     time.Duration
	Equipment      time.Duration
	Reservations   time.Duration
	Availability   time.Duration
	DashboardStats time.Duration
	Dashboards     time.Duration
	Detail         time.Duration
}

// DefaultStaleWindows: slow-changing catalogs use minutes, booking data about one minute.
func DefaultStaleWindows() StaleWindows {
	return StaleWindows{
		Rooms:          10 * time.Minute,
		Teachers:       5 * time.Minute,
		Formations:     5 * time.Minute,
		Equipment:      5 * time.Minute,
		Reservations:   time.Minute,
		Availability:   time.Minute,
		DashboardStats: 2 * time.Minute,
		Dashboards:     5 * time.Minute,
		Detail:         time.Minute,
	}
}

func (w StaleWindows) withDefaults() StaleWindows {
	d := DefaultStaleWindows()
	fill := func(v *time.Duration, def time.Duration) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&w.Rooms, d.Rooms)
	fill(&w.Teachers, d.Teachers)
	fill(&w.Formations, d.Formations)
	fill(&w.Equipment, d.Equipment)
	fill(&w.Reservations, d.Reservations)
	fill(&w.Availability, d.Availability)
	fill(&w.DashboardStats, d.DashboardStats)
	fill(&w.Dashboards, d.Dashboards)
	fill(&w.Detail, d.Detail)
	return w
}

// QueriesConfig wires Queries.
type QueriesConfig struct {
	Services     *services.Services
	Cache        *querycache.Cache
	Session      *SessionManager
	Validator    *Validator
	Notifier     Notifier
	StaleWindows StaleWindows
	Logger       *slog.Logger
}

// Queries exposes every backend read through the shared cache and every write
// with its invalidation cascade.
type Queries struct {
	svc       *services.Services
	cache     *querycache.Cache
	session   *SessionManager
	validator *Validator
	notifier  Notifier
	windows   StaleWindows
	logger    *slog.Logger
}

func NewQueries(cfg QueriesConfig) (*Queries, error) {
	if cfg.Services == nil {
		return nil, errors.New("application: services are required")
	}
	if cfg.Cache == nil {
		return nil, errors.New("application: cache is required")
	}
	if cfg.Session == nil {
		return nil, errors.New("application: session manager is required")
	}
	validator := cfg.Validator
	if validator == nil {
		validator = NewValidator()
	}
	var notifier Notifier = discardNotifier{}
	if cfg.Notifier != nil {
		notifier = cfg.Notifier
	}
	return &Queries{
		svc:       cfg.Services,
		cache:     cfg.Cache,
		session:   cfg.Session,
		validator: validator,
		notifier:  notifier,
		windows:   cfg.StaleWindows.withDefaults(),
		logger:    defaultLogger(cfg.Logger),
	}, nil
}

func (q *Queries) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return componentLogger(ctx, q.logger, "Queries", operation, attrs...)
}

// Cache returns the shared cache.
func (q *Queries) Cache() *querycache.Cache { return q.cache }

// Session returns the session manager the queries authorize against.
func (q *Queries) Session() *SessionManager { return q.session }

// StaleWindows returns the effective windows.
func (q *Queries) StaleWindows() StaleWindows { return q.windows }

func cachedRead[T any](ctx context.Context, q *Queries, operation string, key querycache.Key, window time.Duration, fetch func(context.Context) (T, error)) (result T, err error) {
	logger := q.loggerWith(ctx, operation, "cache_key", key.String())
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "read failed", "error", err, "error_kind", ErrorKind(err))
		}
	}()
	return querycache.Read(ctx, q.cache, key, window, fetch)
}

func idKey(resource string, id int64) querycache.Key {
	return querycache.NewKey(resource, url.Values{"id": {strconv.FormatInt(id, 10)}})
}

func codeKey(resource, code string) querycache.Key {
	return querycache.NewKey(resource, url.Values{"code": {code}})
}

// --- teachers ---

func (q *Queries) Teachers(ctx context.Context, filter domain.TeacherFilter) ([]domain.Teacher, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return cachedRead(ctx, q, "Teachers", querycache.NewKey(FamilyTeachers, filter.Values()), q.windows.Teachers,
		func(ctx context.Context) ([]domain.Teacher, error) { return q.svc.Teachers.List(ctx, filter) })
}

func (q *Queries) Teacher(ctx context.Context, id int64) (domain.TeacherDetail, error) {
	return cachedRead(ctx, q, "Teacher", idKey(FamilyTeachers+"/detail", id), q.windows.Detail,
		func(ctx context.Context) (domain.TeacherDetail, error) { return q.svc.Teachers.Get(ctx, id) })
}

// --- formations ---

func (q *Queries) Formations(ctx context.Context, filter domain.FormationFilter) ([]domain.Formation, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return cachedRead(ctx, q, "Formations", querycache.NewKey(FamilyFormations, filter.Values()), q.windows.Formations,
		func(ctx context.Context) ([]domain.Formation, error) { return q.svc.Formations.List(ctx, filter) })
}

func (q *Queries) Formation(ctx context.Context, id int64) (domain.FormationDetail, error) {
	return cachedRead(ctx, q, "Formation", idKey(FamilyFormations+"/detail", id), q.windows.Detail,
		func(ctx context.Context) (domain.FormationDetail, error) { return q.svc.Formations.Get(ctx, id) })
}

func (q *Queries) FormationsByResponsable(ctx context.Context, responsableID int64) ([]domain.Formation, error) {
	return cachedRead(ctx, q, "FormationsByResponsable", idKey(FamilyFormations+"/responsable", responsableID), q.windows.Formations,
		func(ctx context.Context) ([]domain.Formation, error) {
			return q.svc.Formations.ByResponsable(ctx, responsableID)
		})
}

func (q *Queries) FormationStats(ctx context.Context) (domain.FormationStats, error) {
	return cachedRead(ctx, q, "FormationStats", querycache.NewKey(FamilyFormations+"/stats", nil), q.windows.Formations,
		q.svc.Formations.Stats)
}

// --- rooms ---

func (q *Queries) Rooms(ctx context.Context) ([]domain.Room, error) {
	return cachedRead(ctx, q, "Rooms", querycache.NewKey(FamilyRooms, nil), q.windows.Rooms, q.svc.Rooms.List)
}

func (q *Queries) Room(ctx context.Context, code string) (domain.RoomDetail, error) {
	return cachedRead(ctx, q, "Room", codeKey(FamilyRooms+"/detail", code), q.windows.Detail,
		func(ctx context.Context) (domain.RoomDetail, error) { return q.svc.Rooms.Get(ctx, code) })
}

func (q *Queries) AvailableRooms(ctx context.Context, query domain.RoomAvailabilityQuery) ([]domain.Room, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return cachedRead(ctx, q, "AvailableRooms", querycache.NewKey(FamilyRooms+"/available", query.Values()), q.windows.Availability,
		func(ctx context.Context) ([]domain.Room, error) { return q.svc.Rooms.Available(ctx, query) })
}

func (q *Queries) RoomReservations(ctx context.Context, code string) ([]domain.Reservation, error) {
	return cachedRead(ctx, q, "RoomReservations", codeKey(FamilyRooms+"/reservations", code), q.windows.Reservations,
		func(ctx context.Context) ([]domain.Reservation, error) { return q.svc.Rooms.Reservations(ctx, code) })
}

// CachedRoom looks a room up in the cached room list without fetching.
func (q *Queries) CachedRoom(code string) (domain.Room, bool) {
	rooms, ok := querycache.Lookup[[]domain.Room](q.cache, querycache.NewKey(FamilyRooms, nil))
	if !ok {
		return domain.Room{}, false
	}
	for _, room := range rooms {
		if room.Code == code {
			return room, true
		}
	}
	return domain.Room{}, false
}

// --- equipment ---

func (q *Queries) Equipment(ctx context.Context) ([]domain.Equipment, error) {
	return cachedRead(ctx, q, "Equipment", querycache.NewKey(FamilyEquipment, nil), q.windows.Equipment, q.svc.Equipment.List)
}

func (q *Queries) EquipmentItem(ctx context.Context, code string) (domain.EquipmentDetail, error) {
	return cachedRead(ctx, q, "EquipmentItem", codeKey(FamilyEquipment+"/detail", code), q.windows.Detail,
		func(ctx context.Context) (domain.EquipmentDetail, error) { return q.svc.Equipment.Get(ctx, code) })
}

func (q *Queries) Computers(ctx context.Context) ([]domain.Equipment, error) {
	return cachedRead(ctx, q, "Computers", querycache.NewKey(FamilyEquipment+"/computers", nil), q.windows.Equipment,
		q.svc.Equipment.Computers)
}

func (q *Queries) Projectors(ctx context.Context) ([]domain.Equipment, error) {
	return cachedRead(ctx, q, "Projectors", querycache.NewKey(FamilyEquipment+"/projectors", nil), q.windows.Equipment,
		q.svc.Equipment.Projectors)
}

func (q *Queries) AvailableEquipment(ctx context.Context, query domain.EquipmentAvailabilityQuery) ([]domain.Equipment, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return cachedRead(ctx, q, "AvailableEquipment", querycache.NewKey(FamilyEquipment+"/available", query.Values()), q.windows.Availability,
		func(ctx context.Context) ([]domain.Equipment, error) { return q.svc.Equipment.Available(ctx, query) })
}

// --- reservations ---

func (q *Queries) Reservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return cachedRead(ctx, q, "Reservations", querycache.NewKey(FamilyReservations, filter.Values()), q.windows.Reservations,
		func(ctx context.Context) ([]domain.Reservation, error) { return q.svc.Reservations.List(ctx, filter) })
}

func (q *Queries) Reservation(ctx context.Context, number int64) (domain.Reservation, error) {
	return cachedRead(ctx, q, "Reservation", idKey(FamilyReservations+"/detail", number), q.windows.Detail,
		func(ctx context.Context) (domain.Reservation, error) { return q.svc.Reservations.Get(ctx, number) })
}

func (q *Queries) ReservationsByTeacher(ctx context.Context, teacherID int64) ([]domain.Reservation, error) {
	return cachedRead(ctx, q, "ReservationsByTeacher", idKey(FamilyReservations+"/teacher", teacherID), q.windows.Reservations,
		func(ctx context.Context) ([]domain.Reservation, error) { return q.svc.Reservations.ByTeacher(ctx, teacherID) })
}

func (q *Queries) ReservationsByFormation(ctx context.Context, formationID int64) ([]domain.Reservation, error) {
	return cachedRead(ctx, q, "ReservationsByFormation", idKey(FamilyReservations+"/formation", formationID), q.windows.Reservations,
		func(ctx context.Context) ([]domain.Reservation, error) {
			return q.svc.Reservations.ByFormation(ctx, formationID)
		})
}

// --- dashboard ---

func (q *Queries) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	return cachedRead(ctx, q, "DashboardStats", querycache.NewKey(FamilyDashboard+"/stats", nil), q.windows.DashboardStats,
		q.svc.Dashboard.Stats)
}

func (q *Queries) ResponsableDashboard(ctx context.Context, responsableID int64) (domain.ResponsableDashboard, error) {
	return cachedRead(ctx, q, "ResponsableDashboard", idKey(FamilyDashboard+"/responsable", responsableID), q.windows.Dashboards,
		func(ctx context.Context) (domain.ResponsableDashboard, error) {
			return q.svc.Dashboard.Responsable(ctx, responsableID)
		})
}

func (q *Queries) TeacherDashboard(ctx context.Context, teacherID int64) (domain.TeacherDashboard, error) {
	return cachedRead(ctx, q, "TeacherDashboard", idKey(FamilyDashboard+"/teacher", teacherID), q.windows.Dashboards,
		func(ctx context.Context) (domain.TeacherDashboard, error) { return q.svc.Dashboard.Teacher(ctx, teacherID) })
}

// Refresh invalidates the named families so the next reads refetch.
func (q *Queries) Refresh(families ...string) {
	q.cache.InvalidateFamilies(families...)
}

func families(names []string) []querycache.Key {
	keys := make([]querycache.Key, len(names))
	for i, name := range names {
		keys[i] = querycache.Family(name)
	}
	return keys
}

type mutation[T any] struct {
	operation   string
	success     string
	failure     string
	responsable bool
	check       func() error
	run         func(ctx context.Context) (T, error)
	invalidates []string
	attrs       []any
}

// runMutation checks the session role, runs local validation, submits, and
// invalidates on success. Every outcome is reported through the notifier.
func runMutation[T any](ctx context.Context, q *Queries, m mutation[T]) (result T, err error) {
	logger := q.loggerWith(ctx, m.operation, m.attrs...)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "mutation failed", "error", err, "error_kind", ErrorKind(err))
			q.notifier.Notify(ctx, failureNotification(err, m.failure))
			return
		}
		logger.InfoContext(ctx, "mutation succeeded", "invalidated", m.invalidates)
		q.notifier.Notify(ctx, successNotification(m.success))
	}()

	if m.responsable {
		_, err = q.session.RequireResponsable()
	} else {
		_, err = q.session.RequireUser()
	}
	if err != nil {
		return
	}

	if m.check != nil {
		if err = m.check(); err != nil {
			return
		}
	}

	result, err = querycache.Mutate(ctx, q.cache, m.run, families(m.invalidates)...)
	return
}

type none struct{}

func discardResult(fn func(ctx context.Context) error) func(ctx context.Context) (none, error) {
	return func(ctx context.Context) (none, error) {
		return none{}, fn(ctx)
	}
}

// --- teacher writes (responsable only) ---

func (q *Queries) CreateTeacher(ctx context.Context, req domain.CreateTeacherRequest) (domain.TeacherDetail, error) {
	return runMutation(ctx, q, mutation[domain.TeacherDetail]{
		operation:   "CreateTeacher",
		success:     "Enseignant créé avec succès",
		failure:     "Erreur lors de la création",
		responsable: true,
		check:       func() error { return q.validator.Check(req) },
		run: func(ctx context.Context) (domain.TeacherDetail, error) {
			return q.svc.Teachers.Create(ctx, req)
		},
		invalidates: teacherWriteFamilies,
		attrs:       []any{"email", req.Email},
	})
}

func (q *Queries) UpdateTeacher(ctx context.Context, req domain.UpdateTeacherRequest) (domain.TeacherDetail, error) {
	return runMutation(ctx, q, mutation[domain.TeacherDetail]{
		operation:   "UpdateTeacher",
		success:     "Enseignant mis à jour avec succès",
		failure:     "Erreur lors de la mise à jour",
		responsable: true,
		check:       func() error { return q.validator.Check(req) },
		run: func(ctx context.Context) (domain.TeacherDetail, error) {
			return q.svc.Teachers.Update(ctx, req)
		},
		invalidates: teacherWriteFamilies,
		attrs:       []any{"teacher_id", req.ID},
	})
}

func (q *Queries) DeleteTeacher(ctx context.Context, id int64) error {
	_, err := runMutation(ctx, q, mutation[none]{
		operation:   "DeleteTeacher",
		success:     "Enseignant supprimé avec succès",
		failure:     "Erreur lors de la suppression",
		responsable: true,
		check:       positiveID("idEnseignant", id),
		run:         discardResult(func(ctx context.Context) error { return q.svc.Teachers.Delete(ctx, id) }),
		invalidates: teacherWriteFamilies,
		attrs:       []any{"teacher_id", id},
	})
	return err
}

// --- formation writes (responsable only) ---

func (q *Queries) CreateFormation(ctx context.Context, req domain.CreateFormationRequest) (domain.FormationDetail, error) {
	return runMutation(ctx, q, mutation[domain.FormationDetail]{
		operation:   "CreateFormation",
		success:     "Formation créée avec succès",
		failure:     "Erreur lors de la création",
		responsable: true,
		check:       func() error { return q.validator.Check(req) },
		run: func(ctx context.Context) (domain.FormationDetail, error) {
			return q.svc.Formations.Create(ctx, req)
		},
		invalidates: formationWriteFamilies,
		attrs:       []any{"code", req.Code},
	})
}

func (q *Queries) UpdateFormation(ctx context.Context, req domain.UpdateFormationRequest) (domain.FormationDetail, error) {
	return runMutation(ctx, q, mutation[domain.FormationDetail]{
		operation:   "UpdateFormation",
		success:     "Formation mise à jour avec succès",
		failure:     "Erreur lors de la mise à jour",
		responsable: true,
		check:       func() error { return q.validator.Check(req) },
		run: func(ctx context.Context) (domain.FormationDetail, error) {
			return q.svc.Formations.Update(ctx, req)
		},
		invalidates: formationWriteFamilies,
		attrs:       []any{"formation_id", req.ID},
	})
}

func (q *Queries) DeleteFormation(ctx context.Context, id int64) error {
	_, err := runMutation(ctx, q, mutation[none]{
		operation:   "DeleteFormation",
		success:     "Formation supprimée avec succès",
		failure:     "Erreur lors de la suppression",
		responsable: true,
		check:       positiveID("idFormation", id),
		run:         discardResult(func(ctx context.Context) error { return q.svc.Formations.Delete(ctx, id) }),
		invalidates: formationWriteFamilies,
		attrs:       []any{"formation_id", id},
	})
	return err
}

// --- room writes ---

func (q *Queries) CreateRoom(ctx context.Context, req domain.CreateRoomRequest) (domain.RoomDetail, error) {
	return runMutation(ctx, q, mutation[domain.RoomDetail]{
		operation: "CreateRoom",
		success:   "Salle créée avec succès",
		failure:   "Erreur lors de la création",
		check:     func() error { return q.validator.Check(req) },
		run: func(ctx context.Context) (domain.RoomDetail, error) {
			return q.svc.Rooms.Create(ctx, req)
		},
		invalidates: roomWriteFamilies,
		attrs:       []any{"room", req.Code},
	})
}

func (q *Queries) UpdateRoom(ctx context.Context, req domain.UpdateRoomRequest) (domain.RoomDetail, error) {
	return runMutation(ctx, q, mutation[domain.RoomDetail]{
		operation: "UpdateRoom",
		success:   "Salle mise à jour avec succès",
		failure:   "Erreur lors de la mise à jour",
		check:     func() error { return q.validator.Check(req) },
		run: func(ctx context.Context) (domain.RoomDetail, error) {
			return q.svc.Rooms.Update(ctx, req)
		},
		invalidates: roomWriteFamilies,
		attrs:       []any{"room", req.Code},
	})
}

func (q *Queries) DeleteRoom(ctx context.Context, code string) error {
	_, err := runMutation(ctx, q, mutation[none]{
		operation:   "DeleteRoom",
		success:     "Salle supprimée avec succès",
		failure:     "Erreur lors de la suppression",
		check:       requiredCode("codeSalle", code),
		run:         discardResult(func(ctx context.Context) error { return q.svc.Rooms.Delete(ctx, code) }),
		invalidates: roomWriteFamilies,
		attrs:       []any{"room", code},
	})
	return err
}

// --- equipment writes ---

func (q *Queries) CreateEquipment(ctx context.Context, req domain.CreateEquipmentRequest) (domain.Equipment, error) {
	return runMutation(ctx, q, mutation[domain.Equipment]{
		operation: "CreateEquipment",
		success:   "Matériel ajouté avec succès",
		failure:   "Erreur lors de l'ajout",
		check:     func() error { return q.validator.Check(req) },
		run: func(ctx context.Context) (domain.Equipment, error) {
			return q.svc.Equipment.Create(ctx, req)
		},
		invalidates: equipmentWriteFamilies,
		attrs:       []any{"equipment", req.Code},
	})
}

func (q *Queries) UpdateEquipment(ctx context.Context, req domain.UpdateEquipmentRequest) (domain.Equipment, error) {
	return runMutation(ctx, q, mutation[domain.Equipment]{
		operation: "UpdateEquipment",
		success:   "Matériel mis à jour avec succès",
		failure:   "Erreur lors de la mise à jour",
		check:     func() error { return q.validator.Check(req) },
		run: func(ctx context.Context) (domain.Equipment, error) {
			return q.svc.Equipment.Update(ctx, req)
		},
		invalidates: equipmentWriteFamilies,
		attrs:       []any{"equipment", req.Code},
	})
}

func (q *Queries) DeleteEquipment(ctx context.Context, code string) error {
	_, err := runMutation(ctx, q, mutation[none]{
		operation:   "DeleteEquipment",
		success:     "Matériel supprimé avec succès",
		failure:     "Erreur lors de la suppression",
		check:       requiredCode("codeMateriel", code),
		run:         discardResult(func(ctx context.Context) error { return q.svc.Equipment.Delete(ctx, code) }),
		invalidates: equipmentWriteFamilies,
		attrs:       []any{"equipment", code},
	})
	return err
}

// --- reservation writes ---

func (q *Queries) CreateReservation(ctx context.Context, req domain.CreateReservationRequest) (domain.Reservation, error) {
	return runMutation(ctx, q, mutation[domain.Reservation]{
		operation: "CreateReservation",
		success:   "Réservation créée avec succès",
		failure:   "Erreur lors de la création",
		check:     func() error { return q.checkReservation(req, req.RoomCode, req.Participants) },
		run: func(ctx context.Context) (domain.Reservation, error) {
			return q.svc.Reservations.Create(ctx, req)
		},
		invalidates: reservationWriteFamilies,
		attrs:       []any{"day", req.Day.String(), "room", req.RoomCode, "equipment", req.EquipmentCode},
	})
}

func (q *Queries) UpdateReservation(ctx context.Context, req domain.UpdateReservationRequest) (domain.Reservation, error) {
	return runMutation(ctx, q, mutation[domain.Reservation]{
		operation: "UpdateReservation",
		success:   "Réservation mise à jour",
		failure:   "Erreur lors de la mise à jour",
		check:     func() error { return q.checkReservation(req, req.RoomCode, req.Participants) },
		run: func(ctx context.Context) (domain.Reservation, error) {
			return q.svc.Reservations.Update(ctx, req)
		},
		invalidates: reservationWriteFamilies,
		attrs:       []any{"reservation", req.Number},
	})
}

func (q *Queries) DeleteReservation(ctx context.Context, number int64) error {
	_, err := runMutation(ctx, q, mutation[none]{
		operation:   "DeleteReservation",
		success:     "Réservation supprimée",
		failure:     "Erreur lors de la suppression",
		check:       positiveID("numero", number),
		run:         discardResult(func(ctx context.Context) error { return q.svc.Reservations.Delete(ctx, number) }),
		invalidates: reservationWriteFamilies,
		attrs:       []any{"reservation", number},
	})
	return err
}

// ConfirmReservation asks the backend for the CONFIRMEE transition.
func (q *Queries) ConfirmReservation(ctx context.Context, number int64) error {
	_, err := runMutation(ctx, q, mutation[none]{
		operation:   "ConfirmReservation",
		success:     "Réservation confirmée",
		failure:     "Erreur lors de la confirmation",
		check:       positiveID("numero", number),
		run:         discardResult(func(ctx context.Context) error { return q.svc.Reservations.Confirm(ctx, number) }),
		invalidates: reservationWriteFamilies,
		attrs:       []any{"reservation", number},
	})
	return err
}

// CancelReservation asks the backend for the ANNULEE transition.
func (q *Queries) CancelReservation(ctx context.Context, number int64) error {
	_, err := runMutation(ctx, q, mutation[none]{
		operation:   "CancelReservation",
		success:     "Réservation annulée",
		failure:     "Erreur lors de l'annulation",
		check:       positiveID("numero", number),
		run:         discardResult(func(ctx context.Context) error { return q.svc.Reservations.Cancel(ctx, number) }),
		invalidates: reservationWriteFamilies,
		attrs:       []any{"reservation", number},
	})
	return err
}

// checkReservation adds the capacity check when the room is already cached.
func (q *Queries) checkReservation(req any, roomCode string, participants int) error {
	vErr := &ValidationError{}
	if err := q.validator.Check(req); err != nil {
		var fieldErrs *ValidationError
		if !errors.As(err, &fieldErrs) {
			return err
		}
		vErr.merge(fieldErrs)
	}
	if roomCode != "" && participants > 0 {
		if room, ok := q.CachedRoom(roomCode); ok {
			if err := q.validator.CheckCapacity(participants, room); err != nil {
				var capErr *ValidationError
				if errors.As(err, &capErr) {
					vErr.merge(capErr)
				}
			}
		}
	}
	return vErr.errOrNil()
}

func positiveID(field string, id int64) func() error {
	return func() error {
		if id > 0 {
			return nil
		}
		vErr := &ValidationError{}
		vErr.add(field, fmt.Sprintf("%s doit être positif", field))
		return vErr
	}
}

func requiredCode(field, code string) func() error {
	return func() error {
		if code != "" {
			return nil
		}
		vErr := &ValidationError{}
		vErr.add(field, fmt.Sprintf("%s est obligatoire", field))
		return vErr
	}
}
