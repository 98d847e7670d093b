package testfixtures

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/example/resama/internal/domain"
)

// BackendToken is the bearer token the fake backend issues on login.
const BackendToken = "backend-token"

type backendAccount struct {
	password string
	teacher  domain.Teacher
	role     domain.Role
}

type backendFailure struct {
	status  int
	message string
}

// Backend is an in-memory RESAMA REST API served over httptest. It keeps just
// enough state for the client, cache and session flows to be exercised end to end.
type Backend struct {
	Server *httptest.Server

	mu           sync.Mutex
	accounts     map[string]backendAccount
	teachers     []domain.Teacher
	formations   []domain.Formation
	rooms        []domain.Room
	equipment    []domain.Equipment
	reservations []domain.Reservation
	stats        domain.DashboardStats
	calls        map[string]int
	failures     map[string]backendFailure
	tokenRevoked bool
	nextNumber   int64
}

// NewBackend starts a backend seeded with the two demo people as remote
// accounts ("secret" as password) and closes it with tb.
func NewBackend(tb testing.TB) *Backend {
	tb.Helper()
	b := &Backend{
		accounts:   make(map[string]backendAccount),
		calls:      make(map[string]int),
		failures:   make(map[string]backendFailure),
		nextNumber: 5000,
	}
	b.AddAccount(ResponsableUser(), "secret")
	b.AddAccount(TeacherUser(), "secret")
	b.teachers = []domain.Teacher{TeacherOf(ResponsableUser()), TeacherOf(TeacherUser())}

	b.Server = httptest.NewServer(b.routes())
	tb.Cleanup(b.Server.Close)
	return b
}

// URL is the API base URL.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// AddAccount registers remote credentials for user.
func (b *Backend) AddAccount(user domain.User, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[user.Email] = backendAccount{password: password, teacher: TeacherOf(user), role: user.Role}
}

func (b *Backend) SetTeachers(teachers ...domain.Teacher) {
	b.mu.Lock()
	b.teachers = slices.Clone(teachers)
	b.mu.Unlock()
}

func (b *Backend) SetFormations(formations ...domain.Formation) {
	b.mu.Lock()
	b.formations = slices.Clone(formations)
	b.mu.Unlock()
}

func (b *Backend) SetRooms(rooms ...domain.Room) {
	b.mu.Lock()
	b.rooms = slices.Clone(rooms)
	b.mu.Unlock()
}

func (b *Backend) SetEquipment(items ...domain.Equipment) {
	b.mu.Lock()
	b.equipment = slices.Clone(items)
	b.mu.Unlock()
}

func (b *Backend) SetReservations(reservations ...domain.Reservation) {
	b.mu.Lock()
	b.reservations = slices.Clone(reservations)
	b.mu.Unlock()
}

func (b *Backend) SetStats(stats domain.DashboardStats) {
	b.mu.Lock()
	b.stats = stats
	b.mu.Unlock()
}

// Reservations returns the backend's current reservations.
func (b *Backend) Reservations() []domain.Reservation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.reservations)
}

// Fail makes route ("GET /salles", "POST /reservations", ...) answer status
// with a JSON message until Recover is called.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	b.failures[route] = backendFailure{status: status, message: message}
	b.mu.Unlock()
}

func (b *Backend) Recover(route string) {
	b.mu.Lock()
	delete(b.failures, route)
	b.mu.Unlock()
}

// RevokeToken makes every authenticated route answer 401.
func (b *Backend) RevokeToken() {
	b.mu.Lock()
	b.tokenRevoked = true
	b.mu.Unlock()
}

// Calls counts the requests served for route, including the failed ones.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("POST /api/auth/logout", b.authorized(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	mux.HandleFunc("GET /api/enseignants", b.authorized(b.listTeachers))
	mux.HandleFunc("POST /api/enseignants", b.authorized(b.createTeacher))
	mux.HandleFunc("GET /api/enseignants/{id}", b.authorized(b.getTeacher))
	mux.HandleFunc("DELETE /api/enseignants/{id}", b.authorized(b.deleteTeacher))

	mux.HandleFunc("GET /api/formations", b.authorized(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, nonNil(b.formations))
	}))
	mux.HandleFunc("POST /api/formations", b.authorized(b.createFormation))

	mux.HandleFunc("GET /api/salles", b.authorized(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, nonNil(b.rooms))
	}))
	mux.HandleFunc("GET /api/salles/disponibles", b.authorized(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		available := make([]domain.Room, 0, len(b.rooms))
		for _, room := range b.rooms {
			if room.Available {
				available = append(available, room)
			}
		}
		writeJSON(w, http.StatusOK, available)
	}))
	mux.HandleFunc("GET /api/materiel", b.authorized(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, nonNil(b.equipment))
	}))

	mux.HandleFunc("GET /api/reservations", b.authorized(b.listReservations))
	mux.HandleFunc("POST /api/reservations", b.authorized(b.createReservation))
	mux.HandleFunc("GET /api/reservations/enseignant/{id}", b.authorized(b.reservationsByTeacher))
	mux.HandleFunc("PATCH /api/reservations/{n}/confirmer", b.authorized(b.transition(domain.StatusConfirmed)))
	mux.HandleFunc("PATCH /api/reservations/{n}/annuler", b.authorized(b.transition(domain.StatusCancelled)))
	mux.HandleFunc("DELETE /api/reservations/{n}", b.authorized(b.deleteReservation))

	mux.HandleFunc("GET /api/dashboard/stats", b.authorized(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.stats)
	}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		b.mu.Lock()
		b.calls[route]++
		failure, failing := b.failures[route]
		b.mu.Unlock()
		if failing {
			writeJSON(w, failure.status, map[string]string{"message": failure.message})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (b *Backend) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		revoked := b.tokenRevoked
		b.mu.Unlock()
		if revoked || r.Header.Get("Authorization") != "Bearer "+BackendToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token invalide"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Requête invalide"})
		return
	}
	b.mu.Lock()
	account, ok := b.accounts[req.Email]
	b.tokenRevoked = false
	b.mu.Unlock()
	if !ok || account.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Identifiants invalides"})
		return
	}
	writeJSON(w, http.StatusOK, domain.LoginResponse{
		Token:   BackendToken,
		Teacher: &domain.TeacherDetail{Teacher: account.teacher},
		Role:    string(account.role),
	})
}

func (b *Backend) listTeachers(w http.ResponseWriter, r *http.Request) {
	specialty := r.URL.Query().Get("specialite")
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Teacher, 0, len(b.teachers))
	for _, t := range b.teachers {
		if specialty == "" || t.Specialty == specialty {
			out = append(out, t)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getTeacher(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.teachers {
		if t.ID == id {
			writeJSON(w, http.StatusOK, domain.TeacherDetail{Teacher: t})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Enseignant introuvable"})
}

func (b *Backend) createTeacher(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Requête invalide"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	teacher := domain.Teacher{
		ID:        int64(len(b.teachers) + 1000),
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
	}
	b.teachers = append(b.teachers, teacher)
	writeJSON(w, http.StatusCreated, domain.TeacherDetail{Teacher: teacher})
}

func (b *Backend) deleteTeacher(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.teachers = slices.DeleteFunc(b.teachers, func(t domain.Teacher) bool { return t.ID == id })
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) createFormation(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFormationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Requête invalide"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	formation := domain.Formation{
		ID:            int64(len(b.formations) + 1000),
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		Level:         req.Level,
		DurationHours: req.DurationHours,
	}
	for _, t := range b.teachers {
		if t.ID == req.ResponsibleID {
			formation.Responsible = t
		}
	}
	b.formations = append(b.formations, formation)
	writeJSON(w, http.StatusCreated, domain.FormationDetail{Formation: formation})
}

func (b *Backend) listReservations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, _ := domain.ParseDate(query.Get("dateDebut"))
	to, _ := domain.ParseDate(query.Get("dateFin"))
	status := domain.ReservationStatus(query.Get("statut"))

	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Reservation, 0, len(b.reservations))
	for _, res := range b.reservations {
		if !from.IsZero() && res.Day.Before(from) {
			continue
		}
		if !to.IsZero() && res.Day.After(to) {
			continue
		}
		if status != "" && res.Status != status {
			continue
		}
		out = append(out, res)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) reservationsByTeacher(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Reservation, 0, len(b.reservations))
	for _, res := range b.reservations {
		if res.Teacher.ID == id {
			out = append(out, res)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createReservation(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Requête invalide"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextNumber++
	created := domain.Reservation{
		Number:       b.nextNumber,
		Day:          req.Day,
		Start:        req.Start,
		End:          req.End,
		Motive:       req.Motive,
		Status:       domain.StatusPending,
		Participants: req.Participants,
	}
	for _, t := range b.teachers {
		if t.ID == req.TeacherID {
			created.Teacher = t
		}
	}
	for _, room := range b.rooms {
		if room.Code == req.RoomCode {
			copied := room
			created.Room = &copied
		}
	}
	for _, item := range b.equipment {
		if item.Code == req.EquipmentCode {
			copied := item
			created.Equipment = &copied
		}
	}
	b.reservations = append(b.reservations, created)
	writeJSON(w, http.StatusCreated, created)
}

func (b *Backend) transition(status domain.ReservationStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.ParseInt(r.PathValue("n"), 10, 64)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.reservations {
			if b.reservations[i].Number == n {
				b.reservations[i].Status = status
				writeJSON(w, http.StatusOK, b.reservations[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("Réservation %d introuvable", n)})
	}
}

func (b *Backend) deleteReservation(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.ParseInt(r.PathValue("n"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reservations = slices.DeleteFunc(b.reservations, func(res domain.Reservation) bool { return res.Number == n })
	w.WriteHeader(http.StatusNoContent)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
