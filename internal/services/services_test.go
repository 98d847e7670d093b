package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/resama/internal/apiclient"
	"github.com/example/resama/internal/domain"
)

type recordedCall struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	SkipAuth bool
}

// recordingRequester answers every call with the configured JSON payload.
type recordingRequester struct {
	calls    []recordedCall
	response string
	err      error
}

func (r *recordingRequester) record(method, path string, query url.Values, body, out any, opts []apiclient.RequestOption) error {
	call := recordedCall{Method: method, Path: path, Query: query, Body: body}
	call.SkipAuth = skipsAuth(opts)
	r.calls = append(r.calls, call)
	if r.err != nil {
		return r.err
	}
	if out != nil && r.response != "" {
		return json.Unmarshal([]byte(r.response), out)
	}
	return nil
}

// WithoutAuth is the only option the services pass.
func skipsAuth(opts []apiclient.RequestOption) bool {
	return len(opts) > 0
}

func (r *recordingRequester) Get(ctx context.Context, path string, query url.Values, out any, opts ...apiclient.RequestOption) error {
	return r.record("GET", path, query, nil, out, opts)
}

func (r *recordingRequester) Post(ctx context.Context, path string, body, out any, opts ...apiclient.RequestOption) error {
	return r.record("POST", path, nil, body, out, opts)
}

func (r *recordingRequester) Put(ctx context.Context, path string, body, out any, opts ...apiclient.RequestOption) error {
	return r.record("PUT", path, nil, body, out, opts)
}

func (r *recordingRequester) Patch(ctx context.Context, path string, body, out any, opts ...apiclient.RequestOption) error {
	return r.record("PATCH", path, nil, body, out, opts)
}

func (r *recordingRequester) Delete(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error {
	return r.record("DELETE", path, nil, nil, out, opts)
}

func (r *recordingRequester) last(t *testing.T) recordedCall {
	t.Helper()
	require.NotEmpty(t, r.calls)
	return r.calls[len(r.calls)-1]
}

func TestEndpointMapping(t *testing.T) {
	ctx := context.Background()
	day := domain.NewDate(2024, 3, 11)

	cases := []struct {
		name   string
		call   func(s *Services) error
		method string
		path   string
		query  string
	}{
		{"teachers list", func(s *Services) error {
			_, err := s.Teachers.List(ctx, domain.TeacherFilter{Specialty: "Informatique"})
			return err
		}, "GET", "/enseignants", "specialite=Informatique"},
		{"teacher get", func(s *Services) error { _, err := s.Teachers.Get(ctx, 7); return err }, "GET", "/enseignants/7", ""},
		{"teacher update", func(s *Services) error {
			_, err := s.Teachers.Update(ctx, domain.UpdateTeacherRequest{ID: 7, Phone: "01"})
			return err
		}, "PUT", "/enseignants/7", ""},
		{"teacher delete", func(s *Services) error { return s.Teachers.Delete(ctx, 7) }, "DELETE", "/enseignants/7", ""},
		{"formation stats", func(s *Services) error { _, err := s.Formations.Stats(ctx); return err }, "GET", "/formations/stats", ""},
		{"formations by responsable", func(s *Services) error {
			_, err := s.Formations.ByResponsable(ctx, 1)
			return err
		}, "GET", "/formations/responsable/1", ""},
		{"room escaped code", func(s *Services) error { _, err := s.Rooms.Get(ctx, "A 101/B"); return err }, "GET", "/salles/A%20101%2FB", ""},
		{"room reservations", func(s *Services) error { _, err := s.Rooms.Reservations(ctx, "S001"); return err }, "GET", "/salles/S001/reservations", ""},
		{"rooms available", func(s *Services) error {
			_, err := s.Rooms.Available(ctx, domain.RoomAvailabilityQuery{Day: day, Start: domain.MustClockTime("08:00"), End: domain.MustClockTime("10:00")})
			return err
		}, "GET", "/salles/disponibles", "date=2024-03-11&heureDebut=08%3A00&heureFin=10%3A00"},
		{"computers", func(s *Services) error { _, err := s.Equipment.Computers(ctx); return err }, "GET", "/materiel/ordinateurs", ""},
		{"projectors", func(s *Services) error { _, err := s.Equipment.Projectors(ctx); return err }, "GET", "/materiel/video-projecteurs", ""},
		{"equipment available", func(s *Services) error {
			_, err := s.Equipment.Available(ctx, domain.EquipmentAvailabilityQuery{From: day, To: day.AddDays(1)})
			return err
		}, "GET", "/materiel/disponibles", "dateDebut=2024-03-11&dateFin=2024-03-12"},
		{"reservations by teacher", func(s *Services) error { _, err := s.Reservations.ByTeacher(ctx, 2); return err }, "GET", "/reservations/enseignant/2", ""},
		{"reservations by formation", func(s *Services) error { _, err := s.Reservations.ByFormation(ctx, 4); return err }, "GET", "/reservations/formation/4", ""},
		{"confirm", func(s *Services) error { return s.Reservations.Confirm(ctx, 12) }, "PATCH", "/reservations/12/confirmer", ""},
		{"cancel", func(s *Services) error { return s.Reservations.Cancel(ctx, 12) }, "PATCH", "/reservations/12/annuler", ""},
		{"dashboard stats", func(s *Services) error { _, err := s.Dashboard.Stats(ctx); return err }, "GET", "/dashboard/stats", ""},
		{"responsable dashboard", func(s *Services) error { _, err := s.Dashboard.Responsable(ctx, 1); return err }, "GET", "/dashboard/responsable/1", ""},
		{"teacher dashboard", func(s *Services) error { _, err := s.Dashboard.Teacher(ctx, 2); return err }, "GET", "/dashboard/enseignant/2", ""},
		{"me", func(s *Services) error { _, err := s.Auth.Me(ctx); return err }, "GET", "/auth/me", ""},
		{"logout", func(s *Services) error { return s.Auth.Logout(ctx) }, "POST", "/auth/logout", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requester := &recordingRequester{}
			require.NoError(t, tc.call(New(requester)))

			call := requester.last(t)
			assert.Equal(t, tc.method, call.Method)
			assert.Equal(t, tc.path, call.Path)
			assert.Equal(t, tc.query, domain.CanonicalQuery(call.Query))
		})
	}
}

func TestLoginSkipsBearer(t *testing.T) {
	requester := &recordingRequester{response: `{"token":"abc","enseignant":{"idEnseignant":2,"nomEnseignant":"Dubois"}}`}
	resp, err := NewAuthService(requester).Login(context.Background(), domain.LoginRequest{Email: "a@univ.fr", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, "abc", resp.Token)
	require.NotNil(t, resp.Teacher)
	assert.EqualValues(t, 2, resp.Teacher.ID)
	assert.True(t, requester.last(t).SkipAuth)
}

func TestInvalidFilterStopsBeforeRequest(t *testing.T) {
	requester := &recordingRequester{}
	_, err := NewReservationService(requester).List(context.Background(), domain.ReservationFilter{Status: "UNKNOWN"})

	var filterErr *domain.InvalidFilterError
	require.True(t, errors.As(err, &filterErr))
	assert.Empty(t, requester.calls)
}

func TestErrorsPropagate(t *testing.T) {
	backendErr := &apiclient.RequestError{Status: 409, Message: "conflit"}
	requester := &recordingRequester{err: backendErr}

	_, err := NewReservationService(requester).Create(context.Background(), domain.CreateReservationRequest{Motive: "Cours"})
	assert.ErrorIs(t, err, backendErr)
}

func TestListDecodesRooms(t *testing.T) {
	requester := &recordingRequester{response: `[{"codeSalle":"S001","capacite":30,"disponibilite":true,"equipements":"Projecteur"}]`}
	rooms, err := NewRoomService(requester).List(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "S001", rooms[0].Code)
	assert.True(t, rooms[0].Available)
}
