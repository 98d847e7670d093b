package application_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/resama/internal/apiclient"
	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/testfixtures"
)

type queriesHarness struct {
	backend *testfixtures.Backend
	clock   *testfixtures.Clock
	stack   *testfixtures.Stack
}

func newQueriesHarness(t *testing.T, email string) *queriesHarness {
	t.Helper()
	backend := testfixtures.NewBackend(t)
	clock := testfixtures.NewClock(time.Time{})
	stack := testfixtures.NewServiceFactory(testfixtures.WithClock(clock)).
		NewStack(t, testfixtures.StackDeps{BaseURL: backend.URL()})
	if email != "" {
		_, ok := stack.Session.Login(context.Background(), email, "secret")
		require.True(t, ok)
	}
	return &queriesHarness{backend: backend, clock: clock, stack: stack}
}

func TestReadsAreCachedWithinStaleWindow(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")
	h.backend.SetRooms(testfixtures.NewRoom())

	for range 3 {
		_, err := h.stack.Queries.Rooms(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, h.backend.Calls("GET /salles"))

	h.clock.Advance(9 * time.Minute)
	_, err := h.stack.Queries.Rooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, h.backend.Calls("GET /salles"), "rooms stay fresh for ten minutes")

	h.clock.Advance(2 * time.Minute)
	_, err = h.stack.Queries.Rooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.backend.Calls("GET /salles"))
}

func TestReservationsUseShortStaleWindow(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")

	_, err := h.stack.Queries.Reservations(ctx, domain.ReservationFilter{})
	require.NoError(t, err)
	h.clock.Advance(61 * time.Second)
	_, err = h.stack.Queries.Reservations(ctx, domain.ReservationFilter{})
	require.NoError(t, err)

	assert.Equal(t, 2, h.backend.Calls("GET /reservations"))
}

func TestInvalidFilterIsRejectedBeforeRequest(t *testing.T) {
	h := newQueriesHarness(t, "enseignant@univ.fr")
	day := testfixtures.ReferenceDay()

	_, err := h.stack.Queries.Reservations(context.Background(), domain.ReservationFilter{From: day, To: day.AddDays(-1)})

	var fErr *domain.InvalidFilterError
	require.ErrorAs(t, err, &fErr)
	assert.Zero(t, h.backend.Calls("GET /reservations"))
}

func TestReservationMutationInvalidatesCascade(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")
	room := testfixtures.NewRoom(testfixtures.WithRoomCode("B204"))
	h.backend.SetRooms(room)
	h.backend.SetReservations(testfixtures.NewReservation(testfixtures.WithNumber(7), testfixtures.InRoom(room)))

	_, err := h.stack.Queries.Rooms(ctx)
	require.NoError(t, err)
	_, err = h.stack.Queries.Reservations(ctx, domain.ReservationFilter{})
	require.NoError(t, err)
	_, err = h.stack.Queries.Teachers(ctx, domain.TeacherFilter{})
	require.NoError(t, err)

	require.NoError(t, h.stack.Queries.ConfirmReservation(ctx, 7))

	reservations, err := h.stack.Queries.Reservations(ctx, domain.ReservationFilter{})
	require.NoError(t, err)
	_, err = h.stack.Queries.Rooms(ctx)
	require.NoError(t, err)
	_, err = h.stack.Queries.Teachers(ctx, domain.TeacherFilter{})
	require.NoError(t, err)

	assert.Equal(t, 2, h.backend.Calls("GET /reservations"))
	assert.Equal(t, 2, h.backend.Calls("GET /salles"))
	assert.Equal(t, 1, h.backend.Calls("GET /enseignants"), "teachers are outside the reservation cascade")
	require.Len(t, reservations, 1)
	assert.Equal(t, domain.StatusConfirmed, reservations[0].Status)

	note, _ := h.stack.Notifier.Last()
	assert.Equal(t, application.Notification{Level: application.LevelSuccess, Title: "Réservation confirmée"}, note)
}

func TestFailedMutationKeepsCache(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")
	h.backend.Fail("PATCH /reservations/9/annuler", http.StatusConflict, "Réservation déjà passée")

	_, err := h.stack.Queries.Reservations(ctx, domain.ReservationFilter{})
	require.NoError(t, err)

	err = h.stack.Queries.CancelReservation(ctx, 9)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apiclient.StatusOf(err))

	_, err = h.stack.Queries.Reservations(ctx, domain.ReservationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, h.backend.Calls("GET /reservations"))

	note, _ := h.stack.Notifier.Last()
	assert.Equal(t, application.LevelError, note.Level)
	assert.Equal(t, "Réservation déjà passée", note.Message)
}

func TestTeacherWritesRequireResponsable(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")

	_, err := h.stack.Queries.CreateTeacher(ctx, domain.CreateTeacherRequest{
		LastName: "Durand", FirstName: "Paul", Email: "paul.durand@univ.fr",
	})
	assert.ErrorIs(t, err, application.ErrForbidden)
	assert.ErrorIs(t, h.stack.Queries.DeleteFormation(ctx, 3), application.ErrForbidden)
	assert.Zero(t, h.backend.Calls("POST /enseignants"))

	note, _ := h.stack.Notifier.Last()
	assert.Equal(t, "Action réservée aux responsables", note.Message)
}

func TestMutationsRequireSession(t *testing.T) {
	h := newQueriesHarness(t, "")

	err := h.stack.Queries.ConfirmReservation(context.Background(), 1)
	assert.ErrorIs(t, err, application.ErrNotAuthenticated)
}

func TestTeacherWriteInvalidatesFormationsAndDashboard(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "responsable@univ.fr")

	_, err := h.stack.Queries.Formations(ctx, domain.FormationFilter{})
	require.NoError(t, err)
	_, err = h.stack.Queries.DashboardStats(ctx)
	require.NoError(t, err)
	_, err = h.stack.Queries.Rooms(ctx)
	require.NoError(t, err)

	created, err := h.stack.Queries.CreateTeacher(ctx, domain.CreateTeacherRequest{
		LastName: "Durand", FirstName: "Paul", Email: "paul.durand@univ.fr",
	})
	require.NoError(t, err)
	assert.Equal(t, "Durand", created.LastName)

	_, err = h.stack.Queries.Formations(ctx, domain.FormationFilter{})
	require.NoError(t, err)
	_, err = h.stack.Queries.DashboardStats(ctx)
	require.NoError(t, err)
	_, err = h.stack.Queries.Rooms(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, h.backend.Calls("GET /formations"))
	assert.Equal(t, 2, h.backend.Calls("GET /dashboard/stats"))
	assert.Equal(t, 1, h.backend.Calls("GET /salles"))

	note, _ := h.stack.Notifier.Last()
	assert.Equal(t, "Enseignant créé avec succès", note.Title)
}

func TestValidationBlocksSubmission(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "responsable@univ.fr")

	_, err := h.stack.Queries.CreateTeacher(ctx, domain.CreateTeacherRequest{LastName: "Durand", Email: "pas-un-email"})

	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "prenomEnseignant")
	assert.Contains(t, vErr.FieldErrors, "email")
	assert.Zero(t, h.backend.Calls("POST /enseignants"))
}

func TestBookRoomChecksCapacityFromCache(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")
	h.backend.SetRooms(testfixtures.NewRoom(testfixtures.WithRoomCode("C12"), testfixtures.WithCapacity(10)))

	_, err := h.stack.Queries.Rooms(ctx)
	require.NoError(t, err)

	_, err = h.stack.Queries.BookRoom(ctx, domain.CreateReservationRequest{
		Day:          testfixtures.ReferenceDay(),
		Start:        domain.MustClockTime("10:15"),
		End:          domain.MustClockTime("12:15"),
		Motive:       "TD",
		Participants: 25,
		RoomCode:     "C12",
	})

	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "nombreParticipants")
	assert.Zero(t, h.backend.Calls("POST /reservations"))
}

func TestUpdateReservationChecksCapacityFromCache(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")
	h.backend.SetRooms(testfixtures.NewRoom(testfixtures.WithRoomCode("C12"), testfixtures.WithCapacity(10)))

	_, err := h.stack.Queries.Rooms(ctx)
	require.NoError(t, err)

	_, err = h.stack.Queries.UpdateReservation(ctx, domain.UpdateReservationRequest{
		Number:       42,
		Participants: 25,
		RoomCode:     "C12",
	})

	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Le nombre de participants dépasse la capacité de la salle", vErr.FieldErrors["nombreParticipants"])
	assert.Zero(t, h.backend.Calls("PUT /reservations/42"))
}

func TestBookRoomReportsAdvisoryConflicts(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")
	room := testfixtures.NewRoom(testfixtures.WithRoomCode("D01"))
	h.backend.SetRooms(room)
	h.backend.SetReservations(testfixtures.NewReservation(
		testfixtures.WithNumber(42),
		testfixtures.InRoom(room),
		testfixtures.ByTeacher(testfixtures.NewTeacher()),
		testfixtures.Between("10:00", "12:00"),
	))

	result, err := h.stack.Queries.BookRoom(ctx, domain.CreateReservationRequest{
		Day:          testfixtures.ReferenceDay(),
		Start:        domain.MustClockTime("11:00"),
		End:          domain.MustClockTime("13:00"),
		Motive:       "Soutenance",
		Participants: 5,
		RoomCode:     "D01",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Reservation.Teacher.ID, "teacher defaults to the signed-in person")
	assert.Equal(t, domain.StatusPending, result.Reservation.Status)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, int64(42), result.Conflicts[0].WithReservation)
	assert.Len(t, h.backend.Reservations(), 2)

	notes := h.stack.Notifier.Notifications()
	require.GreaterOrEqual(t, len(notes), 2)
	assert.Equal(t, application.LevelWarning, notes[len(notes)-2].Level)
	assert.Equal(t, "Réservation créée avec succès", notes[len(notes)-1].Title)
}

func TestBookEquipmentIgnoresRoom(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")
	h.backend.SetEquipment(testfixtures.NewProjector(testfixtures.WithEquipmentCode("VP01")))

	result, err := h.stack.Queries.BookEquipment(ctx, domain.CreateReservationRequest{
		Day:           testfixtures.ReferenceDay(),
		Start:         domain.MustClockTime("13:30"),
		End:           domain.MustClockTime("15:30"),
		Motive:        "Présentation",
		RoomCode:      "A101",
		EquipmentCode: "VP01",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Reservation.Equipment)
	assert.Equal(t, "VP01", result.Reservation.Equipment.Code)
	assert.Nil(t, result.Reservation.Room)
	assert.Empty(t, result.Conflicts)
}

func TestReadFailureReturnsPreviousValue(t *testing.T) {
	ctx := context.Background()
	h := newQueriesHarness(t, "enseignant@univ.fr")
	h.backend.SetRooms(testfixtures.NewRoom(testfixtures.WithRoomCode("E1")))

	_, err := h.stack.Queries.Rooms(ctx)
	require.NoError(t, err)

	h.clock.Advance(11 * time.Minute)
	h.backend.Fail("GET /salles", http.StatusServiceUnavailable, "maintenance")

	rooms, err := h.stack.Queries.Rooms(ctx)
	require.Error(t, err)
	assert.Equal(t, "maintenance", apiclient.MessageOf(err, ""))
	require.Len(t, rooms, 1)
	assert.Equal(t, "E1", rooms[0].Code)
}
