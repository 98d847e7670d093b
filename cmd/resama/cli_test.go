package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/config"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/testfixtures"
)

type cliEnv struct {
	cli     *commandLine
	out     *bytes.Buffer
	backend *testfixtures.Backend
	stack   *testfixtures.Stack
}

func setup(t *testing.T) *cliEnv {
	t.Helper()
	backend := testfixtures.NewBackend(t)
	factory := testfixtures.NewServiceFactory()
	stack := factory.NewStack(t, testfixtures.StackDeps{BaseURL: backend.URL()})

	out := &bytes.Buffer{}
	return &cliEnv{
		cli: &commandLine{
			app: &app{
				cfg:     config.Config{PlanningWeeks: 4, WatchSchedule: "@every 1h"},
				logger:  testfixtures.DiscardLogger(),
				session: stack.Session,
				queries: stack.Queries,
				now:     factory.Clock.Now,
			},
			out: out,
		},
		out:     out,
		backend: backend,
		stack:   stack,
	}
}

func (e *cliEnv) login(t *testing.T, user domain.User) {
	t.Helper()
	if _, ok := e.stack.Session.Login(context.Background(), user.Email, "secret"); !ok {
		t.Fatalf("login %s failed", user.Email)
	}
}

func mockPassword(t *testing.T, password string) {
	t.Helper()
	previous := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { readPasswordFunc = previous })
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCases(t *testing.T, env *cliEnv, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.cli.run(context.Background(), append([]string{"resama"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
					t.Fatalf("run() error = %v, want %q", err, tt.wantErrStr)
				}
			case err != nil:
				t.Fatalf("run() unexpected error = %v", err)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	env := setup(t)

	runCases(t, env, []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login: no email", args: []string{"login"}, wantErr: errHelp},
		{name: "login: help flag", args: []string{"login", "-h"}, wantErr: errHelp},
		{name: "confirm: no number", args: []string{"confirm"}, wantErr: errHelp},
		{name: "reserve-room: no room", args: []string{"reserve-room", "-date", "2025-03-12"}, wantErr: errHelp},
		{name: "recap: unknown format", args: []string{"recap", "-export", "csv"}, wantErr: errUnknownFormat},
		{name: "planning: unknown week", args: []string{"planning", "-week", "semaine-9"}, wantErr: errUnknownWeek},
		{name: "whoami: anonymous", args: []string{"whoami"}, wantErr: application.ErrNotAuthenticated},
		{name: "equipment: unknown kind", args: []string{"equipment", "-kind", "tablette"}, wantErrStr: "type de matériel inconnu"},
		{name: "reservations: bad date", args: []string{"reservations", "-from", "12/03/2025"}, wantErrStr: "date de début invalide"},
	})

	if !strings.Contains(env.out.String(), "Usage:") {
		t.Fatalf("expected usage in output, got %q", env.out.String())
	}
}

func Test_commandLine_login(t *testing.T) {
	env := setup(t)

	mockPassword(t, "wrong")
	runCases(t, env, []cliTest{
		{name: "wrong password", args: []string{"login", "-email", "enseignant@univ.fr"}, wantErr: errLoginFailed},
	})

	mockPassword(t, "secret")
	runCases(t, env, []cliTest{
		{name: "valid credentials", args: []string{"login", "-email", " Enseignant@univ.fr "}},
		{name: "whoami", args: []string{"whoami"}},
	})

	out := env.out.String()
	for _, want := range []string{"Connecté en tant que Marie Dubois (ENSEIGNANT)", "Marie Dubois <enseignant@univ.fr>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}

	runCases(t, env, []cliTest{{name: "logout", args: []string{"logout"}}})
	if env.stack.Session.IsAuthenticated() {
		t.Fatal("expected session to be cleared")
	}
}

func Test_commandLine_listings(t *testing.T) {
	env := setup(t)
	env.login(t, testfixtures.ResponsableUser())

	env.backend.SetRooms(
		testfixtures.NewRoom(testfixtures.WithRoomCode("S001"), testfixtures.WithCapacity(30)),
		testfixtures.NewRoom(testfixtures.WithRoomCode("B1"), testfixtures.WithCapacity(200)),
	)
	env.backend.SetReservations(
		testfixtures.NewReservation(testfixtures.WithNumber(42), testfixtures.WithMotive("Algèbre")),
		testfixtures.NewReservation(testfixtures.WithNumber(43), testfixtures.WithMotive("Réunion"), testfixtures.WithStatus(domain.StatusCancelled)),
	)

	runCases(t, env, []cliTest{
		{name: "teachers", args: []string{"teachers", "-search", "dubois"}},
		{name: "rooms", args: []string{"rooms", "-min-capacity", "100"}},
		{name: "reservations", args: []string{"reservations", "-status", "CONFIRMEE"}},
	})

	out := env.out.String()
	for _, want := range []string{"Marie Dubois", "2 enseignant(s)", "B1", "Algèbre"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
	for _, unwanted := range []string{"Jean Martin", "S001", "Réunion"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("did not expect %q in output, got %q", unwanted, out)
		}
	}
}

func Test_commandLine_reserveAndConfirm(t *testing.T) {
	env := setup(t)
	env.login(t, testfixtures.TeacherUser())
	env.backend.SetRooms(testfixtures.NewRoom(testfixtures.WithRoomCode("S001")))
	env.backend.SetReservations(testfixtures.NewReservation(testfixtures.WithNumber(42), testfixtures.InRoom(testfixtures.NewRoom(testfixtures.WithRoomCode("S001")))))

	runCases(t, env, []cliTest{
		{name: "missing motive", args: []string{"reserve-room", "-room", "S001", "-date", "2025-03-12", "-start", "09:00", "-end", "11:00"}, wantErrStr: "validation failed"},
		{name: "bad time", args: []string{"reserve-room", "-room", "S001", "-date", "2025-03-12", "-start", "9h", "-end", "11:00", "-motive", "TD"}, wantErrStr: "heure de début invalide"},
		{name: "reserve", args: []string{"reserve-room", "-room", "S001", "-date", "2025-03-12", "-start", "09:00", "-end", "11:00", "-motive", "TD réseaux", "-participants", "12"}},
	})

	created := env.backend.Reservations()
	last := created[len(created)-1]
	if last.Motive != "TD réseaux" || last.Teacher.ID != testfixtures.TeacherUser().PersonID {
		t.Fatalf("unexpected reservation %+v", last)
	}

	out := env.out.String()
	if !strings.Contains(out, "Conflit possible : réservation n°42") {
		t.Fatalf("expected conflict warning, got %q", out)
	}

	runCases(t, env, []cliTest{
		{name: "confirm", args: []string{"confirm", "-n", "5001"}},
	})
	if !strings.Contains(env.out.String(), "Réservation n°5001 confirmée") {
		t.Fatalf("expected confirmation, got %q", env.out.String())
	}
}

func Test_commandLine_planningAndRecapExports(t *testing.T) {
	env := setup(t)
	env.login(t, testfixtures.TeacherUser())
	room := testfixtures.NewRoom(testfixtures.WithRoomCode("S001"))
	env.backend.SetRooms(room)
	env.backend.SetReservations(testfixtures.NewReservation(testfixtures.WithNumber(42), testfixtures.WithMotive("Algèbre"), testfixtures.InRoom(room)))
	dir := t.TempDir()

	runCases(t, env, []cliTest{
		{name: "weeks", args: []string{"weeks"}},
		{name: "planning", args: []string{"planning", "-room", "S001", "-export", "-dir", dir}},
		{name: "recap json", args: []string{"recap", "-export", "json", "-dir", dir}},
		{name: "recap xlsx", args: []string{"recap", "-week", "2025-03-12", "-export", "xlsx", "-dir", dir}},
	})

	for _, name := range []string{
		"planning-semaine-11.xlsx",
		"recap-horaire-Marie-Dubois-semaine-11.json",
		"recap-horaire-Marie-Dubois-semaine-11.xlsx",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected export %s: %v", name, err)
		}
	}

	out := env.out.String()
	for _, want := range []string{"semaine-3", "Semaine 11 (10/03/2025)", "S001", "Algèbre (Marie Dubois)", "Total : 2h sur 1 réservation(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
}

func TestDescribeError(t *testing.T) {
	err := &application.ValidationError{FieldErrors: map[string]string{
		"motif":    "Le motif est obligatoire",
		"heureFin": "L'heure de fin doit être après l'heure de début",
	}}
	got := describeError(err)
	want := "données invalides\n  heureFin : L'heure de fin doit être après l'heure de début\n  motif : Le motif est obligatoire"
	if got != want {
		t.Fatalf("describeError() = %q, want %q", got, want)
	}
	if got := describeError(errLoginFailed); got != errLoginFailed.Error() {
		t.Fatalf("describeError() = %q", got)
	}
}

func TestStaleWindows(t *testing.T) {
	cfg := config.Config{RoomsStaleWindow: 10 * time.Minute, ReservationsStaleWindow: 3 * time.Minute}
	got := staleWindows(cfg)
	if got.Rooms != 10*time.Minute {
		t.Fatalf("Rooms = %v, want 10m", got.Rooms)
	}
	if got.Reservations != 3*time.Minute || got.Availability != 3*time.Minute {
		t.Fatalf("Reservations = %v, Availability = %v, want 3m for both", got.Reservations, got.Availability)
	}
	if def := application.DefaultStaleWindows(); got.Teachers != def.Teachers {
		t.Fatalf("Teachers = %v, want default %v", got.Teachers, def.Teachers)
	}
}

func Test_commandLine_reserveSeries(t *testing.T) {
	env := setup(t)
	env.login(t, testfixtures.TeacherUser())

	base := []string{"reserve-room", "-room", "S001", "-date", "2025-03-12", "-start", "14:00", "-end", "16:00", "-motive", "TP"}
	runCases(t, env, []cliTest{
		{name: "unknown repetition", args: append(append([]string{}, base...), "-until", "2025-03-26", "-every", "monthly"), wantErrStr: "répétition \"monthly\""},
		{name: "weekly series", args: append(append([]string{}, base...), "-until", "2025-03-26")},
	})

	if got := len(env.backend.Reservations()); got != 3 {
		t.Fatalf("expected 3 reservations, got %d", got)
	}
	for _, day := range []string{"2025-03-12", "2025-03-19", "2025-03-26"} {
		if !strings.Contains(env.out.String(), "créée pour le "+day) {
			t.Fatalf("expected booking on %s, got %q", day, env.out.String())
		}
	}
}
