package export_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/export"
	"github.com/example/resama/internal/testfixtures"
	"github.com/example/resama/internal/views"
)

func sampleRecap(t *testing.T) (domain.User, views.Recap) {
	t.Helper()
	user := testfixtures.TeacherUser()
	monday := testfixtures.ReferenceMonday()
	room := testfixtures.NewRoom(testfixtures.WithRoomName("Amphi B"))
	reservations := []domain.Reservation{
		testfixtures.NewReservation(testfixtures.OnDay(monday), testfixtures.WithMotive("Analyse"), testfixtures.InRoom(room)),
		testfixtures.NewReservation(testfixtures.OnDay(monday.AddDays(2)), testfixtures.Between("13:30", "17:30"), testfixtures.WithMotive("Algèbre")),
	}
	week := views.GenerateWeeks(testfixtures.ReferenceTime(), 1)[0]
	return user, views.BuildRecap(user.PersonID, week, reservations, nil)
}

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "lun. 10 mars", export.FormatDay(domain.NewDate(2025, 3, 10)))
	assert.Equal(t, "ven. 01 août", export.FormatDay(domain.NewDate(2025, 8, 1)))
}

func TestRecapFileName(t *testing.T) {
	user, recap := sampleRecap(t)
	assert.Equal(t, "recap-horaire-Marie-Dubois-semaine-11.json", export.RecapFileName(user, recap, "json"))
	assert.Equal(t, "recap-horaire-Marie-Dubois-semaine-11.xlsx", export.RecapFileName(user, recap, ".xlsx"))
}

func TestWriteRecapJSON(t *testing.T) {
	user, recap := sampleRecap(t)

	var buf bytes.Buffer
	require.NoError(t, export.WriteRecapJSON(&buf, user, recap))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Marie Dubois", doc["utilisateur"])
	assert.Equal(t, "lun. 10 mars - ven. 14 mars", doc["semaine"])
	assert.Equal(t, 6.0, doc["totalHeures"])
	assert.Equal(t, 2.0, doc["reservations"])
	assert.Equal(t, map[string]any{
		"LUNDI": 2.0, "MARDI": 0.0, "MERCREDI": 4.0, "JEUDI": 0.0, "VENDREDI": 0.0,
	}, doc["heuresParJour"])

	courses, ok := doc["cours"].([]any)
	require.True(t, ok)
	require.Len(t, courses, 2)
	assert.Equal(t, map[string]any{"nom": "Analyse", "heures": 2.0, "salle": "Amphi B"}, courses[0])
}

func TestWriteRecapJSONEmptyRecap(t *testing.T) {
	week := views.GenerateWeeks(testfixtures.ReferenceTime(), 1)[0]

	var buf bytes.Buffer
	require.NoError(t, export.WriteRecapJSON(&buf, testfixtures.TeacherUser(), views.Recap{Week: week}))
	assert.Contains(t, buf.String(), `"cours": []`)
}

func TestWriteRecapXLSX(t *testing.T) {
	user, recap := sampleRecap(t)

	var buf bytes.Buffer
	require.NoError(t, export.WriteRecapXLSX(&buf, user, recap))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Récap horaire"}, f.GetSheetList())
	for cell, want := range map[string]string{
		"A1":  "Utilisateur",
		"B1":  "Marie Dubois",
		"B3":  "6",
		"B4":  "2",
		"A9":  "MERCREDI",
		"B9":  "4",
		"A13": "Cours",
		"A15": "Algèbre",
		"C15": "Salle non définie",
	} {
		got, err := f.GetCellValue("Récap horaire", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestWritePlanningXLSX(t *testing.T) {
	room := testfixtures.NewRoom(testfixtures.WithRoomCode("S001"))
	reservation := testfixtures.NewReservation(testfixtures.InRoom(room), testfixtures.WithMotive("Partiel"))
	week := views.GenerateWeeks(testfixtures.ReferenceTime(), 1)[0]
	grid := views.BuildWeekGrid(week, []domain.Room{room}, []domain.Reservation{reservation}, views.DefaultTimetable())

	var buf bytes.Buffer
	require.NoError(t, export.WritePlanningXLSX(&buf, grid))
	assert.Equal(t, "planning-semaine-11.xlsx", export.PlanningFileName(grid))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"LUNDI 10-03", "MARDI 11-03", "MERCREDI 12-03", "JEUDI 13-03", "VENDREDI 14-03", "Occupation",
	}, f.GetSheetList())

	value, err := f.GetCellValue("MERCREDI 12-03", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Partiel (Marie Dubois)", value)

	value, err = f.GetCellValue("MERCREDI 12-03", "A2")
	require.NoError(t, err)
	assert.Equal(t, "08:00-10:00", value)

	value, err = f.GetCellValue("LUNDI 10-03", "B2")
	require.NoError(t, err)
	assert.Empty(t, value)

	value, err = f.GetCellValue("Occupation", "B3")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}
