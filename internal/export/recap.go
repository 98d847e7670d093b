// Package export writes the recap horaire and the weekly planning as
// downloadable documents.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/views"
)

var (
	shortWeekdays = [...]string{"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."}
	shortMonths   = [...]string{"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."}
)

// FormatDay renders a date the way the dashboard shows it, e.g. "mer. 12 mars".
func FormatDay(d domain.Date) string {
	t := d.Time()
	return fmt.Sprintf("%s %02d %s", shortWeekdays[t.Weekday()], t.Day(), shortMonths[t.Month()-1])
}

// RecapDocument is the exported recap horaire.
type RecapDocument struct {
	User         string         `json:"utilisateur"`
	Week         string         `json:"semaine"`
	TotalHours   float64        `json:"totalHeures"`
	HoursPerDay  views.DayHours `json:"heuresParJour"`
	Courses      []views.Course `json:"cours"`
	Reservations int            `json:"reservations"`
}

// NewRecapDocument flattens recap for user.
func NewRecapDocument(user domain.User, recap views.Recap) RecapDocument {
	courses := recap.Courses
	if courses == nil {
		courses = []views.Course{}
	}
	return RecapDocument{
		User:         strings.TrimSpace(user.FirstName + " " + user.LastName),
		Week:         FormatDay(recap.Week.Start) + " - " + FormatDay(recap.Week.End),
		TotalHours:   recap.TotalHours,
		HoursPerDay:  recap.HoursPerDay,
		Courses:      courses,
		Reservations: len(recap.Reservations),
	}
}

// RecapFileName returns "recap-horaire-<prénom>-<nom>-semaine-<n>.<ext>".
func RecapFileName(user domain.User, recap views.Recap, ext string) string {
	return fmt.Sprintf("recap-horaire-%s-%s-semaine-%d.%s",
		user.FirstName, user.LastName, recap.Week.Number, strings.TrimPrefix(ext, "."))
}

// WriteRecapJSON writes the recap as an indented JSON document.
func WriteRecapJSON(w io.Writer, user domain.User, recap views.Recap) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewRecapDocument(user, recap)); err != nil {
		return errors.Wrap(err, "encode recap")
	}
	return nil
}

const recapSheet = "Récap horaire"

// WriteRecapXLSX writes a workbook with a summary block, the hours per day
// and the course list.
func WriteRecapXLSX(w io.Writer, user domain.User, recap views.Recap) error {
	doc := NewRecapDocument(user, recap)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recapSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create style")
	}

	rows := [][]interface{}{
		{"Utilisateur", doc.User},
		{"Semaine", fmt.Sprintf("%s (%s)", recap.Week.Label, doc.Week)},
		{"Total heures", doc.TotalHours},
		{"Réservations", doc.Reservations},
		{},
		{"Jour", "Heures"},
	}
	for _, day := range domain.TeachingDays {
		rows = append(rows, []interface{}{string(day), doc.HoursPerDay[day]})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Cours", "Heures", "Salle"})
	courseHeader := len(rows)
	for _, c := range doc.Courses {
		rows = append(rows, []interface{}{c.Name, c.Hours, c.Room})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(recapSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+1)
		}
	}

	for _, span := range [][2]string{{"A1", "A4"}, {"A6", "B6"}, {fmt.Sprintf("A%d", courseHeader), fmt.Sprintf("C%d", courseHeader)}} {
		if err := f.SetCellStyle(recapSheet, span[0], span[1], bold); err != nil {
			return errors.Wrap(err, "apply style")
		}
	}
	if err := f.SetColWidth(recapSheet, "A", "C", 24); err != nil {
		return errors.Wrap(err, "set column width")
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}
