package export

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/resama/internal/views"
)

// PlanningFileName returns "planning-semaine-<n>.xlsx".
func PlanningFileName(grid views.WeekGrid) string {
	return fmt.Sprintf("planning-semaine-%d.xlsx", grid.Week.Number)
}

// WritePlanningXLSX writes one sheet per teaching day. Rows are créneaux,
// columns are rooms; an occupied cell holds the motive and the teacher.
func WritePlanningXLSX(w io.Writer, grid views.WeekGrid) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create style")
	}
	busy, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FDE2E1"}},
	})
	if err != nil {
		return errors.Wrap(err, "create style")
	}

	for i, day := range grid.Days {
		sheet := fmt.Sprintf("%s %s", day.Day, day.Date.Time().Format("02-01"))
		if i == 0 {
			err = f.SetSheetName("Sheet1", sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return errors.Wrapf(err, "create sheet %s", sheet)
		}

		header := []interface{}{"Créneau"}
		for _, room := range grid.Rooms {
			header = append(header, room.Code)
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return errors.Wrap(err, "write header")
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return errors.Wrap(err, "apply style")
		}

		for r, row := range day.Slots {
			line := []interface{}{fmt.Sprintf("%s-%s", row.Slot.Start, row.Slot.End)}
			for _, cell := range row.Cells {
				if cell.Occupied && cell.Booking != nil {
					line = append(line, fmt.Sprintf("%s (%s)", cell.Booking.Motive, cell.Booking.Teacher))
				} else {
					line = append(line, "")
				}
			}
			start, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(sheet, start, &line); err != nil {
				return errors.Wrapf(err, "write row %d", r+2)
			}
			for c, cell := range row.Cells {
				if !cell.Occupied {
					continue
				}
				name, _ := excelize.CoordinatesToCellName(c+2, r+2)
				if err := f.SetCellStyle(sheet, name, name, busy); err != nil {
					return errors.Wrap(err, "apply style")
				}
			}
		}
		if err := f.SetColWidth(sheet, "A", "A", 14); err != nil {
			return errors.Wrap(err, "set column width")
		}
	}

	summary := "Occupation"
	if _, err := f.NewSheet(summary); err != nil {
		return errors.Wrap(err, "create summary sheet")
	}
	stats := [][]interface{}{
		{"Semaine", grid.Week.Label},
		{"Créneaux", grid.Stats.Total},
		{"Occupés", grid.Stats.Occupied},
		{"Libres", grid.Stats.Free},
		{"Taux d'occupation (%)", grid.Stats.OccupancyRate},
	}
	for i, row := range stats {
		if err := f.SetSheetRow(summary, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return errors.Wrap(err, "write summary")
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}
