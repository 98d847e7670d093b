package views

import (
	"math"

	"github.com/example/resama/internal/domain"
)

// Booking is the summary shown in an occupied cell.
type Booking struct {
	Number  int64  `json:"numero"`
	Motive  string `json:"motif"`
	Teacher string `json:"enseignant"`
}

// Cell is one (room, date, créneau) position of the planning.
type Cell struct {
	RoomCode string   `json:"codeSalle"`
	Occupied bool     `json:"occupe"`
	Booking  *Booking `json:"reservation,omitempty"`
}

// SlotRow holds the cells of one créneau, one per room in room order.
type SlotRow struct {
	Slot  Slot   `json:"creneau"`
	Cells []Cell `json:"cellules"`
}

// GridDay is one column of the week planning.
type GridDay struct {
	Day   domain.Weekday `json:"jour"`
	Date  domain.Date    `json:"date"`
	Slots []SlotRow      `json:"creneaux"`
}

// GridStats summarises the occupancy of a grid. OccupancyRate is a whole percentage.
type GridStats struct {
	Total         int `json:"total"`
	Occupied      int `json:"occupes"`
	Free          int `json:"libres"`
	OccupancyRate int `json:"tauxOccupation"`
}

// WeekGrid is the occupancy planning of a set of rooms for one week.
type WeekGrid struct {
	Week  Week          `json:"semaine"`
	Rooms []domain.Room `json:"salles"`
	Days  []GridDay     `json:"jours"`
	Stats GridStats     `json:"stats"`
}

type occupancyKey struct {
	room  string
	day   string
	start int
}

// BuildWeekGrid marks a cell occupied when a CONFIRMEE reservation exists for
// the same room, date and start time. Pass a single room for a one-room
// planning (see SelectRoom).
func BuildWeekGrid(week Week, rooms []domain.Room, reservations []domain.Reservation, timetable []Slot) WeekGrid {
	booked := make(map[occupancyKey]domain.Reservation)
	for _, r := range reservations {
		if r.Status != domain.StatusConfirmed || r.Room == nil || !week.Contains(r.Day) {
			continue
		}
		key := occupancyKey{room: r.Room.Code, day: r.Day.String(), start: r.Start.Minutes()}
		if _, exists := booked[key]; !exists {
			booked[key] = r
		}
	}

	grid := WeekGrid{Week: week, Rooms: append([]domain.Room(nil), rooms...)}
	for i, day := range domain.TeachingDays {
		date := week.Start.AddDays(i)
		column := GridDay{Day: day, Date: date}
		for _, slot := range SlotsFor(timetable, day) {
			row := SlotRow{Slot: slot, Cells: make([]Cell, len(rooms))}
			for j, room := range rooms {
				cell := Cell{RoomCode: room.Code}
				if r, ok := booked[occupancyKey{room: room.Code, day: date.String(), start: slot.Start.Minutes()}]; ok {
					cell.Occupied = true
					cell.Booking = &Booking{Number: r.Number, Motive: r.Motive, Teacher: r.Teacher.FullName()}
					grid.Stats.Occupied++
				}
				grid.Stats.Total++
				row.Cells[j] = cell
			}
			column.Slots = append(column.Slots, row)
		}
		grid.Days = append(grid.Days, column)
	}

	grid.Stats.Free = grid.Stats.Total - grid.Stats.Occupied
	if grid.Stats.Total > 0 {
		grid.Stats.OccupancyRate = int(math.Round(float64(grid.Stats.Occupied) / float64(grid.Stats.Total) * 100))
	}
	return grid
}

// SelectRoom narrows rooms to the one with code. An empty code keeps them all.
func SelectRoom(rooms []domain.Room, code string) ([]domain.Room, bool) {
	if code == "" {
		return rooms, true
	}
	for _, r := range rooms {
		if r.Code == code {
			return []domain.Room{r}, true
		}
	}
	return nil, false
}

// CellAt returns the cell of room for the créneau slotID on date.
func (g WeekGrid) CellAt(roomCode string, date domain.Date, slotID string) (Cell, bool) {
	for _, day := range g.Days {
		if !day.Date.Equal(date) {
			continue
		}
		for _, row := range day.Slots {
			if row.Slot.ID != slotID {
				continue
			}
			for _, cell := range row.Cells {
				if cell.RoomCode == roomCode {
					return cell, true
				}
			}
		}
	}
	return Cell{}, false
}
