package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/views"
)

// Planning builds the occupancy grid of week. roomCode narrows it to one
// room; an unknown code yields ErrNotFound.
func (q *Queries) Planning(ctx context.Context, week views.Week, roomCode string) (views.WeekGrid, error) {
	rooms, err := q.Rooms(ctx)
	if err != nil {
		return views.WeekGrid{}, err
	}
	selected, ok := views.SelectRoom(rooms, roomCode)
	if !ok {
		return views.WeekGrid{}, fmt.Errorf("salle %s: %w", roomCode, ErrNotFound)
	}
	reservations, err := q.Reservations(ctx, domain.ReservationFilter{From: week.Start, To: week.End})
	if err != nil {
		return views.WeekGrid{}, err
	}
	return views.BuildWeekGrid(week, selected, reservations, views.DefaultTimetable()), nil
}

// Overview is the recap horaire page state of the signed-in teacher.
type Overview struct {
	User   domain.User       `json:"utilisateur"`
	Recap  views.Recap       `json:"recap"`
	Global views.GlobalStats `json:"stats"`
}

// Overview aggregates the signed-in teacher's reservations for week. today
// drives the "reservations today" figure.
func (q *Queries) Overview(ctx context.Context, week views.Week, today time.Time) (Overview, error) {
	user, err := q.session.RequireUser()
	if err != nil {
		return Overview{}, err
	}
	reservations, err := q.ReservationsByTeacher(ctx, user.PersonID)
	if err != nil {
		return Overview{}, err
	}
	formations, err := q.Formations(ctx, domain.FormationFilter{})
	if err != nil {
		return Overview{}, err
	}

	recap := views.BuildRecap(user.PersonID, week, reservations, formations)
	return Overview{
		User:   user,
		Recap:  recap,
		Global: views.BuildGlobalStats(user.PersonID, domain.DateOf(today), reservations, recap),
	}, nil
}
