package application

import (
	"context"
	"fmt"

	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/recurrence"
	"github.com/example/resama/internal/scheduler"
)

// BookingResult is the created reservation plus the overlaps seen before submission.
type BookingResult struct {
	Reservation domain.Reservation
	Conflicts   []scheduler.Conflict
}

// BookRoom submits a room reservation. Overlaps with known reservations are
// reported in the result but never block the submission.
func (q *Queries) BookRoom(ctx context.Context, req domain.CreateReservationRequest) (BookingResult, error) {
	req.EquipmentCode = ""
	return q.book(ctx, "BookRoom", req)
}

// BookEquipment submits an equipment loan.
func (q *Queries) BookEquipment(ctx context.Context, req domain.CreateReservationRequest) (BookingResult, error) {
	req.RoomCode = ""
	req.Participants = max(req.Participants, 1)
	return q.book(ctx, "BookEquipment", req)
}

func (q *Queries) book(ctx context.Context, operation string, req domain.CreateReservationRequest) (BookingResult, error) {
	if user, err := q.session.RequireUser(); err == nil && req.TeacherID == 0 {
		req.TeacherID = user.PersonID
	}

	conflicts := q.advisoryConflicts(ctx, operation, req)

	created, err := q.CreateReservation(ctx, req)
	if err != nil {
		return BookingResult{Conflicts: conflicts}, err
	}
	return BookingResult{Reservation: created, Conflicts: conflicts}, nil
}

// advisoryConflicts reads the reservations of the requested day. A failed read
// only costs the warnings.
func (q *Queries) advisoryConflicts(ctx context.Context, operation string, req domain.CreateReservationRequest) []scheduler.Conflict {
	if req.Day.IsZero() || req.Start.IsZero() || req.End.IsZero() || !req.Start.Before(req.End) {
		return nil
	}
	if _, err := q.session.RequireUser(); err != nil {
		return nil
	}

	logger := q.loggerWith(ctx, operation, "day", req.Day.String())
	existing, err := q.Reservations(ctx, domain.ReservationFilter{From: req.Day, To: req.Day})
	if err != nil {
		logger.WarnContext(ctx, "overlap check skipped", "error", err, "error_kind", ErrorKind(err))
		return nil
	}

	bookings := make([]scheduler.Booking, 0, len(existing))
	for _, r := range existing {
		bookings = append(bookings, scheduler.FromReservation(r))
	}
	conflicts := scheduler.DetectConflicts(bookings, scheduler.FromRequest(req))
	if len(conflicts) > 0 {
		logger.WarnContext(ctx, "booking overlaps known reservations", "conflicts", len(conflicts))
		q.notifier.Notify(ctx, Notification{
			Level:   LevelWarning,
			Title:   "Conflit possible",
			Message: "Ce créneau chevauche une réservation existante",
		})
	}
	return conflicts
}

// BookSeries books every occurrence of rule with the slot of req, starting on
// req.Day. It stops at the first failed submission and returns the bookings
// made so far with the error.
func (q *Queries) BookSeries(ctx context.Context, req domain.CreateReservationRequest, rule recurrence.Rule) ([]BookingResult, error) {
	operation := "BookRoomSeries"
	if req.RoomCode == "" && req.EquipmentCode != "" {
		operation = "BookEquipmentSeries"
	} else {
		req.EquipmentCode = ""
	}

	rule.StartsOn = req.Day
	occurrences, err := recurrence.NewEngine(0).Expand(rule, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("série de réservations: %w", err)
	}

	logger := q.loggerWith(ctx, operation, "occurrences", len(occurrences))
	results := make([]BookingResult, 0, len(occurrences))
	for _, occ := range occurrences {
		next := req
		next.Day = occ.Day
		result, err := q.book(ctx, operation, next)
		if err != nil {
			logger.WarnContext(ctx, "series interrupted", "day", occ.Day.String(), "booked", len(results), "error", err, "error_kind", ErrorKind(err))
			return results, err
		}
		results = append(results, result)
	}
	logger.InfoContext(ctx, "series booked")
	return results, nil
}
