package services

import (
	"context"

	"github.com/example/resama/internal/domain"
)

type ReservationService struct {
	client Requester
}

func NewReservationService(client Requester) *ReservationService {
	return &ReservationService{client: client}
}

func (s *ReservationService) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var reservations []domain.Reservation
	err := s.client.Get(ctx, "/reservations", filter.Values(), &reservations)
	return reservations, err
}

func (s *ReservationService) Get(ctx context.Context, number int64) (domain.Reservation, error) {
	var reservation domain.Reservation
	err := s.client.Get(ctx, resourcePath("reservations", idSegment(number)), nil, &reservation)
	return reservation, err
}

func (s *ReservationService) ByTeacher(ctx context.Context, teacherID int64) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := s.client.Get(ctx, resourcePath("reservations", "enseignant", idSegment(teacherID)), nil, &reservations)
	return reservations, err
}

func (s *ReservationService) ByFormation(ctx context.Context, formationID int64) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := s.client.Get(ctx, resourcePath("reservations", "formation", idSegment(formationID)), nil, &reservations)
	return reservations, err
}

func (s *ReservationService) Create(ctx context.Context, req domain.CreateReservationRequest) (domain.Reservation, error) {
	var reservation domain.Reservation
	err := s.client.Post(ctx, "/reservations", req, &reservation)
	return reservation, err
}

func (s *ReservationService) Update(ctx context.Context, req domain.UpdateReservationRequest) (domain.Reservation, error) {
	var reservation domain.Reservation
	err := s.client.Put(ctx, resourcePath("reservations", idSegment(req.Number)), req, &reservation)
	return reservation, err
}

func (s *ReservationService) Delete(ctx context.Context, number int64) error {
	return s.client.Delete(ctx, resourcePath("reservations", idSegment(number)), nil)
}

// Confirm requests the CONFIRMEE transition; the backend decides.
func (s *ReservationService) Confirm(ctx context.Context, number int64) error {
	return s.client.Patch(ctx, resourcePath("reservations", idSegment(number), "confirmer"), struct{}{}, nil)
}

// Cancel requests the ANNULEE transition.
func (s *ReservationService) Cancel(ctx context.Context, number int64) error {
	return s.client.Patch(ctx, resourcePath("reservations", idSegment(number), "annuler"), struct{}{}, nil)
}
