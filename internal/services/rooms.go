package services

import (
	"context"

	"github.com/example/resama/internal/domain"
)

type RoomService struct {
	client Requester
}

func NewRoomService(client Requester) *RoomService {
	return &RoomService{client: client}
}

func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := s.client.Get(ctx, "/salles", nil, &rooms)
	return rooms, err
}

func (s *RoomService) Get(ctx context.Context, code string) (domain.RoomDetail, error) {
	var room domain.RoomDetail
	err := s.client.Get(ctx, resourcePath("salles", code), nil, &room)
	return room, err
}

func (s *RoomService) Create(ctx context.Context, req domain.CreateRoomRequest) (domain.RoomDetail, error) {
	var room domain.RoomDetail
	err := s.client.Post(ctx, "/salles", req, &room)
	return room, err
}

func (s *RoomService) Update(ctx context.Context, req domain.UpdateRoomRequest) (domain.RoomDetail, error) {
	var room domain.RoomDetail
	err := s.client.Put(ctx, resourcePath("salles", req.Code), req, &room)
	return room, err
}

func (s *RoomService) Delete(ctx context.Context, code string) error {
	return s.client.Delete(ctx, resourcePath("salles", code), nil)
}

// Available lists rooms free on q.Day between q.Start and q.End.
func (s *RoomService) Available(ctx context.Context, q domain.RoomAvailabilityQuery) ([]domain.Room, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var rooms []domain.Room
	err := s.client.Get(ctx, "/salles/disponibles", q.Values(), &rooms)
	return rooms, err
}

func (s *RoomService) Reservations(ctx context.Context, code string) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := s.client.Get(ctx, resourcePath("salles", code, "reservations"), nil, &reservations)
	return reservations, err
}
