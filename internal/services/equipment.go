package services

import (
	"context"

	"github.com/example/resama/internal/domain"
)

type EquipmentService struct {
	client Requester
}

func NewEquipmentService(client Requester) *EquipmentService {
	return &EquipmentService{client: client}
}

func (s *EquipmentService) List(ctx context.Context) ([]domain.Equipment, error) {
	return s.list(ctx, "/materiel")
}

func (s *EquipmentService) Computers(ctx context.Context) ([]domain.Equipment, error) {
	return s.list(ctx, "/materiel/ordinateurs")
}

func (s *EquipmentService) Projectors(ctx context.Context) ([]domain.Equipment, error) {
	return s.list(ctx, "/materiel/video-projecteurs")
}

func (s *EquipmentService) list(ctx context.Context, path string) ([]domain.Equipment, error) {
	var items []domain.Equipment
	err := s.client.Get(ctx, path, nil, &items)
	return items, err
}

func (s *EquipmentService) Get(ctx context.Context, code string) (domain.EquipmentDetail, error) {
	var item domain.EquipmentDetail
	err := s.client.Get(ctx, resourcePath("materiel", code), nil, &item)
	return item, err
}

func (s *EquipmentService) Create(ctx context.Context, req domain.CreateEquipmentRequest) (domain.Equipment, error) {
	var item domain.Equipment
	err := s.client.Post(ctx, "/materiel", req, &item)
	return item, err
}

func (s *EquipmentService) Update(ctx context.Context, req domain.UpdateEquipmentRequest) (domain.Equipment, error) {
	var item domain.Equipment
	err := s.client.Put(ctx, resourcePath("materiel", req.Code), req, &item)
	return item, err
}

func (s *EquipmentService) Delete(ctx context.Context, code string) error {
	return s.client.Delete(ctx, resourcePath("materiel", code), nil)
}

// Available lists equipment free between q.From and q.To.
func (s *EquipmentService) Available(ctx context.Context, q domain.EquipmentAvailabilityQuery) ([]domain.Equipment, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var items []domain.Equipment
	err := s.client.Get(ctx, "/materiel/disponibles", q.Values(), &items)
	return items, err
}
