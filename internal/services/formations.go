package services

import (
	"context"

	"github.com/example/resama/internal/domain"
)

type FormationService struct {
	client Requester
}

func NewFormationService(client Requester) *FormationService {
	return &FormationService{client: client}
}

func (s *FormationService) List(ctx context.Context, filter domain.FormationFilter) ([]domain.Formation, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var formations []domain.Formation
	err := s.client.Get(ctx, "/formations", filter.Values(), &formations)
	return formations, err
}

func (s *FormationService) Get(ctx context.Context, id int64) (domain.FormationDetail, error) {
	var formation domain.FormationDetail
	err := s.client.Get(ctx, resourcePath("formations", idSegment(id)), nil, &formation)
	return formation, err
}

func (s *FormationService) Create(ctx context.Context, req domain.CreateFormationRequest) (domain.FormationDetail, error) {
	var formation domain.FormationDetail
	err := s.client.Post(ctx, "/formations", req, &formation)
	return formation, err
}

func (s *FormationService) Update(ctx context.Context, req domain.UpdateFormationRequest) (domain.FormationDetail, error) {
	var formation domain.FormationDetail
	err := s.client.Put(ctx, resourcePath("formations", idSegment(req.ID)), req, &formation)
	return formation, err
}

func (s *FormationService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, resourcePath("formations", idSegment(id)), nil)
}

func (s *FormationService) Stats(ctx context.Context) (domain.FormationStats, error) {
	var stats domain.FormationStats
	err := s.client.Get(ctx, "/formations/stats", nil, &stats)
	return stats, err
}

func (s *FormationService) ByResponsable(ctx context.Context, responsableID int64) ([]domain.Formation, error) {
	var formations []domain.Formation
	err := s.client.Get(ctx, resourcePath("formations", "responsable", idSegment(responsableID)), nil, &formations)
	return formations, err
}
