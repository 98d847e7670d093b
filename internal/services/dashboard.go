package services

import (
	"context"

	"github.com/example/resama/internal/domain"
)

type DashboardService struct {
	client Requester
}

func NewDashboardService(client Requester) *DashboardService {
	return &DashboardService{client: client}
}

func (s *DashboardService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := s.client.Get(ctx, "/dashboard/stats", nil, &stats)
	return stats, err
}

func (s *DashboardService) Responsable(ctx context.Context, responsableID int64) (domain.ResponsableDashboard, error) {
	var board domain.ResponsableDashboard
	err := s.client.Get(ctx, resourcePath("dashboard", "responsable", idSegment(responsableID)), nil, &board)
	return board, err
}

func (s *DashboardService) Teacher(ctx context.Context, teacherID int64) (domain.TeacherDashboard, error) {
	var board domain.TeacherDashboard
	err := s.client.Get(ctx, resourcePath("dashboard", "enseignant", idSegment(teacherID)), nil, &board)
	return board, err
}
