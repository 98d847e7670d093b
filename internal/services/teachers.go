package services

import (
	"context"

	"github.com/example/resama/internal/domain"
)

type TeacherService struct {
	client Requester
}

func NewTeacherService(client Requester) *TeacherService {
	return &TeacherService{client: client}
}

func (s *TeacherService) List(ctx context.Context, filter domain.TeacherFilter) ([]domain.Teacher, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var teachers []domain.Teacher
	err := s.client.Get(ctx, "/enseignants", filter.Values(), &teachers)
	return teachers, err
}

func (s *TeacherService) Get(ctx context.Context, id int64) (domain.TeacherDetail, error) {
	var teacher domain.TeacherDetail
	err := s.client.Get(ctx, resourcePath("enseignants", idSegment(id)), nil, &teacher)
	return teacher, err
}

func (s *TeacherService) Create(ctx context.Context, req domain.CreateTeacherRequest) (domain.TeacherDetail, error) {
	var teacher domain.TeacherDetail
	err := s.client.Post(ctx, "/enseignants", req, &teacher)
	return teacher, err
}

func (s *TeacherService) Update(ctx context.Context, req domain.UpdateTeacherRequest) (domain.TeacherDetail, error) {
	var teacher domain.TeacherDetail
	err := s.client.Put(ctx, resourcePath("enseignants", idSegment(req.ID)), req, &teacher)
	return teacher, err
}

func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, resourcePath("enseignants", idSegment(id)), nil)
}
