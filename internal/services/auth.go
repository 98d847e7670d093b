package services

import (
	"context"

	"github.com/example/resama/internal/apiclient"
	"github.com/example/resama/internal/domain"
)

type AuthService struct {
	client Requester
}

func NewAuthService(client Requester) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials. It never carries the current bearer token and a
// 401 here does not sign the current session out.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := s.client.Post(ctx, "/auth/login", req, &resp, apiclient.WithoutAuth())
	return resp, err
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.Post(ctx, "/auth/logout", struct{}{}, nil)
}

func (s *AuthService) Me(ctx context.Context) (domain.TeacherDetail, error) {
	var teacher domain.TeacherDetail
	err := s.client.Get(ctx, "/auth/me", nil, &teacher)
	return teacher, err
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.LoginResponse, error) {
	var resp domain.LoginResponse
	body := map[string]string{"refreshToken": refreshToken}
	err := s.client.Post(ctx, "/auth/refresh", body, &resp, apiclient.WithoutAuth())
	return resp, err
}
