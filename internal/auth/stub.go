package auth

import (
	"context"
	"errors"
)

type StubService struct {
	LoginUserFunc    func(ctx context.Context, params LoginUserParams) (string, string, error)
	RefreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
}

var _ AuthService = &StubService{}

func (s *StubService) LoginUser(ctx context.Context, params LoginUserParams) (string, string, error) {
	if s.LoginUserFunc == nil {
		return "", "", errors.New("LoginUser() not implemented by stub")
	}
	return s.LoginUserFunc(ctx, params)
}

func (s *StubService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if s.RefreshTokenFunc == nil {
		return "", errors.New("RefreshToken() not implemented by stub")
	}
	return s.RefreshTokenFunc(ctx, refreshToken)
}
