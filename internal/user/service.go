package user

import (
	"context"
)

// UserRepository is the interface for admin account lookups.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Find(ctx context.Context, userID string) (*User, error)
}

type Service struct {
	repo UserRepository
}

var _ UserService = &Service{}

func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *Service) FindUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.Find(ctx, userID)
}
