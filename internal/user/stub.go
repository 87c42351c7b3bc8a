package user

import (
	"context"
	"errors"
)

// UserService is implemented by Service and consumed by the auth package.
type UserService interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUser(ctx context.Context, userID string) (*User, error)
}

type StubService struct {
	FindByEmailFunc func(ctx context.Context, email string) (*User, error)
	FindFunc        func(ctx context.Context, userID string) (*User, error)
}

var _ UserService = &StubService{}

func (s *StubService) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	if s.FindByEmailFunc == nil {
		return nil, errors.New("FindUserByEmail() not implemented by stub")
	}
	return s.FindByEmailFunc(ctx, email)
}

func (s *StubService) FindUser(ctx context.Context, userID string) (*User, error) {
	if s.FindFunc == nil {
		return nil, errors.New("FindUser() not implemented by stub")
	}
	return s.FindFunc(ctx, userID)
}

type StubRepo struct {
	FindByEmailFunc func(ctx context.Context, email string) (*User, error)
	FindFunc        func(ctx context.Context, userID string) (*User, error)
}

var _ UserRepository = &StubRepo{}

func (r *StubRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if r.FindByEmailFunc == nil {
		return nil, errors.New("FindByEmail() not implemented by stub")
	}
	return r.FindByEmailFunc(ctx, email)
}

func (r *StubRepo) Find(ctx context.Context, userID string) (*User, error) {
	if r.FindFunc == nil {
		return nil, errors.New("Find() not implemented by stub")
	}
	return r.FindFunc(ctx, userID)
}
