package client

import (
	"context"
	"errors"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

type StubRepo struct {
	CreateFunc func(ctx context.Context, params CreateParams) (Client, error)
	FindFunc   func(ctx context.Context, clientID string) (*Client, error)
	ListFunc   func(ctx context.Context, opts web.ListOptions) ([]Client, int64, error)
	UpdateFunc func(ctx context.Context, params UpdateParams) (Client, error)
	DeleteFunc func(ctx context.Context, clientID string, version int64) error
}

var _ ClientRepository = &StubRepo{}

func (r *StubRepo) Create(ctx context.Context, params CreateParams) (Client, error) {
	if r.CreateFunc == nil {
		return Client{}, errors.New("Create() not implemented by stub")
	}
	return r.CreateFunc(ctx, params)
}

func (r *StubRepo) Find(ctx context.Context, clientID string) (*Client, error) {
	if r.FindFunc == nil {
		return nil, errors.New("Find() not implemented by stub")
	}
	return r.FindFunc(ctx, clientID)
}

func (r *StubRepo) List(ctx context.Context, opts web.ListOptions) ([]Client, int64, error) {
	if r.ListFunc == nil {
		return nil, 0, errors.New("List() not implemented by stub")
	}
	return r.ListFunc(ctx, opts)
}

func (r *StubRepo) Update(ctx context.Context, params UpdateParams) (Client, error) {
	if r.UpdateFunc == nil {
		return Client{}, errors.New("Update() not implemented by stub")
	}
	return r.UpdateFunc(ctx, params)
}

func (r *StubRepo) Delete(ctx context.Context, clientID string, version int64) error {
	if r.DeleteFunc == nil {
		return errors.New("Delete() not implemented by stub")
	}
	return r.DeleteFunc(ctx, clientID, version)
}

type StubService struct {
	CreateFunc func(ctx context.Context, params CreateParams) (Client, error)
	FindFunc   func(ctx context.Context, clientID string) (*Client, error)
	ListFunc   func(ctx context.Context, opts web.ListOptions) ([]Client, int64, error)
	UpdateFunc func(ctx context.Context, params UpdateParams) (Client, error)
	DeleteFunc func(ctx context.Context, clientID string, version int64) error
}

var _ ClientService = &StubService{}

func (s *StubService) CreateClient(ctx context.Context, params CreateParams) (Client, error) {
	if s.CreateFunc == nil {
		return Client{}, errors.New("CreateClient() not implemented by stub")
	}
	return s.CreateFunc(ctx, params)
}

func (s *StubService) FindClient(ctx context.Context, clientID string) (*Client, error) {
	if s.FindFunc == nil {
		return nil, errors.New("FindClient() not implemented by stub")
	}
	return s.FindFunc(ctx, clientID)
}

func (s *StubService) ListClients(ctx context.Context, opts web.ListOptions) ([]Client, int64, error) {
	if s.ListFunc == nil {
		return nil, 0, errors.New("ListClients() not implemented by stub")
	}
	return s.ListFunc(ctx, opts)
}

func (s *StubService) UpdateClient(ctx context.Context, params UpdateParams) (Client, error) {
	if s.UpdateFunc == nil {
		return Client{}, errors.New("UpdateClient() not implemented by stub")
	}
	return s.UpdateFunc(ctx, params)
}

func (s *StubService) DeleteClient(ctx context.Context, clientID string, version int64) error {
	if s.DeleteFunc == nil {
		return errors.New("DeleteClient() not implemented by stub")
	}
	return s.DeleteFunc(ctx, clientID, version)
}
