package location

import (
	"context"
	"errors"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

type StubRepo struct {
	CreateFunc       func(ctx context.Context, params CreateParams) (Location, error)
	FindFunc         func(ctx context.Context, locationID string) (*Location, error)
	ListFunc         func(ctx context.Context, clientID string, opts web.ListOptions) ([]Location, int64, error)
	ListByClientFunc func(ctx context.Context, clientID string) ([]Location, error)
	UpdateFunc       func(ctx context.Context, params UpdateParams) (Location, error)
	DeleteFunc       func(ctx context.Context, locationID string, version int64) error
}

var _ LocationRepository = &StubRepo{}

func (r *StubRepo) Create(ctx context.Context, params CreateParams) (Location, error) {
	if r.CreateFunc == nil {
		return Location{}, errors.New("Create() not implemented by stub")
	}
	return r.CreateFunc(ctx, params)
}

func (r *StubRepo) Find(ctx context.Context, locationID string) (*Location, error) {
	if r.FindFunc == nil {
		return nil, errors.New("Find() not implemented by stub")
	}
	return r.FindFunc(ctx, locationID)
}

func (r *StubRepo) List(ctx context.Context, clientID string, opts web.ListOptions) ([]Location, int64, error) {
	if r.ListFunc == nil {
		return nil, 0, errors.New("List() not implemented by stub")
	}
	return r.ListFunc(ctx, clientID, opts)
}

func (r *StubRepo) ListByClient(ctx context.Context, clientID string) ([]Location, error) {
	if r.ListByClientFunc == nil {
		return nil, errors.New("ListByClient() not implemented by stub")
	}
	return r.ListByClientFunc(ctx, clientID)
}

func (r *StubRepo) Update(ctx context.Context, params UpdateParams) (Location, error) {
	if r.UpdateFunc == nil {
		return Location{}, errors.New("Update() not implemented by stub")
	}
	return r.UpdateFunc(ctx, params)
}

func (r *StubRepo) Delete(ctx context.Context, locationID string, version int64) error {
	if r.DeleteFunc == nil {
		return errors.New("Delete() not implemented by stub")
	}
	return r.DeleteFunc(ctx, locationID, version)
}

type StubService struct {
	CreateFunc func(ctx context.Context, params CreateParams) (Location, error)
	FindFunc   func(ctx context.Context, locationID string) (*Location, error)
	ListFunc   func(ctx context.Context, clientID string, opts web.ListOptions) ([]Location, int64, error)
	LookupFunc func(ctx context.Context, clientID string) ([]Location, error)
	UpdateFunc func(ctx context.Context, params UpdateParams) (Location, error)
	DeleteFunc func(ctx context.Context, locationID string, version int64) error
}

var _ LocationService = &StubService{}

func (s *StubService) CreateLocation(ctx context.Context, params CreateParams) (Location, error) {
	if s.CreateFunc == nil {
		return Location{}, errors.New("CreateLocation() not implemented by stub")
	}
	return s.CreateFunc(ctx, params)
}

func (s *StubService) FindLocation(ctx context.Context, locationID string) (*Location, error) {
	if s.FindFunc == nil {
		return nil, errors.New("FindLocation() not implemented by stub")
	}
	return s.FindFunc(ctx, locationID)
}

func (s *StubService) ListLocations(ctx context.Context, clientID string, opts web.ListOptions) ([]Location, int64, error) {
	if s.ListFunc == nil {
		return nil, 0, errors.New("ListLocations() not implemented by stub")
	}
	return s.ListFunc(ctx, clientID, opts)
}

func (s *StubService) LookupLocations(ctx context.Context, clientID string) ([]Location, error) {
	if s.LookupFunc == nil {
		return nil, errors.New("LookupLocations() not implemented by stub")
	}
	return s.LookupFunc(ctx, clientID)
}

func (s *StubService) UpdateLocation(ctx context.Context, params UpdateParams) (Location, error) {
	if s.UpdateFunc == nil {
		return Location{}, errors.New("UpdateLocation() not implemented by stub")
	}
	return s.UpdateFunc(ctx, params)
}

func (s *StubService) DeleteLocation(ctx context.Context, locationID string, version int64) error {
	if s.DeleteFunc == nil {
		return errors.New("DeleteLocation() not implemented by stub")
	}
	return s.DeleteFunc(ctx, locationID, version)
}
