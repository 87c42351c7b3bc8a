package costcenter

import (
	"context"
	"errors"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

type StubRepo struct {
	CreateFunc       func(ctx context.Context, params CreateParams) (CostCenter, error)
	FindFunc         func(ctx context.Context, costCenterID string) (*CostCenter, error)
	ListFunc         func(ctx context.Context, clientID string, opts web.ListOptions) ([]CostCenter, int64, error)
	ListByClientFunc func(ctx context.Context, clientID string) ([]CostCenter, error)
	UpdateFunc       func(ctx context.Context, params UpdateParams) (CostCenter, error)
	DeleteFunc       func(ctx context.Context, costCenterID string, version int64) error
}

var _ CostCenterRepository = &StubRepo{}

func (r *StubRepo) Create(ctx context.Context, params CreateParams) (CostCenter, error) {
	if r.CreateFunc == nil {
		return CostCenter{}, errors.New("Create() not implemented by stub")
	}
	return r.CreateFunc(ctx, params)
}

func (r *StubRepo) Find(ctx context.Context, costCenterID string) (*CostCenter, error) {
	if r.FindFunc == nil {
		return nil, errors.New("Find() not implemented by stub")
	}
	return r.FindFunc(ctx, costCenterID)
}

func (r *StubRepo) List(ctx context.Context, clientID string, opts web.ListOptions) ([]CostCenter, int64, error) {
	if r.ListFunc == nil {
		return nil, 0, errors.New("List() not implemented by stub")
	}
	return r.ListFunc(ctx, clientID, opts)
}

func (r *StubRepo) ListByClient(ctx context.Context, clientID string) ([]CostCenter, error) {
	if r.ListByClientFunc == nil {
		return nil, errors.New("ListByClient() not implemented by stub")
	}
	return r.ListByClientFunc(ctx, clientID)
}

func (r *StubRepo) Update(ctx context.Context, params UpdateParams) (CostCenter, error) {
	if r.UpdateFunc == nil {
		return CostCenter{}, errors.New("Update() not implemented by stub")
	}
	return r.UpdateFunc(ctx, params)
}

func (r *StubRepo) Delete(ctx context.Context, costCenterID string, version int64) error {
	if r.DeleteFunc == nil {
		return errors.New("Delete() not implemented by stub")
	}
	return r.DeleteFunc(ctx, costCenterID, version)
}

type StubService struct {
	CreateFunc func(ctx context.Context, params CreateParams) (CostCenter, error)
	FindFunc   func(ctx context.Context, costCenterID string) (*CostCenter, error)
	ListFunc   func(ctx context.Context, clientID string, opts web.ListOptions) ([]CostCenter, int64, error)
	LookupFunc func(ctx context.Context, clientID string) ([]CostCenter, error)
	UpdateFunc func(ctx context.Context, params UpdateParams) (CostCenter, error)
	DeleteFunc func(ctx context.Context, costCenterID string, version int64) error
}

var _ CostCenterService = &StubService{}

func (s *StubService) CreateCostCenter(ctx context.Context, params CreateParams) (CostCenter, error) {
	if s.CreateFunc == nil {
		return CostCenter{}, errors.New("CreateCostCenter() not implemented by stub")
	}
	return s.CreateFunc(ctx, params)
}

func (s *StubService) FindCostCenter(ctx context.Context, costCenterID string) (*CostCenter, error) {
	if s.FindFunc == nil {
		return nil, errors.New("FindCostCenter() not implemented by stub")
	}
	return s.FindFunc(ctx, costCenterID)
}

func (s *StubService) ListCostCenters(ctx context.Context, clientID string, opts web.ListOptions) ([]CostCenter, int64, error) {
	if s.ListFunc == nil {
		return nil, 0, errors.New("ListCostCenters() not implemented by stub")
	}
	return s.ListFunc(ctx, clientID, opts)
}

func (s *StubService) LookupCostCenters(ctx context.Context, clientID string) ([]CostCenter, error) {
	if s.LookupFunc == nil {
		return nil, errors.New("LookupCostCenters() not implemented by stub")
	}
	return s.LookupFunc(ctx, clientID)
}

func (s *StubService) UpdateCostCenter(ctx context.Context, params UpdateParams) (CostCenter, error) {
	if s.UpdateFunc == nil {
		return CostCenter{}, errors.New("UpdateCostCenter() not implemented by stub")
	}
	return s.UpdateFunc(ctx, params)
}

func (s *StubService) DeleteCostCenter(ctx context.Context, costCenterID string, version int64) error {
	if s.DeleteFunc == nil {
		return errors.New("DeleteCostCenter() not implemented by stub")
	}
	return s.DeleteFunc(ctx, costCenterID, version)
}
