package employee

import (
	"context"
	"errors"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

type StubRepo struct {
	CreateFunc           func(ctx context.Context, params CreateParams) (Employee, error)
	FindFunc             func(ctx context.Context, employeeID string) (*Employee, error)
	ListFunc             func(ctx context.Context, clientID string, opts web.ListOptions) ([]Employee, int64, error)
	ListAllFunc          func(ctx context.Context, clientID string) ([]Employee, error)
	UpdateFunc           func(ctx context.Context, params UpdateParams) (Employee, error)
	DeleteFunc           func(ctx context.Context, employeeID string, version int64) error
	CostCenterClientFunc func(ctx context.Context, costCenterID string) (string, error)
	LocationClientFunc   func(ctx context.Context, locationID string) (string, error)
}

var _ EmployeeRepository = &StubRepo{}

func (r *StubRepo) Create(ctx context.Context, params CreateParams) (Employee, error) {
	if r.CreateFunc == nil {
		return Employee{}, errors.New("Create() not implemented by stub")
	}
	return r.CreateFunc(ctx, params)
}

func (r *StubRepo) Find(ctx context.Context, employeeID string) (*Employee, error) {
	if r.FindFunc == nil {
		return nil, errors.New("Find() not implemented by stub")
	}
	return r.FindFunc(ctx, employeeID)
}

func (r *StubRepo) List(ctx context.Context, clientID string, opts web.ListOptions) ([]Employee, int64, error) {
	if r.ListFunc == nil {
		return nil, 0, errors.New("List() not implemented by stub")
	}
	return r.ListFunc(ctx, clientID, opts)
}

func (r *StubRepo) ListAll(ctx context.Context, clientID string) ([]Employee, error) {
	if r.ListAllFunc == nil {
		return nil, errors.New("ListAll() not implemented by stub")
	}
	return r.ListAllFunc(ctx, clientID)
}

func (r *StubRepo) Update(ctx context.Context, params UpdateParams) (Employee, error) {
	if r.UpdateFunc == nil {
		return Employee{}, errors.New("Update() not implemented by stub")
	}
	return r.UpdateFunc(ctx, params)
}

func (r *StubRepo) Delete(ctx context.Context, employeeID string, version int64) error {
	if r.DeleteFunc == nil {
		return errors.New("Delete() not implemented by stub")
	}
	return r.DeleteFunc(ctx, employeeID, version)
}

func (r *StubRepo) CostCenterClient(ctx context.Context, costCenterID string) (string, error) {
	if r.CostCenterClientFunc == nil {
		return "", errors.New("CostCenterClient() not implemented by stub")
	}
	return r.CostCenterClientFunc(ctx, costCenterID)
}

func (r *StubRepo) LocationClient(ctx context.Context, locationID string) (string, error) {
	if r.LocationClientFunc == nil {
		return "", errors.New("LocationClient() not implemented by stub")
	}
	return r.LocationClientFunc(ctx, locationID)
}

type StubBadgeSource struct {
	NextFunc func(ctx context.Context, clientID string) (string, error)
}

var _ BadgeSource = &StubBadgeSource{}

func (s *StubBadgeSource) Next(ctx context.Context, clientID string) (string, error) {
	if s.NextFunc == nil {
		return "", errors.New("Next() not implemented by stub")
	}
	return s.NextFunc(ctx, clientID)
}

type StubService struct {
	CreateFunc func(ctx context.Context, params CreateParams) (Employee, error)
	FindFunc   func(ctx context.Context, employeeID string) (*Employee, error)
	ListFunc   func(ctx context.Context, clientID string, opts web.ListOptions) ([]Employee, int64, error)
	ExportFunc func(ctx context.Context, clientID string) ([]Employee, error)
	UpdateFunc func(ctx context.Context, params UpdateParams) (Employee, error)
	DeleteFunc func(ctx context.Context, employeeID string, version int64) error
}

var _ EmployeeService = &StubService{}

func (s *StubService) CreateEmployee(ctx context.Context, params CreateParams) (Employee, error) {
	if s.CreateFunc == nil {
		return Employee{}, errors.New("CreateEmployee() not implemented by stub")
	}
	return s.CreateFunc(ctx, params)
}

func (s *StubService) FindEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	if s.FindFunc == nil {
		return nil, errors.New("FindEmployee() not implemented by stub")
	}
	return s.FindFunc(ctx, employeeID)
}

func (s *StubService) ListEmployees(ctx context.Context, clientID string, opts web.ListOptions) ([]Employee, int64, error) {
	if s.ListFunc == nil {
		return nil, 0, errors.New("ListEmployees() not implemented by stub")
	}
	return s.ListFunc(ctx, clientID, opts)
}

func (s *StubService) ExportEmployees(ctx context.Context, clientID string) ([]Employee, error) {
	if s.ExportFunc == nil {
		return nil, errors.New("ExportEmployees() not implemented by stub")
	}
	return s.ExportFunc(ctx, clientID)
}

func (s *StubService) UpdateEmployee(ctx context.Context, params UpdateParams) (Employee, error) {
	if s.UpdateFunc == nil {
		return Employee{}, errors.New("UpdateEmployee() not implemented by stub")
	}
	return s.UpdateFunc(ctx, params)
}

func (s *StubService) DeleteEmployee(ctx context.Context, employeeID string, version int64) error {
	if s.DeleteFunc == nil {
		return errors.New("DeleteEmployee() not implemented by stub")
	}
	return s.DeleteFunc(ctx, employeeID, version)
}
