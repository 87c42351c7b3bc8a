package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/auth"
	"github.com/ferdiebergado/hrkit/internal/outbox"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

// EntitySet is the name employees go by in URLs and event kinds.
const EntitySet = "employees"

var (
	// ErrClientScope means a referenced cost center or location belongs to a
	// different client than the employee.
	ErrClientScope = errors.New("employee service: reference outside the employee's client")
	// ErrImmutableClient means an update tried to move the employee to
	// another client.
	ErrImmutableClient = errors.New("employee service: client_id cannot change")
)

// EmployeeRepository is the storage surface the service drives.
type EmployeeRepository interface {
	Create(ctx context.Context, params CreateParams) (Employee, error)
	Find(ctx context.Context, employeeID string) (*Employee, error)
	List(ctx context.Context, clientID string, opts web.ListOptions) ([]Employee, int64, error)
	ListAll(ctx context.Context, clientID string) ([]Employee, error)
	Update(ctx context.Context, params UpdateParams) (Employee, error)
	Delete(ctx context.Context, employeeID string, version int64) error
	CostCenterClient(ctx context.Context, costCenterID string) (string, error)
	LocationClient(ctx context.Context, locationID string) (string, error)
}

type Service struct {
	repo       EmployeeRepository
	txManager  db.TxManager
	recorder   outbox.Recorder
	badges     BadgeSource
	maxRetries int
}

var _ EmployeeService = &Service{}

func NewService(repo EmployeeRepository, txManager db.TxManager, recorder outbox.Recorder, badges BadgeSource, maxRetries int) *Service {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Service{
		repo:       repo,
		txManager:  txManager,
		recorder:   recorder,
		badges:     badges,
		maxRetries: maxRetries,
	}
}

type eventPayload struct {
	Entity *EmployeeData `json:"entity"`
	Actor  string        `json:"actor,omitempty"`
}

func (s *Service) record(ctx context.Context, action string, emp *Employee) error {
	actor, _ := auth.UserFromContext(ctx)
	payload := &eventPayload{
		Entity: transformEmployee(emp),
		Actor:  actor,
	}
	return s.recorder.Record(ctx, outbox.EventKind(EntitySet, action), payload)
}

// checkScope verifies that the referenced cost center and location, when
// set, belong to clientID.
func (s *Service) checkScope(ctx context.Context, clientID string, costCenterID, locationID *string) error {
	if costCenterID != nil {
		owner, err := s.repo.CostCenterClient(ctx, *costCenterID)
		if err != nil {
			return err
		}
		if owner != clientID {
			return fmt.Errorf("%w: cost center %s belongs to client %s", ErrClientScope, *costCenterID, owner)
		}
	}
	if locationID != nil {
		owner, err := s.repo.LocationClient(ctx, *locationID)
		if err != nil {
			return err
		}
		if owner != clientID {
			return fmt.Errorf("%w: location %s belongs to client %s", ErrClientScope, *locationID, owner)
		}
	}
	return nil
}

// CreateEmployee claims a badge number and inserts the employee in one
// transaction. The whole transaction is retried on transient serialization
// failures so a badge claim lost to a conflict does not surface to the
// caller.
func (s *Service) CreateEmployee(ctx context.Context, params CreateParams) (Employee, error) {
	var created Employee
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.checkScope(txCtx, params.ClientID, params.CostCenterID, params.LocationID); err != nil {
				return err
			}

			badge, err := s.badges.Next(txCtx, params.ClientID)
			if err != nil {
				return err
			}
			params.BadgeID = badge

			emp, err := s.repo.Create(txCtx, params)
			if err != nil {
				return err
			}
			if err := s.record(txCtx, outbox.ActionCreated, &emp); err != nil {
				return fmt.Errorf("record created event for employee %s: %w", emp.ID, err)
			}
			created = emp
			return nil
		})
		if err == nil || !db.IsRetryable(err) {
			return created, err
		}
	}
	return created, err
}

func (s *Service) FindEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	return s.repo.Find(ctx, employeeID)
}

func (s *Service) ListEmployees(ctx context.Context, clientID string, opts web.ListOptions) ([]Employee, int64, error) {
	return s.repo.List(ctx, clientID, opts)
}

// ExportEmployees returns the full, optionally client-filtered employee set
// for the CSV export.
func (s *Service) ExportEmployees(ctx context.Context, clientID string) ([]Employee, error) {
	return s.repo.ListAll(ctx, clientID)
}

func (s *Service) UpdateEmployee(ctx context.Context, params UpdateParams) (Employee, error) {
	var updated Employee
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.Find(txCtx, params.ID)
		if err != nil {
			return err
		}
		if params.ClientID != "" && params.ClientID != existing.ClientID {
			return fmt.Errorf("%w: employee %s belongs to client %s", ErrImmutableClient, params.ID, existing.ClientID)
		}
		if err := s.checkScope(txCtx, existing.ClientID, params.CostCenterID, params.LocationID); err != nil {
			return err
		}

		emp, err := s.repo.Update(txCtx, params)
		if err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionUpdated, &emp); err != nil {
			return fmt.Errorf("record updated event for employee %s: %w", emp.ID, err)
		}
		updated = emp
		return nil
	})
	return updated, err
}

func (s *Service) DeleteEmployee(ctx context.Context, employeeID string, version int64) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.Find(txCtx, employeeID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, employeeID, version); err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionDeleted, emp); err != nil {
			return fmt.Errorf("record deleted event for employee %s: %w", employeeID, err)
		}
		return nil
	})
}
