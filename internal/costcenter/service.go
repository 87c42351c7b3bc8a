package costcenter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ferdiebergado/hrkit/internal/auth"
	"github.com/ferdiebergado/hrkit/internal/outbox"
	"github.com/ferdiebergado/hrkit/internal/pkg/ttlcache"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

// EntitySet is the name cost centers go by in URLs and event kinds.
const EntitySet = "cost-centers"

// ErrImmutableClient means an update tried to move the cost center to
// another client.
var ErrImmutableClient = errors.New("costcenter service: client_id cannot change")

// CostCenterRepository is the storage surface the service drives.
type CostCenterRepository interface {
	Create(ctx context.Context, params CreateParams) (CostCenter, error)
	Find(ctx context.Context, costCenterID string) (*CostCenter, error)
	List(ctx context.Context, clientID string, opts web.ListOptions) ([]CostCenter, int64, error)
	ListByClient(ctx context.Context, clientID string) ([]CostCenter, error)
	Update(ctx context.Context, params UpdateParams) (CostCenter, error)
	Delete(ctx context.Context, costCenterID string, version int64) error
}

type Service struct {
	repo      CostCenterRepository
	txManager db.TxManager
	recorder  outbox.Recorder
	lookups   *ttlcache.Cache[[]CostCenter]
}

var _ CostCenterService = &Service{}

func NewService(repo CostCenterRepository, txManager db.TxManager, recorder outbox.Recorder, lookupTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		recorder:  recorder,
		lookups:   ttlcache.New[[]CostCenter](lookupTTL),
	}
}

type eventPayload struct {
	Entity *CostCenterData `json:"entity"`
	Actor  string          `json:"actor,omitempty"`
}

func (s *Service) record(ctx context.Context, action string, cc *CostCenter) error {
	actor, _ := auth.UserFromContext(ctx)
	payload := &eventPayload{
		Entity: transformCostCenter(cc),
		Actor:  actor,
	}
	return s.recorder.Record(ctx, outbox.EventKind(EntitySet, action), payload)
}

func (s *Service) CreateCostCenter(ctx context.Context, params CreateParams) (CostCenter, error) {
	var created CostCenter
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		cc, err := s.repo.Create(txCtx, params)
		if err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionCreated, &cc); err != nil {
			return fmt.Errorf("record created event for cost center %s: %w", cc.ID, err)
		}
		created = cc
		return nil
	})
	if err != nil {
		return created, err
	}
	s.lookups.Invalidate(created.ClientID)
	return created, nil
}

func (s *Service) FindCostCenter(ctx context.Context, costCenterID string) (*CostCenter, error) {
	return s.repo.Find(ctx, costCenterID)
}

func (s *Service) ListCostCenters(ctx context.Context, clientID string, opts web.ListOptions) ([]CostCenter, int64, error) {
	return s.repo.List(ctx, clientID, opts)
}

// LookupCostCenters serves the active cost centers of a client through the
// TTL cache. Mutations of the set invalidate that client's entry, so the
// list is stale for at most one TTL.
func (s *Service) LookupCostCenters(ctx context.Context, clientID string) ([]CostCenter, error) {
	if centers, ok := s.lookups.Get(clientID); ok {
		return centers, nil
	}
	centers, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s.lookups.Set(clientID, centers)
	return centers, nil
}

func (s *Service) UpdateCostCenter(ctx context.Context, params UpdateParams) (CostCenter, error) {
	var updated CostCenter
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.Find(txCtx, params.ID)
		if err != nil {
			return err
		}
		if params.ClientID != "" && params.ClientID != existing.ClientID {
			return fmt.Errorf("%w: cost center %s belongs to client %s", ErrImmutableClient, params.ID, existing.ClientID)
		}

		cc, err := s.repo.Update(txCtx, params)
		if err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionUpdated, &cc); err != nil {
			return fmt.Errorf("record updated event for cost center %s: %w", cc.ID, err)
		}
		updated = cc
		return nil
	})
	if err != nil {
		return updated, err
	}
	s.lookups.Invalidate(updated.ClientID)
	return updated, nil
}

func (s *Service) DeleteCostCenter(ctx context.Context, costCenterID string, version int64) error {
	var clientID string
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		cc, err := s.repo.Find(txCtx, costCenterID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, costCenterID, version); err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionDeleted, cc); err != nil {
			return fmt.Errorf("record deleted event for cost center %s: %w", costCenterID, err)
		}
		clientID = cc.ClientID
		return nil
	})
	if err != nil {
		return err
	}
	s.lookups.Invalidate(clientID)
	return nil
}
