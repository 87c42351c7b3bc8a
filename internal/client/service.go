package client

import (
	"context"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/auth"
	"github.com/ferdiebergado/hrkit/internal/outbox"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

// EntitySet is the name clients go by in URLs and event kinds.
const EntitySet = "clients"

// ClientRepository is the storage surface the service drives.
type ClientRepository interface {
	Create(ctx context.Context, params CreateParams) (Client, error)
	Find(ctx context.Context, clientID string) (*Client, error)
	List(ctx context.Context, opts web.ListOptions) ([]Client, int64, error)
	Update(ctx context.Context, params UpdateParams) (Client, error)
	Delete(ctx context.Context, clientID string, version int64) error
}

type Service struct {
	repo      ClientRepository
	txManager db.TxManager
	recorder  outbox.Recorder
}

var _ ClientService = &Service{}

func NewService(repo ClientRepository, txManager db.TxManager, recorder outbox.Recorder) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		recorder:  recorder,
	}
}

type eventPayload struct {
	Entity *ClientData `json:"entity"`
	Actor  string      `json:"actor,omitempty"`
}

func (s *Service) record(ctx context.Context, action string, c *Client) error {
	actor, _ := auth.UserFromContext(ctx)
	payload := &eventPayload{
		Entity: transformClient(c),
		Actor:  actor,
	}
	return s.recorder.Record(ctx, outbox.EventKind(EntitySet, action), payload)
}

func (s *Service) CreateClient(ctx context.Context, params CreateParams) (Client, error) {
	var created Client
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.Create(txCtx, params)
		if err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionCreated, &c); err != nil {
			return fmt.Errorf("record created event for client %s: %w", c.ID, err)
		}
		created = c
		return nil
	})
	return created, err
}

func (s *Service) FindClient(ctx context.Context, clientID string) (*Client, error) {
	return s.repo.Find(ctx, clientID)
}

func (s *Service) ListClients(ctx context.Context, opts web.ListOptions) ([]Client, int64, error) {
	return s.repo.List(ctx, opts)
}

func (s *Service) UpdateClient(ctx context.Context, params UpdateParams) (Client, error) {
	var updated Client
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.Update(txCtx, params)
		if err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionUpdated, &c); err != nil {
			return fmt.Errorf("record updated event for client %s: %w", c.ID, err)
		}
		updated = c
		return nil
	})
	return updated, err
}

func (s *Service) DeleteClient(ctx context.Context, clientID string, version int64) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.Find(txCtx, clientID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, clientID, version); err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionDeleted, c); err != nil {
			return fmt.Errorf("record deleted event for client %s: %w", clientID, err)
		}
		return nil
	})
}
