package location

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

// EntitySet is the name locations go by in URLs and event kinds.
const EntitySet = "locations"

// ErrImmutableClient means an update tried to move the location to another
// client.
var ErrImmutableClient = errors.New("location service: client_id cannot change")

// LocationRepository is the storage surface the service drives.
type LocationRepository interface {
	Create(ctx context.Context, params CreateParams) (Location, error)
	Find(ctx context.Context, locationID string) (*Location, error)
	List(ctx context.Context, clientID string, opts web.ListOptions) ([]Location, int64, error)
	ListByClient(ctx context.Context, clientID string) ([]Location, error)
	Update(ctx context.Context, params UpdateParams) (Location, error)
	Delete(ctx context.Context, locationID string, version int64) error
}

type Service struct {
	repo      LocationRepository
	txManager db.TxManager
	recorder  outbox.Recorder
	lookups   *ttlcache.Cache[[]Location]
}

var _ LocationService = &Service{}

func NewService(repo LocationRepository, txManager db.TxManager, recorder outbox.Recorder, lookupTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		recorder:  recorder,
		lookups:   ttlcache.New[[]Location](lookupTTL),
	}
}

type eventPayload struct {
	Entity *LocationData `json:"entity"`
	Actor  string        `json:"actor,omitempty"`
}

func (s *Service) record(ctx context.Context, action string, loc *Location) error {
	actor, _ := auth.UserFromContext(ctx)
	payload := &eventPayload{
		Entity: transformLocation(loc),
		Actor:  actor,
	}
	return s.recorder.Record(ctx, outbox.EventKind(EntitySet, action), payload)
}

func (s *Service) CreateLocation(ctx context.Context, params CreateParams) (Location, error) {
	var created Location
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		loc, err := s.repo.Create(txCtx, params)
		if err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionCreated, &loc); err != nil {
			return fmt.Errorf("record created event for location %s: %w", loc.ID, err)
		}
		created = loc
		return nil
	})
	if err != nil {
		return created, err
	}
	s.lookups.Invalidate(created.ClientID)
	return created, nil
}

func (s *Service) FindLocation(ctx context.Context, locationID string) (*Location, error) {
	return s.repo.Find(ctx, locationID)
}

func (s *Service) ListLocations(ctx context.Context, clientID string, opts web.ListOptions) ([]Location, int64, error) {
	return s.repo.List(ctx, clientID, opts)
}

// LookupLocations serves the active locations of a client through the TTL
// cache. Mutations of the set invalidate that client's entry.
func (s *Service) LookupLocations(ctx context.Context, clientID string) ([]Location, error) {
	if locations, ok := s.lookups.Get(clientID); ok {
		return locations, nil
	}
	locations, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s.lookups.Set(clientID, locations)
	return locations, nil
}

func (s *Service) UpdateLocation(ctx context.Context, params UpdateParams) (Location, error) {
	var updated Location
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.Find(txCtx, params.ID)
		if err != nil {
			return err
		}
		if params.ClientID != "" && params.ClientID != existing.ClientID {
			return fmt.Errorf("%w: location %s belongs to client %s", ErrImmutableClient, params.ID, existing.ClientID)
		}

		loc, err := s.repo.Update(txCtx, params)
		if err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionUpdated, &loc); err != nil {
			return fmt.Errorf("record updated event for location %s: %w", loc.ID, err)
		}
		updated = loc
		return nil
	})
	if err != nil {
		return updated, err
	}
	s.lookups.Invalidate(updated.ClientID)
	return updated, nil
}

func (s *Service) DeleteLocation(ctx context.Context, locationID string, version int64) error {
	var clientID string
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		loc, err := s.repo.Find(txCtx, locationID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, locationID, version); err != nil {
			return err
		}
		if err := s.record(txCtx, outbox.ActionDeleted, loc); err != nil {
			return fmt.Errorf("record deleted event for location %s: %w", locationID, err)
		}
		clientID = loc.ClientID
		return nil
	})
	if err != nil {
		return err
	}
	s.lookups.Invalidate(clientID)
	return nil
}
