package outbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/pkg/security"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

// Event kind suffixes. Entity services build kinds as "<set>.<action>",
// e.g. "employees.created".
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

func EventKind(set, action string) string {
	return set + "." + action
}

var ErrInvalidURL = errors.New("outbox service: invalid endpoint url")

const generatedSecretLen = 32

// EndpointStore is the repository surface for webhook subscriptions.
type EndpointStore interface {
	Create(ctx context.Context, params CreateEndpointParams) (Endpoint, error)
	Find(ctx context.Context, endpointID string) (*Endpoint, error)
	List(ctx context.Context) ([]Endpoint, error)
	Update(ctx context.Context, params UpdateEndpointParams) (Endpoint, error)
	Delete(ctx context.Context, endpointID string, version int64) error
}

// EventStore is the repository surface for inspecting recorded events.
type EventStore interface {
	List(ctx context.Context, status string, opts web.ListOptions) ([]Event, error)
}

type Service struct {
	endpoints    EndpointStore
	events       EventStore
	allowPrivate bool
}

var _ OutboxService = &Service{}

func NewService(endpoints EndpointStore, events EventStore, allowPrivate bool) *Service {
	return &Service{
		endpoints:    endpoints,
		events:       events,
		allowPrivate: allowPrivate,
	}
}

func (s *Service) CreateEndpoint(ctx context.Context, params CreateEndpointParams) (Endpoint, error) {
	if err := security.CheckEndpointURL(params.URL, s.allowPrivate); err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if params.Secret == "" {
		secret, err := security.GenerateRandomBytesURLEncoded(generatedSecretLen)
		if err != nil {
			return Endpoint{}, fmt.Errorf("generate endpoint secret: %w", err)
		}
		params.Secret = secret
	}

	return s.endpoints.Create(ctx, params)
}

func (s *Service) FindEndpoint(ctx context.Context, endpointID string) (*Endpoint, error) {
	return s.endpoints.Find(ctx, endpointID)
}

func (s *Service) ListEndpoints(ctx context.Context) ([]Endpoint, error) {
	return s.endpoints.List(ctx)
}

func (s *Service) UpdateEndpoint(ctx context.Context, params UpdateEndpointParams) (Endpoint, error) {
	if err := security.CheckEndpointURL(params.URL, s.allowPrivate); err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	return s.endpoints.Update(ctx, params)
}

func (s *Service) DeleteEndpoint(ctx context.Context, endpointID string, version int64) error {
	return s.endpoints.Delete(ctx, endpointID, version)
}

func (s *Service) ListEvents(ctx context.Context, status string, opts web.ListOptions) ([]Event, error) {
	return s.events.List(ctx, status, opts)
}
