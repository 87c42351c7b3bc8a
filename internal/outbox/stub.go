package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

type StubRecorder struct {
	RecordFunc func(ctx context.Context, kind string, payload any) error
}

var _ Recorder = &StubRecorder{}

func (r *StubRecorder) Record(ctx context.Context, kind string, payload any) error {
	if r.RecordFunc == nil {
		return errors.New("Record() not implemented by stub")
	}
	return r.RecordFunc(ctx, kind, payload)
}

type StubStore struct {
	ClaimDueFunc      func(ctx context.Context, limit int, lease time.Duration) ([]Event, error)
	MarkDeliveredFunc func(ctx context.Context, eventID string) error
	RescheduleFunc    func(ctx context.Context, eventID string, backoff time.Duration) error
	MarkDeadFunc      func(ctx context.Context, eventID string) error
}

var _ DispatcherStore = &StubStore{}

func (s *StubStore) ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]Event, error) {
	if s.ClaimDueFunc == nil {
		return nil, errors.New("ClaimDue() not implemented by stub")
	}
	return s.ClaimDueFunc(ctx, limit, lease)
}

func (s *StubStore) MarkDelivered(ctx context.Context, eventID string) error {
	if s.MarkDeliveredFunc == nil {
		return errors.New("MarkDelivered() not implemented by stub")
	}
	return s.MarkDeliveredFunc(ctx, eventID)
}

func (s *StubStore) Reschedule(ctx context.Context, eventID string, backoff time.Duration) error {
	if s.RescheduleFunc == nil {
		return errors.New("Reschedule() not implemented by stub")
	}
	return s.RescheduleFunc(ctx, eventID, backoff)
}

func (s *StubStore) MarkDead(ctx context.Context, eventID string) error {
	if s.MarkDeadFunc == nil {
		return errors.New("MarkDead() not implemented by stub")
	}
	return s.MarkDeadFunc(ctx, eventID)
}

type StubEndpointSource struct {
	ListActiveFunc func(ctx context.Context) ([]Endpoint, error)
}

var _ EndpointSource = &StubEndpointSource{}

func (s *StubEndpointSource) ListActive(ctx context.Context) ([]Endpoint, error) {
	if s.ListActiveFunc == nil {
		return nil, errors.New("ListActive() not implemented by stub")
	}
	return s.ListActiveFunc(ctx)
}

type StubService struct {
	CreateEndpointFunc func(ctx context.Context, params CreateEndpointParams) (Endpoint, error)
	FindEndpointFunc   func(ctx context.Context, endpointID string) (*Endpoint, error)
	ListEndpointsFunc  func(ctx context.Context) ([]Endpoint, error)
	UpdateEndpointFunc func(ctx context.Context, params UpdateEndpointParams) (Endpoint, error)
	DeleteEndpointFunc func(ctx context.Context, endpointID string, version int64) error
	ListEventsFunc     func(ctx context.Context, status string, opts web.ListOptions) ([]Event, error)
}

var _ OutboxService = &StubService{}

func (s *StubService) CreateEndpoint(ctx context.Context, params CreateEndpointParams) (Endpoint, error) {
	if s.CreateEndpointFunc == nil {
		return Endpoint{}, errors.New("CreateEndpoint() not implemented by stub")
	}
	return s.CreateEndpointFunc(ctx, params)
}

func (s *StubService) FindEndpoint(ctx context.Context, endpointID string) (*Endpoint, error) {
	if s.FindEndpointFunc == nil {
		return nil, errors.New("FindEndpoint() not implemented by stub")
	}
	return s.FindEndpointFunc(ctx, endpointID)
}

func (s *StubService) ListEndpoints(ctx context.Context) ([]Endpoint, error) {
	if s.ListEndpointsFunc == nil {
		return nil, errors.New("ListEndpoints() not implemented by stub")
	}
	return s.ListEndpointsFunc(ctx)
}

func (s *StubService) UpdateEndpoint(ctx context.Context, params UpdateEndpointParams) (Endpoint, error) {
	if s.UpdateEndpointFunc == nil {
		return Endpoint{}, errors.New("UpdateEndpoint() not implemented by stub")
	}
	return s.UpdateEndpointFunc(ctx, params)
}

func (s *StubService) DeleteEndpoint(ctx context.Context, endpointID string, version int64) error {
	if s.DeleteEndpointFunc == nil {
		return errors.New("DeleteEndpoint() not implemented by stub")
	}
	return s.DeleteEndpointFunc(ctx, endpointID, version)
}

func (s *StubService) ListEvents(ctx context.Context, status string, opts web.ListOptions) ([]Event, error) {
	if s.ListEventsFunc == nil {
		return nil, errors.New("ListEvents() not implemented by stub")
	}
	return s.ListEventsFunc(ctx, status, opts)
}
