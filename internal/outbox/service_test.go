package outbox_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ferdiebergado/hrkit/internal/model"
	"github.com/ferdiebergado/hrkit/internal/outbox"
)

type fakeEndpointStore struct {
	outbox.EndpointStore

	createFunc func(ctx context.Context, params outbox.CreateEndpointParams) (outbox.Endpoint, error)
}

func (s *fakeEndpointStore) Create(ctx context.Context, params outbox.CreateEndpointParams) (outbox.Endpoint, error) {
	return s.createFunc(ctx, params)
}

func TestService_CreateEndpoint_GeneratesSecret(t *testing.T) {
	t.Parallel()

	var storedSecret string
	store := &fakeEndpointStore{
		createFunc: func(_ context.Context, params outbox.CreateEndpointParams) (outbox.Endpoint, error) {
			storedSecret = params.Secret
			return outbox.Endpoint{
				Model:  model.Model{ID: "ep1", Version: 1},
				URL:    params.URL,
				Secret: params.Secret,
				Events: params.Events,
				Active: params.Active,
			}, nil
		},
	}

	svc := outbox.NewService(store, nil, false)
	created, err := svc.CreateEndpoint(context.Background(), outbox.CreateEndpointParams{
		URL:    "https://hooks.example.com/hr",
		Events: []string{"employees.created"},
		Active: true,
	})
	if err != nil {
		t.Fatalf("svc.CreateEndpoint() error = %v", err)
	}

	if storedSecret == "" {
		t.Fatal("params.Secret was empty, want a generated secret")
	}
	if created.Secret != storedSecret {
		t.Errorf("created.Secret = %q, want: %q", created.Secret, storedSecret)
	}
}

func TestService_CreateEndpoint_KeepsCallerSecret(t *testing.T) {
	t.Parallel()

	store := &fakeEndpointStore{
		createFunc: func(_ context.Context, params outbox.CreateEndpointParams) (outbox.Endpoint, error) {
			return outbox.Endpoint{Model: model.Model{ID: "ep1", Version: 1}, Secret: params.Secret}, nil
		},
	}

	svc := outbox.NewService(store, nil, false)
	created, err := svc.CreateEndpoint(context.Background(), outbox.CreateEndpointParams{
		URL:    "https://hooks.example.com/hr",
		Secret: "caller-chosen-secret",
		Events: []string{"*"},
	})
	if err != nil {
		t.Fatalf("svc.CreateEndpoint() error = %v", err)
	}
	if created.Secret != "caller-chosen-secret" {
		t.Errorf("created.Secret = %q, want the caller's secret", created.Secret)
	}
}

func TestService_CreateEndpoint_RejectsUnsafeURLs(t *testing.T) {
	t.Parallel()

	store := &fakeEndpointStore{
		createFunc: func(_ context.Context, _ outbox.CreateEndpointParams) (outbox.Endpoint, error) {
			t.Error("Create() must not run for a rejected url")
			return outbox.Endpoint{}, nil
		},
	}

	svc := outbox.NewService(store, nil, false)
	for _, url := range []string{"ftp://hooks.example.com", "http://127.0.0.1/hook", "http://10.0.0.1/hook"} {
		if _, err := svc.CreateEndpoint(context.Background(), outbox.CreateEndpointParams{URL: url}); !errors.Is(err, outbox.ErrInvalidURL) {
			t.Errorf("svc.CreateEndpoint(%q) error = %v, want: %v", url, err, outbox.ErrInvalidURL)
		}
	}
}

func TestEndpoint_Subscribed(t *testing.T) {
	t.Parallel()

	ep := outbox.Endpoint{Events: []string{"employees.created", "clients.deleted"}}
	if !ep.Subscribed("employees.created") {
		t.Error(`Subscribed("employees.created") = false, want: true`)
	}
	if ep.Subscribed("employees.updated") {
		t.Error(`Subscribed("employees.updated") = true, want: false`)
	}

	wildcard := outbox.Endpoint{Events: []string{"*"}}
	if !wildcard.Subscribed("anything.at.all") {
		t.Error(`wildcard.Subscribed("anything.at.all") = false, want: true`)
	}
}

func TestEventKind(t *testing.T) {
	t.Parallel()

	if got, want := outbox.EventKind("employees", outbox.ActionCreated), "employees.created"; got != want {
		t.Errorf("outbox.EventKind() = %q, want: %q", got, want)
	}
}
