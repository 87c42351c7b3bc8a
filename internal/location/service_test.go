package location_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ferdiebergado/hrkit/internal/location"
	"github.com/ferdiebergado/hrkit/internal/model"
	"github.com/ferdiebergado/hrkit/internal/outbox"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

func noopRecorder() *outbox.StubRecorder {
	return &outbox.StubRecorder{
		RecordFunc: func(_ context.Context, _ string, _ any) error { return nil },
	}
}

func TestService_UpdateLocation_ClientIsImmutable(t *testing.T) {
	t.Parallel()

	repo := &location.StubRepo{
		FindFunc: func(_ context.Context, locationID string) (*location.Location, error) {
			return &location.Location{
				Model:    model.Model{ID: locationID, Version: 1},
				ClientID: "client-a",
				Name:     "HQ",
			}, nil
		},
		UpdateFunc: func(_ context.Context, _ location.UpdateParams) (location.Location, error) {
			t.Error("Update() must not run when client_id changes")
			return location.Location{}, nil
		},
	}

	svc := location.NewService(repo, &db.StubTxManager{}, noopRecorder(), time.Minute)
	_, err := svc.UpdateLocation(context.Background(), location.UpdateParams{
		ID:       "loc1",
		Version:  1,
		ClientID: "client-b",
		Name:     "HQ",
	})
	if !errors.Is(err, location.ErrImmutableClient) {
		t.Fatalf("svc.UpdateLocation() error = %v, want: %v", err, location.ErrImmutableClient)
	}
}

func TestService_UpdateLocation_SameClientPasses(t *testing.T) {
	t.Parallel()

	repo := &location.StubRepo{
		FindFunc: func(_ context.Context, locationID string) (*location.Location, error) {
			return &location.Location{
				Model:    model.Model{ID: locationID, Version: 1},
				ClientID: "client-a",
				Name:     "HQ",
			}, nil
		},
		UpdateFunc: func(_ context.Context, params location.UpdateParams) (location.Location, error) {
			return location.Location{
				Model:    model.Model{ID: params.ID, Version: 2},
				ClientID: "client-a",
				Name:     params.Name,
			}, nil
		},
	}

	svc := location.NewService(repo, &db.StubTxManager{}, noopRecorder(), time.Minute)
	updated, err := svc.UpdateLocation(context.Background(), location.UpdateParams{
		ID:       "loc1",
		Version:  1,
		ClientID: "client-a",
		Name:     "Headquarters",
	})
	if err != nil {
		t.Fatalf("svc.UpdateLocation() error = %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("updated.Version = %d, want: 2", updated.Version)
	}
}
