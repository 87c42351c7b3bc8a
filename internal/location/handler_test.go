package location_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferdiebergado/hrkit/internal/location"
	"github.com/ferdiebergado/hrkit/internal/model"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

func TestHandler_Lookup(t *testing.T) {
	t.Parallel()

	svc := &location.StubService{
		LookupFunc: func(_ context.Context, clientID string) ([]location.Location, error) {
			if clientID != "client-a" {
				t.Errorf("clientID = %q, want: %q", clientID, "client-a")
			}
			return []location.Location{
				{Model: model.Model{ID: "loc1", Version: 1}, ClientID: clientID, Name: "HQ", City: "Manila", Country: "PH", Active: true},
				{Model: model.Model{ID: "loc2", Version: 1}, ClientID: clientID, Name: "Satellite", Active: true},
			}, nil
		},
	}

	h := location.NewHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/$lookup?client_id=client-a", http.NoBody)
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("res.StatusCode = %d, want: %d", res.StatusCode, http.StatusOK)
	}

	var payload web.OKResponse[*location.ListResponse]
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Data.Locations) != 2 {
		t.Fatalf("len(Locations) = %d, want: 2", len(payload.Data.Locations))
	}
	if got := payload.Data.Locations[0].Name; got != "HQ" {
		t.Errorf("Locations[0].Name = %q, want: %q", got, "HQ")
	}
}

func TestHandler_Lookup_RequiresClientID(t *testing.T) {
	t.Parallel()

	h := location.NewHandler(&location.StubService{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/$lookup", http.NoBody)
	rec := httptest.NewRecorder()

	h.Lookup(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("res.StatusCode = %d, want: %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestHandler_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		ifMatch        string
		svc            location.LocationService
		wantStatusCode int
	}{
		{
			name:    "success - location deleted",
			ifMatch: `W/"2"`,
			svc: &location.StubService{
				DeleteFunc: func(_ context.Context, _ string, version int64) error {
					if version != 2 {
						t.Errorf("version = %d, want: 2", version)
					}
					return nil
				},
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:           "error - missing precondition",
			svc:            &location.StubService{},
			wantStatusCode: http.StatusPreconditionRequired,
		},
		{
			name:    "error - stale version",
			ifMatch: `W/"1"`,
			svc: &location.StubService{
				DeleteFunc: func(_ context.Context, _ string, _ int64) error {
					return location.ErrVersionMismatch
				},
			},
			wantStatusCode: http.StatusPreconditionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := location.NewHandler(tt.svc)
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/locations/loc1", http.NoBody)
			req.SetPathValue("id", "loc1")
			if tt.ifMatch != "" {
				req.Header.Set(web.HeaderIfMatch, tt.ifMatch)
			}
			rec := httptest.NewRecorder()

			h.Delete(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatusCode {
				t.Fatalf("res.StatusCode = %d, want: %d", res.StatusCode, tt.wantStatusCode)
			}
		})
	}
}
