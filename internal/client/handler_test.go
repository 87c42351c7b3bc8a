package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ferdiebergado/hrkit/internal/client"
	"github.com/ferdiebergado/hrkit/internal/model"
	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

func newRequestWithParams(method, target string, params any) *http.Request {
	req := httptest.NewRequest(method, target, http.NoBody)
	return req.WithContext(web.NewContextWithParams(req.Context(), params))
}

func TestHandler_Create(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		svc            client.ClientService
		wantStatusCode int
		wantETag       string
		wantLocation   string
	}{
		{
			name: "success - client created",
			svc: &client.StubService{
				CreateFunc: func(_ context.Context, params client.CreateParams) (client.Client, error) {
					return client.Client{
						Model:  model.Model{ID: "c1", Version: 1, CreatedAt: now, UpdatedAt: now},
						Name:   params.Name,
						Code:   params.Code,
						Active: params.Active,
					}, nil
				},
			},
			wantStatusCode: http.StatusCreated,
			wantETag:       `W/"1"`,
			wantLocation:   "/api/v1/clients/c1",
		},
		{
			name: "error - duplicate code",
			svc: &client.StubService{
				CreateFunc: func(_ context.Context, _ client.CreateParams) (client.Client, error) {
					return client.Client{}, client.ErrDuplicate
				},
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := client.NewHandler(tt.svc)
			req := newRequestWithParams(http.MethodPost, "/api/v1/clients", client.ClientRequest{
				Name: "Acme GmbH",
				Code: "ACME",
			})
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatusCode {
				t.Fatalf("res.StatusCode = %d, want: %d", res.StatusCode, tt.wantStatusCode)
			}
			if got := res.Header.Get(web.HeaderETag); got != tt.wantETag {
				t.Errorf("res.Header.Get(%q) = %q, want: %q", web.HeaderETag, got, tt.wantETag)
			}
			if got := res.Header.Get(web.HeaderLocation); got != tt.wantLocation {
				t.Errorf("res.Header.Get(%q) = %q, want: %q", web.HeaderLocation, got, tt.wantLocation)
			}
		})
	}
}

func TestHandler_Find(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		svc            client.ClientService
		wantStatusCode int
		wantETag       string
	}{
		{
			name: "success - client found",
			svc: &client.StubService{
				FindFunc: func(_ context.Context, clientID string) (*client.Client, error) {
					return &client.Client{
						Model:  model.Model{ID: clientID, Version: 3, CreatedAt: now, UpdatedAt: now},
						Name:   "Acme GmbH",
						Code:   "ACME",
						Active: true,
					}, nil
				},
			},
			wantStatusCode: http.StatusOK,
			wantETag:       `W/"3"`,
		},
		{
			name: "error - unknown client",
			svc: &client.StubService{
				FindFunc: func(_ context.Context, _ string) (*client.Client, error) {
					return nil, client.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := client.NewHandler(tt.svc)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/c1", http.NoBody)
			req.SetPathValue("id", "c1")
			rec := httptest.NewRecorder()

			h.Find(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatusCode {
				t.Fatalf("res.StatusCode = %d, want: %d", res.StatusCode, tt.wantStatusCode)
			}
			if got := res.Header.Get(web.HeaderETag); got != tt.wantETag {
				t.Errorf("res.Header.Get(%q) = %q, want: %q", web.HeaderETag, got, tt.wantETag)
			}
		})
	}
}

func TestHandler_Update_VersionChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		ifMatch        string
		svc            client.ClientService
		wantStatusCode int
	}{
		{
			name:           "error - missing If-Match",
			ifMatch:        "",
			svc:            &client.StubService{},
			wantStatusCode: http.StatusPreconditionRequired,
		},
		{
			name:    "error - stale version",
			ifMatch: `W/"2"`,
			svc: &client.StubService{
				UpdateFunc: func(_ context.Context, _ client.UpdateParams) (client.Client, error) {
					return client.Client{}, client.ErrVersionMismatch
				},
			},
			wantStatusCode: http.StatusPreconditionFailed,
		},
		{
			name:    "success - wildcard bypasses the check",
			ifMatch: "*",
			svc: &client.StubService{
				UpdateFunc: func(_ context.Context, params client.UpdateParams) (client.Client, error) {
					if params.Version != 0 {
						return client.Client{}, errors.New("wildcard must map to version 0")
					}
					return client.Client{
						Model: model.Model{ID: params.ID, Version: 5},
						Name:  params.Name,
						Code:  params.Code,
					}, nil
				},
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := client.NewHandler(tt.svc)
			req := newRequestWithParams(http.MethodPut, "/api/v1/clients/c1", client.ClientRequest{
				Name: "Acme GmbH",
				Code: "ACME",
			})
			req.SetPathValue("id", "c1")
			if tt.ifMatch != "" {
				req.Header.Set(web.HeaderIfMatch, tt.ifMatch)
			}
			rec := httptest.NewRecorder()

			h.Update(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatusCode {
				t.Fatalf("res.StatusCode = %d, want: %d", res.StatusCode, tt.wantStatusCode)
			}
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		ifMatch        string
		svc            client.ClientService
		wantStatusCode int
	}{
		{
			name:    "success - client deleted",
			ifMatch: `W/"1"`,
			svc: &client.StubService{
				DeleteFunc: func(_ context.Context, _ string, version int64) error {
					if version != 1 {
						return errors.New("version not forwarded")
					}
					return nil
				},
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:    "error - still referenced",
			ifMatch: `W/"1"`,
			svc: &client.StubService{
				DeleteFunc: func(_ context.Context, _ string, _ int64) error {
					return client.ErrInUse
				},
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:           "error - missing If-Match",
			svc:            &client.StubService{},
			wantStatusCode: http.StatusPreconditionRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := client.NewHandler(tt.svc)
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/clients/c1", http.NoBody)
			req.SetPathValue("id", "c1")
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

func TestHandler_Delete_NamesReferencingSet(t *testing.T) {
	t.Parallel()

	svc := &client.StubService{
		DeleteFunc: func(_ context.Context, _ string, _ int64) error {
			return &client.InUseError{ReferencedBy: "employees"}
		},
	}

	h := client.NewHandler(svc)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/clients/c1", http.NoBody)
	req.SetPathValue("id", "c1")
	req.Header.Set(web.HeaderIfMatch, `W/"1"`)
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusConflict {
		t.Fatalf("res.StatusCode = %d, want: %d", res.StatusCode, http.StatusConflict)
	}

	var payload web.ErrorResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := payload.Errors["referenced_by"]; got != "employees" {
		t.Errorf(`payload.Errors["referenced_by"] = %q, want: %q`, got, "employees")
	}
}

func TestHandler_List(t *testing.T) {
	t.Parallel()

	svc := &client.StubService{
		ListFunc: func(_ context.Context, opts web.ListOptions) ([]client.Client, int64, error) {
			if opts.Top != 2 || !opts.Count {
				return nil, 0, errors.New("list options not forwarded")
			}
			return []client.Client{
				{Model: model.Model{ID: "c1", Version: 1}, Name: "Acme GmbH", Code: "ACME", Active: true},
				{Model: model.Model{ID: "c2", Version: 1}, Name: "Globex", Code: "GLOBEX", Active: true},
			}, 7, nil
		},
	}

	h := client.NewHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients?$top=2&$count=true", http.NoBody)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("res.StatusCode = %d, want: %d", res.StatusCode, http.StatusOK)
	}

	var body web.OKResponse[*client.ListResponse]
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := len(body.Data.Clients); got != 2 {
		t.Fatalf("len(body.Data.Clients) = %d, want: 2", got)
	}
	if body.Data.Count == nil || *body.Data.Count != 7 {
		t.Errorf("body.Data.Count = %v, want: 7", body.Data.Count)
	}
}
