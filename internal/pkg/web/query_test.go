package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
)

var sortable = map[string]string{
	"name":       "name",
	"created_at": "created_at",
}

func TestParseListOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		wantOpts web.ListOptions
		wantErr  bool
	}{
		{
			name:     "success - defaults",
			query:    "",
			wantOpts: web.ListOptions{Top: web.DefaultTop, OrderBy: "name"},
		},
		{
			name:     "success - top and skip",
			query:    "$top=10&$skip=20",
			wantOpts: web.ListOptions{Top: 10, Skip: 20, OrderBy: "name"},
		},
		{
			name:     "success - top capped",
			query:    "$top=9999",
			wantOpts: web.ListOptions{Top: web.MaxTop, OrderBy: "name"},
		},
		{
			name:     "success - orderby desc",
			query:    "$orderby=created_at+desc",
			wantOpts: web.ListOptions{Top: web.DefaultTop, OrderBy: "created_at", Desc: true},
		},
		{
			name:     "success - count and search",
			query:    "$count=true&$search=acme",
			wantOpts: web.ListOptions{Top: web.DefaultTop, OrderBy: "name", Count: true, Search: "acme"},
		},
		{
			name:    "error - top not a number",
			query:   "$top=ten",
			wantErr: true,
		},
		{
			name:    "error - negative skip",
			query:   "$skip=-1",
			wantErr: true,
		},
		{
			name:    "error - orderby outside whitelist",
			query:   "$orderby=password",
			wantErr: true,
		},
		{
			name:    "error - bad order direction",
			query:   "$orderby=name+sideways",
			wantErr: true,
		},
		{
			name:    "error - count not a bool",
			query:   "$count=maybe",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/clients?"+tt.query, http.NoBody)
			opts, err := web.ParseListOptions(req, sortable, "name")
			if tt.wantErr {
				if err == nil {
					t.Fatal("web.ParseListOptions() error = nil, want an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("web.ParseListOptions() error = %v", err)
			}

			if opts != tt.wantOpts {
				t.Errorf("opts = %+v, want: %+v", opts, tt.wantOpts)
			}
		})
	}
}

func TestListOptions_OrderClause(t *testing.T) {
	t.Parallel()

	asc := web.ListOptions{OrderBy: "name"}
	if got, want := asc.OrderClause(), "name ASC"; got != want {
		t.Errorf("asc.OrderClause() = %q, want: %q", got, want)
	}

	desc := web.ListOptions{OrderBy: "created_at", Desc: true}
	if got, want := desc.OrderClause(), "created_at DESC"; got != want {
		t.Errorf("desc.OrderClause() = %q, want: %q", got, want)
	}
}
