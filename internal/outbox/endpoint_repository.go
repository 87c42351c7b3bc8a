package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

var (
	ErrEndpointNotFound = errors.New("endpoint repository: endpoint not found")
	ErrVersionMismatch  = errors.New("endpoint repository: version mismatch")
	ErrDuplicateURL     = errors.New("endpoint repository: url already registered")
)

type EndpointRepository struct {
	db *sql.DB
}

func NewEndpointRepository(conn *sql.DB) *EndpointRepository {
	return &EndpointRepository{db: conn}
}

type CreateEndpointParams struct {
	URL    string
	Secret string
	Events []string
	Active bool
}

const QueryEndpointCreate = `
INSERT INTO endpoints (url, secret, events, active)
VALUES ($1, $2, $3, $4)
RETURNING id, version, url, secret, events, active, created_at, updated_at
`

func (r *EndpointRepository) Create(ctx context.Context, params CreateEndpointParams) (Endpoint, error) {
	events, err := json.Marshal(params.Events)
	if err != nil {
		return Endpoint{}, fmt.Errorf("marshal endpoint events: %w", err)
	}

	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryEndpointCreate, params.URL, params.Secret, events, params.Active)
	ep, err := scanEndpoint(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Endpoint{}, ErrDuplicateURL
		}
		return Endpoint{}, fmt.Errorf("%w: create endpoint %s: %v", ErrQueryFailed, params.URL, err)
	}
	return ep, nil
}

const QueryEndpointFind = `
SELECT id, version, url, secret, events, active, created_at, updated_at FROM endpoints
WHERE id = $1
`

func (r *EndpointRepository) Find(ctx context.Context, endpointID string) (*Endpoint, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryEndpointFind, endpointID)
	ep, err := scanEndpoint(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEndpointNotFound
		}
		return nil, fmt.Errorf("%w: find endpoint with id %s: %v", ErrQueryFailed, endpointID, err)
	}
	return &ep, nil
}

const QueryEndpointList = `
SELECT id, version, url, secret, events, active, created_at, updated_at FROM endpoints
ORDER BY created_at
`

func (r *EndpointRepository) List(ctx context.Context) ([]Endpoint, error) {
	rows, err := r.db.QueryContext(ctx, QueryEndpointList)
	if err != nil {
		return nil, fmt.Errorf("%w: list endpoints: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var endpoints []Endpoint
	for rows.Next() {
		ep, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("endpoint repository: scan endpoint row: %w", err)
		}
		endpoints = append(endpoints, ep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("endpoint repository: iterate over endpoint rows: %w", err)
	}

	return endpoints, nil
}

const QueryEndpointListActive = `
SELECT id, version, url, secret, events, active, created_at, updated_at FROM endpoints
WHERE active
ORDER BY created_at
`

// ListActive returns the endpoints eligible for delivery. Kind matching
// happens in Go since subscriptions may contain the "*" wildcard.
func (r *EndpointRepository) ListActive(ctx context.Context) ([]Endpoint, error) {
	rows, err := r.db.QueryContext(ctx, QueryEndpointListActive)
	if err != nil {
		return nil, fmt.Errorf("%w: list active endpoints: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var endpoints []Endpoint
	for rows.Next() {
		ep, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("endpoint repository: scan endpoint row: %w", err)
		}
		endpoints = append(endpoints, ep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("endpoint repository: iterate over endpoint rows: %w", err)
	}

	return endpoints, nil
}

type UpdateEndpointParams struct {
	ID      string
	Version int64
	URL     string
	Events  []string
	Active  bool
}

const QueryEndpointUpdate = `
UPDATE endpoints
SET url = $1, events = $2, active = $3, version = version + 1, updated_at = now()
WHERE id = $4 AND ($5 = 0 OR version = $5)
RETURNING id, version, url, secret, events, active, created_at, updated_at
`

func (r *EndpointRepository) Update(ctx context.Context, params UpdateEndpointParams) (Endpoint, error) {
	events, err := json.Marshal(params.Events)
	if err != nil {
		return Endpoint{}, fmt.Errorf("marshal endpoint events: %w", err)
	}

	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryEndpointUpdate,
		params.URL, events, params.Active, params.ID, params.Version)
	ep, err := scanEndpoint(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Endpoint{}, r.staleOrMissing(ctx, params.ID)
		}
		if db.IsUniqueViolation(err) {
			return Endpoint{}, ErrDuplicateURL
		}
		return Endpoint{}, fmt.Errorf("%w: update endpoint %s: %v", ErrQueryFailed, params.ID, err)
	}
	return ep, nil
}

const QueryEndpointDelete = `
DELETE FROM endpoints
WHERE id = $1 AND ($2 = 0 OR version = $2)
`

func (r *EndpointRepository) Delete(ctx context.Context, endpointID string, version int64) error {
	res, err := db.ExecutorFrom(ctx, r.db).ExecContext(ctx, QueryEndpointDelete, endpointID, version)
	if err != nil {
		return fmt.Errorf("%w: delete endpoint %s: %v", ErrQueryFailed, endpointID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("endpoint repository: rows affected: %w", err)
	}

	if affected == 0 {
		return r.staleOrMissing(ctx, endpointID)
	}
	return nil
}

// staleOrMissing distinguishes a version conflict from a missing row after a
// guarded statement matched nothing.
func (r *EndpointRepository) staleOrMissing(ctx context.Context, endpointID string) error {
	var exists bool
	err := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM endpoints WHERE id = $1)", endpointID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: check endpoint %s: %v", ErrQueryFailed, endpointID, err)
	}
	if exists {
		return ErrVersionMismatch
	}
	return ErrEndpointNotFound
}

type endpointScanner interface {
	Scan(dest ...any) error
}

func scanEndpoint(s endpointScanner) (Endpoint, error) {
	var ep Endpoint
	var events []byte
	if err := s.Scan(&ep.ID, &ep.Version, &ep.URL, &ep.Secret, &events, &ep.Active, &ep.CreatedAt, &ep.UpdatedAt); err != nil {
		return ep, err
	}
	if err := json.Unmarshal(events, &ep.Events); err != nil {
		return ep, fmt.Errorf("unmarshal endpoint events: %w", err)
	}
	return ep, nil
}
