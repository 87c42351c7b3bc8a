package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

var (
	ErrNotFound        = errors.New("location repository: location not found")
	ErrQueryFailed     = errors.New("location repository: query failed")
	ErrDuplicate       = errors.New("location repository: name already taken for client")
	ErrVersionMismatch = errors.New("location repository: version mismatch")
	ErrInUse           = errors.New("location repository: location still referenced")
	ErrUnknownClient   = errors.New("location repository: client does not exist")
)

// InUseError carries the table that blocked a delete. It matches ErrInUse
// under errors.Is so callers keep testing for the sentinel.
type InUseError struct {
	ReferencedBy string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("location repository: location still referenced by %s", e.ReferencedBy)
}

func (e *InUseError) Is(target error) bool { return target == ErrInUse }

type Repository struct {
	db *sql.DB
}

var _ LocationRepository = &Repository{}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

type CreateParams struct {
	ClientID string
	Name     string
	City     string
	Country  string
	Active   bool
}

const QueryLocationCreate = `
INSERT INTO locations (client_id, name, city, country, active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, version, client_id, name, city, country, active, created_at, updated_at
`

func (r *Repository) Create(ctx context.Context, params CreateParams) (Location, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryLocationCreate,
		params.ClientID, params.Name, params.City, params.Country, params.Active)
	var loc Location
	if err := scanLocation(row, &loc); err != nil {
		if db.IsUniqueViolation(err) {
			return loc, ErrDuplicate
		}
		if db.IsForeignKeyViolation(err) {
			return loc, ErrUnknownClient
		}
		return loc, fmt.Errorf("%w: create location %s: %v", ErrQueryFailed, params.Name, err)
	}
	return loc, nil
}

const QueryLocationFind = `
SELECT id, version, client_id, name, city, country, active, created_at, updated_at FROM locations
WHERE id = $1
`

func (r *Repository) Find(ctx context.Context, locationID string) (*Location, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryLocationFind, locationID)
	var loc Location
	if err := scanLocation(row, &loc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find location with id %s: %v", ErrQueryFailed, locationID, err)
	}
	return &loc, nil
}

const queryLocationListBase = `
SELECT id, version, client_id, name, city, country, active, created_at, updated_at FROM locations
`

// List returns a page of locations, optionally filtered by client and search
// term. The total is -1 unless opts.Count is set.
func (r *Repository) List(ctx context.Context, clientID string, opts web.ListOptions) ([]Location, int64, error) {
	where := ""
	args := []any{}
	if clientID != "" {
		args = append(args, clientID)
		where = fmt.Sprintf("WHERE client_id = $%d\n", len(args))
	}
	if opts.Search != "" {
		args = append(args, db.EscapeLike(opts.Search))
		clause := fmt.Sprintf("(name ILIKE '%%' || $%d || '%%' OR city ILIKE '%%' || $%d || '%%')", len(args), len(args))
		if where == "" {
			where = "WHERE " + clause + "\n"
		} else {
			where = where[:len(where)-1] + " AND " + clause + "\n"
		}
	}

	query := fmt.Sprintf("%s%sORDER BY %s LIMIT $%d OFFSET $%d",
		queryLocationListBase, where, opts.OrderClause(), len(args)+1, len(args)+2)
	listArgs := append(args, opts.Top, opts.Skip)

	rows, err := r.db.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list locations: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var loc Location
		if err := scanLocation(rows, &loc); err != nil {
			return nil, 0, fmt.Errorf("location repository: scan location row: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("location repository: iterate over location rows: %w", err)
	}

	total := int64(-1)
	if opts.Count {
		countQuery := "SELECT count(*) FROM locations " + where
		if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("%w: count locations: %v", ErrQueryFailed, err)
		}
	}

	return locations, total, nil
}

const QueryLocationListByClient = `
SELECT id, version, client_id, name, city, country, active, created_at, updated_at FROM locations
WHERE client_id = $1 AND active
ORDER BY name
`

// ListByClient returns every active location of a client. It backs the
// lookup cache, so it takes no paging options.
func (r *Repository) ListByClient(ctx context.Context, clientID string) ([]Location, error) {
	rows, err := r.db.QueryContext(ctx, QueryLocationListByClient, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: list locations for client %s: %v", ErrQueryFailed, clientID, err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var loc Location
		if err := scanLocation(rows, &loc); err != nil {
			return nil, fmt.Errorf("location repository: scan location row: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("location repository: iterate over location rows: %w", err)
	}

	return locations, nil
}

type UpdateParams struct {
	ID      string
	Version int64
	// ClientID is checked by the service against the stored row; the update
	// never writes it.
	ClientID string
	Name    string
	City    string
	Country string
	Active  bool
}

const QueryLocationUpdate = `
UPDATE locations
SET name = $1, city = $2, country = $3, active = $4, version = version + 1, updated_at = now()
WHERE id = $5 AND ($6 = 0 OR version = $6)
RETURNING id, version, client_id, name, city, country, active, created_at, updated_at
`

func (r *Repository) Update(ctx context.Context, params UpdateParams) (Location, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryLocationUpdate,
		params.Name, params.City, params.Country, params.Active, params.ID, params.Version)
	var loc Location
	if err := scanLocation(row, &loc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return loc, r.staleOrMissing(ctx, params.ID)
		}
		if db.IsUniqueViolation(err) {
			return loc, ErrDuplicate
		}
		return loc, fmt.Errorf("%w: update location %s: %v", ErrQueryFailed, params.ID, err)
	}
	return loc, nil
}

const QueryLocationDelete = `
DELETE FROM locations
WHERE id = $1 AND ($2 = 0 OR version = $2)
`

func (r *Repository) Delete(ctx context.Context, locationID string, version int64) error {
	res, err := db.ExecutorFrom(ctx, r.db).ExecContext(ctx, QueryLocationDelete, locationID, version)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return &InUseError{ReferencedBy: db.ReferencingTable(err)}
		}
		return fmt.Errorf("%w: delete location %s: %v", ErrQueryFailed, locationID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("location repository: rows affected: %w", err)
	}

	if affected == 0 {
		return r.staleOrMissing(ctx, locationID)
	}
	return nil
}

func (r *Repository) staleOrMissing(ctx context.Context, locationID string) error {
	var exists bool
	err := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1)", locationID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: check location %s: %v", ErrQueryFailed, locationID, err)
	}
	if exists {
		return ErrVersionMismatch
	}
	return ErrNotFound
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(s scanner, loc *Location) error {
	return s.Scan(&loc.ID, &loc.Version, &loc.ClientID, &loc.Name, &loc.City, &loc.Country, &loc.Active, &loc.CreatedAt, &loc.UpdatedAt)
}
