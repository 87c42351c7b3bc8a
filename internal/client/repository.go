package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

var (
	ErrNotFound        = errors.New("client repository: client not found")
	ErrQueryFailed     = errors.New("client repository: query failed")
	ErrDuplicate       = errors.New("client repository: name or code already taken")
	ErrVersionMismatch = errors.New("client repository: version mismatch")
	ErrInUse           = errors.New("client repository: client still referenced")
)

// InUseError carries the table that blocked a delete. It matches ErrInUse
// under errors.Is so callers keep testing for the sentinel.
type InUseError struct {
	ReferencedBy string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("client repository: client still referenced by %s", e.ReferencedBy)
}

func (e *InUseError) Is(target error) bool { return target == ErrInUse }

type Repository struct {
	db *sql.DB
}

var _ ClientRepository = &Repository{}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

type CreateParams struct {
	Name   string
	Code   string
	Active bool
}

const QueryClientCreate = `
INSERT INTO clients (name, code, active)
VALUES ($1, $2, $3)
RETURNING id, version, name, code, active, created_at, updated_at
`

func (r *Repository) Create(ctx context.Context, params CreateParams) (Client, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryClientCreate, params.Name, params.Code, params.Active)
	var c Client
	if err := scanClient(row, &c); err != nil {
		if db.IsUniqueViolation(err) {
			return c, ErrDuplicate
		}
		return c, fmt.Errorf("%w: create client %s: %v", ErrQueryFailed, params.Code, err)
	}
	return c, nil
}

const QueryClientFind = `
SELECT id, version, name, code, active, created_at, updated_at FROM clients
WHERE id = $1
`

func (r *Repository) Find(ctx context.Context, clientID string) (*Client, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryClientFind, clientID)
	var c Client
	if err := scanClient(row, &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find client with id %s: %v", ErrQueryFailed, clientID, err)
	}
	return &c, nil
}

const queryClientListBase = `
SELECT id, version, name, code, active, created_at, updated_at FROM clients
`

const queryClientCountBase = "SELECT count(*) FROM clients"

// List returns a page of clients. The total is -1 unless opts.Count is set.
func (r *Repository) List(ctx context.Context, opts web.ListOptions) ([]Client, int64, error) {
	where := ""
	args := []any{}
	if opts.Search != "" {
		where = "WHERE name ILIKE '%' || $1 || '%' OR code ILIKE '%' || $1 || '%'\n"
		args = append(args, db.EscapeLike(opts.Search))
	}

	query := fmt.Sprintf("%s%sORDER BY %s LIMIT $%d OFFSET $%d",
		queryClientListBase, where, opts.OrderClause(), len(args)+1, len(args)+2)
	listArgs := append(args, opts.Top, opts.Skip)

	rows, err := r.db.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list clients: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := scanClient(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("client repository: scan client row: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("client repository: iterate over client rows: %w", err)
	}

	total := int64(-1)
	if opts.Count {
		countQuery := queryClientCountBase
		if where != "" {
			countQuery += " WHERE name ILIKE '%' || $1 || '%' OR code ILIKE '%' || $1 || '%'"
		}
		if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("%w: count clients: %v", ErrQueryFailed, err)
		}
	}

	return clients, total, nil
}

type UpdateParams struct {
	ID      string
	Version int64
	Name    string
	Code    string
	Active  bool
}

const QueryClientUpdate = `
UPDATE clients
SET name = $1, code = $2, active = $3, version = version + 1, updated_at = now()
WHERE id = $4 AND ($5 = 0 OR version = $5)
RETURNING id, version, name, code, active, created_at, updated_at
`

func (r *Repository) Update(ctx context.Context, params UpdateParams) (Client, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryClientUpdate,
		params.Name, params.Code, params.Active, params.ID, params.Version)
	var c Client
	if err := scanClient(row, &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, r.staleOrMissing(ctx, params.ID)
		}
		if db.IsUniqueViolation(err) {
			return c, ErrDuplicate
		}
		return c, fmt.Errorf("%w: update client %s: %v", ErrQueryFailed, params.ID, err)
	}
	return c, nil
}

const QueryClientDelete = `
DELETE FROM clients
WHERE id = $1 AND ($2 = 0 OR version = $2)
`

func (r *Repository) Delete(ctx context.Context, clientID string, version int64) error {
	res, err := db.ExecutorFrom(ctx, r.db).ExecContext(ctx, QueryClientDelete, clientID, version)
	if err != nil {
		// The schema restricts deletes of referenced clients.
		if db.IsForeignKeyViolation(err) {
			return &InUseError{ReferencedBy: db.ReferencingTable(err)}
		}
		return fmt.Errorf("%w: delete client %s: %v", ErrQueryFailed, clientID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("client repository: rows affected: %w", err)
	}

	if affected == 0 {
		return r.staleOrMissing(ctx, clientID)
	}
	return nil
}

func (r *Repository) staleOrMissing(ctx context.Context, clientID string) error {
	var exists bool
	err := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)", clientID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: check client %s: %v", ErrQueryFailed, clientID, err)
	}
	if exists {
		return ErrVersionMismatch
	}
	return ErrNotFound
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner, c *Client) error {
	return s.Scan(&c.ID, &c.Version, &c.Name, &c.Code, &c.Active, &c.CreatedAt, &c.UpdatedAt)
}
