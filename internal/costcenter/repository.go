package costcenter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

var (
	ErrNotFound        = errors.New("costcenter repository: cost center not found")
	ErrQueryFailed     = errors.New("costcenter repository: query failed")
	ErrDuplicate       = errors.New("costcenter repository: code already taken for client")
	ErrVersionMismatch = errors.New("costcenter repository: version mismatch")
	ErrInUse           = errors.New("costcenter repository: cost center still referenced")
	ErrUnknownClient   = errors.New("costcenter repository: client does not exist")
)

// InUseError carries the table that blocked a delete. It matches ErrInUse
// under errors.Is so callers keep testing for the sentinel.
type InUseError struct {
	ReferencedBy string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("costcenter repository: cost center still referenced by %s", e.ReferencedBy)
}

func (e *InUseError) Is(target error) bool { return target == ErrInUse }

type Repository struct {
	db *sql.DB
}

var _ CostCenterRepository = &Repository{}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

type CreateParams struct {
	ClientID string
	Code     string
	Name     string
	Active   bool
}

const QueryCostCenterCreate = `
INSERT INTO cost_centers (client_id, code, name, active)
VALUES ($1, $2, $3, $4)
RETURNING id, version, client_id, code, name, active, created_at, updated_at
`

func (r *Repository) Create(ctx context.Context, params CreateParams) (CostCenter, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryCostCenterCreate,
		params.ClientID, params.Code, params.Name, params.Active)
	var cc CostCenter
	if err := scanCostCenter(row, &cc); err != nil {
		if db.IsUniqueViolation(err) {
			return cc, ErrDuplicate
		}
		if db.IsForeignKeyViolation(err) {
			return cc, ErrUnknownClient
		}
		return cc, fmt.Errorf("%w: create cost center %s: %v", ErrQueryFailed, params.Code, err)
	}
	return cc, nil
}

const QueryCostCenterFind = `
SELECT id, version, client_id, code, name, active, created_at, updated_at FROM cost_centers
WHERE id = $1
`

func (r *Repository) Find(ctx context.Context, costCenterID string) (*CostCenter, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryCostCenterFind, costCenterID)
	var cc CostCenter
	if err := scanCostCenter(row, &cc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find cost center with id %s: %v", ErrQueryFailed, costCenterID, err)
	}
	return &cc, nil
}

const queryCostCenterListBase = `
SELECT id, version, client_id, code, name, active, created_at, updated_at FROM cost_centers
`

// List returns a page of cost centers, optionally filtered by client and
// search term. The total is -1 unless opts.Count is set.
func (r *Repository) List(ctx context.Context, clientID string, opts web.ListOptions) ([]CostCenter, int64, error) {
	where := ""
	args := []any{}
	if clientID != "" {
		args = append(args, clientID)
		where = fmt.Sprintf("WHERE client_id = $%d\n", len(args))
	}
	if opts.Search != "" {
		args = append(args, db.EscapeLike(opts.Search))
		clause := fmt.Sprintf("(name ILIKE '%%' || $%d || '%%' OR code ILIKE '%%' || $%d || '%%')", len(args), len(args))
		if where == "" {
			where = "WHERE " + clause + "\n"
		} else {
			where = where[:len(where)-1] + " AND " + clause + "\n"
		}
	}

	query := fmt.Sprintf("%s%sORDER BY %s LIMIT $%d OFFSET $%d",
		queryCostCenterListBase, where, opts.OrderClause(), len(args)+1, len(args)+2)
	listArgs := append(args, opts.Top, opts.Skip)

	rows, err := r.db.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list cost centers: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var centers []CostCenter
	for rows.Next() {
		var cc CostCenter
		if err := scanCostCenter(rows, &cc); err != nil {
			return nil, 0, fmt.Errorf("costcenter repository: scan cost center row: %w", err)
		}
		centers = append(centers, cc)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("costcenter repository: iterate over cost center rows: %w", err)
	}

	total := int64(-1)
	if opts.Count {
		countQuery := "SELECT count(*) FROM cost_centers " + where
		if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("%w: count cost centers: %v", ErrQueryFailed, err)
		}
	}

	return centers, total, nil
}

const QueryCostCenterListByClient = `
SELECT id, version, client_id, code, name, active, created_at, updated_at FROM cost_centers
WHERE client_id = $1 AND active
ORDER BY code
`

// ListByClient returns every active cost center of a client. It backs the
// lookup cache, so it takes no paging options.
func (r *Repository) ListByClient(ctx context.Context, clientID string) ([]CostCenter, error) {
	rows, err := r.db.QueryContext(ctx, QueryCostCenterListByClient, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: list cost centers for client %s: %v", ErrQueryFailed, clientID, err)
	}
	defer rows.Close()

	var centers []CostCenter
	for rows.Next() {
		var cc CostCenter
		if err := scanCostCenter(rows, &cc); err != nil {
			return nil, fmt.Errorf("costcenter repository: scan cost center row: %w", err)
		}
		centers = append(centers, cc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("costcenter repository: iterate over cost center rows: %w", err)
	}

	return centers, nil
}

type UpdateParams struct {
	ID      string
	Version int64
	// ClientID is checked by the service against the stored row; the update
	// never writes it.
	ClientID string
	Code     string
	Name     string
	Active   bool
}

const QueryCostCenterUpdate = `
UPDATE cost_centers
SET code = $1, name = $2, active = $3, version = version + 1, updated_at = now()
WHERE id = $4 AND ($5 = 0 OR version = $5)
RETURNING id, version, client_id, code, name, active, created_at, updated_at
`

func (r *Repository) Update(ctx context.Context, params UpdateParams) (CostCenter, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryCostCenterUpdate,
		params.Code, params.Name, params.Active, params.ID, params.Version)
	var cc CostCenter
	if err := scanCostCenter(row, &cc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cc, r.staleOrMissing(ctx, params.ID)
		}
		if db.IsUniqueViolation(err) {
			return cc, ErrDuplicate
		}
		return cc, fmt.Errorf("%w: update cost center %s: %v", ErrQueryFailed, params.ID, err)
	}
	return cc, nil
}

const QueryCostCenterDelete = `
DELETE FROM cost_centers
WHERE id = $1 AND ($2 = 0 OR version = $2)
`

func (r *Repository) Delete(ctx context.Context, costCenterID string, version int64) error {
	res, err := db.ExecutorFrom(ctx, r.db).ExecContext(ctx, QueryCostCenterDelete, costCenterID, version)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return &InUseError{ReferencedBy: db.ReferencingTable(err)}
		}
		return fmt.Errorf("%w: delete cost center %s: %v", ErrQueryFailed, costCenterID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("costcenter repository: rows affected: %w", err)
	}

	if affected == 0 {
		return r.staleOrMissing(ctx, costCenterID)
	}
	return nil
}

func (r *Repository) staleOrMissing(ctx context.Context, costCenterID string) error {
	var exists bool
	err := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM cost_centers WHERE id = $1)", costCenterID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: check cost center %s: %v", ErrQueryFailed, costCenterID, err)
	}
	if exists {
		return ErrVersionMismatch
	}
	return ErrNotFound
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCostCenter(s scanner, cc *CostCenter) error {
	return s.Scan(&cc.ID, &cc.Version, &cc.ClientID, &cc.Code, &cc.Name, &cc.Active, &cc.CreatedAt, &cc.UpdatedAt)
}
