package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

var (
	ErrNotFound         = errors.New("employee repository: employee not found")
	ErrQueryFailed      = errors.New("employee repository: query failed")
	ErrDuplicate        = errors.New("employee repository: email or badge already taken")
	ErrVersionMismatch  = errors.New("employee repository: version mismatch")
	ErrUnknownClient    = errors.New("employee repository: client does not exist")
	ErrUnknownReference = errors.New("employee repository: referenced row does not exist")
)

type Repository struct {
	db *sql.DB
}

var _ EmployeeRepository = &Repository{}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

type CreateParams struct {
	ClientID     string
	BadgeID      string
	FirstName    string
	LastName     string
	Email        string
	CostCenterID *string
	LocationID   *string
	HiredAt      string
	Active       bool
}

const QueryEmployeeCreate = `
INSERT INTO employees (client_id, badge_id, first_name, last_name, email, cost_center_id, location_id, hired_at, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, version, client_id, badge_id, first_name, last_name, email, cost_center_id, location_id, hired_at, active, created_at, updated_at
`

func (r *Repository) Create(ctx context.Context, params CreateParams) (Employee, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryEmployeeCreate,
		params.ClientID, params.BadgeID, params.FirstName, params.LastName, params.Email,
		params.CostCenterID, params.LocationID, params.HiredAt, params.Active)
	var emp Employee
	if err := scanEmployee(row, &emp); err != nil {
		if db.IsUniqueViolation(err) {
			return emp, ErrDuplicate
		}
		if db.IsForeignKeyViolation(err) {
			return emp, ErrUnknownReference
		}
		return emp, fmt.Errorf("%w: create employee %s: %v", ErrQueryFailed, params.Email, err)
	}
	return emp, nil
}

const QueryEmployeeFind = `
SELECT id, version, client_id, badge_id, first_name, last_name, email, cost_center_id, location_id, hired_at, active, created_at, updated_at
FROM employees
WHERE id = $1
`

func (r *Repository) Find(ctx context.Context, employeeID string) (*Employee, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryEmployeeFind, employeeID)
	var emp Employee
	if err := scanEmployee(row, &emp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find employee with id %s: %v", ErrQueryFailed, employeeID, err)
	}
	return &emp, nil
}

const queryEmployeeListBase = `
SELECT id, version, client_id, badge_id, first_name, last_name, email, cost_center_id, location_id, hired_at, active, created_at, updated_at
FROM employees
`

// List returns a page of employees, optionally filtered by client and search
// term. The total is -1 unless opts.Count is set.
func (r *Repository) List(ctx context.Context, clientID string, opts web.ListOptions) ([]Employee, int64, error) {
	where := ""
	args := []any{}
	if clientID != "" {
		args = append(args, clientID)
		where = fmt.Sprintf("WHERE client_id = $%d\n", len(args))
	}
	if opts.Search != "" {
		args = append(args, db.EscapeLike(opts.Search))
		clause := fmt.Sprintf(
			"(first_name ILIKE '%%' || $%d || '%%' OR last_name ILIKE '%%' || $%d || '%%' OR email ILIKE '%%' || $%d || '%%' OR badge_id ILIKE '%%' || $%d || '%%')",
			len(args), len(args), len(args), len(args))
		if where == "" {
			where = "WHERE " + clause + "\n"
		} else {
			where = where[:len(where)-1] + " AND " + clause + "\n"
		}
	}

	query := fmt.Sprintf("%s%sORDER BY %s LIMIT $%d OFFSET $%d",
		queryEmployeeListBase, where, opts.OrderClause(), len(args)+1, len(args)+2)
	listArgs := append(args, opts.Top, opts.Skip)

	rows, err := r.db.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list employees: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := scanEmployee(rows, &emp); err != nil {
			return nil, 0, fmt.Errorf("employee repository: scan employee row: %w", err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("employee repository: iterate over employee rows: %w", err)
	}

	total := int64(-1)
	if opts.Count {
		countQuery := "SELECT count(*) FROM employees " + where
		if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("%w: count employees: %v", ErrQueryFailed, err)
		}
	}

	return employees, total, nil
}

const QueryEmployeeListAll = `
SELECT id, version, client_id, badge_id, first_name, last_name, email, cost_center_id, location_id, hired_at, active, created_at, updated_at
FROM employees
WHERE $1::text = '' OR client_id::text = $1::text
ORDER BY badge_id
`

// ListAll returns the full (optionally client-filtered) employee set in
// badge order. It backs the CSV export.
func (r *Repository) ListAll(ctx context.Context, clientID string) ([]Employee, error) {
	rows, err := r.db.QueryContext(ctx, QueryEmployeeListAll, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: list all employees: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := scanEmployee(rows, &emp); err != nil {
			return nil, fmt.Errorf("employee repository: scan employee row: %w", err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("employee repository: iterate over employee rows: %w", err)
	}

	return employees, nil
}

type UpdateParams struct {
	ID           string
	Version      int64
	ClientID     string
	FirstName    string
	LastName     string
	Email        string
	CostCenterID *string
	LocationID   *string
	HiredAt      string
	Active       bool
}

const QueryEmployeeUpdate = `
UPDATE employees
SET first_name = $1, last_name = $2, email = $3, cost_center_id = $4, location_id = $5,
    hired_at = $6, active = $7, version = version + 1, updated_at = now()
WHERE id = $8 AND ($9 = 0 OR version = $9)
RETURNING id, version, client_id, badge_id, first_name, last_name, email, cost_center_id, location_id, hired_at, active, created_at, updated_at
`

func (r *Repository) Update(ctx context.Context, params UpdateParams) (Employee, error) {
	row := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryEmployeeUpdate,
		params.FirstName, params.LastName, params.Email, params.CostCenterID, params.LocationID,
		params.HiredAt, params.Active, params.ID, params.Version)
	var emp Employee
	if err := scanEmployee(row, &emp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emp, r.staleOrMissing(ctx, params.ID)
		}
		if db.IsUniqueViolation(err) {
			return emp, ErrDuplicate
		}
		if db.IsForeignKeyViolation(err) {
			return emp, ErrUnknownReference
		}
		return emp, fmt.Errorf("%w: update employee %s: %v", ErrQueryFailed, params.ID, err)
	}
	return emp, nil
}

const QueryEmployeeDelete = `
DELETE FROM employees
WHERE id = $1 AND ($2 = 0 OR version = $2)
`

func (r *Repository) Delete(ctx context.Context, employeeID string, version int64) error {
	res, err := db.ExecutorFrom(ctx, r.db).ExecContext(ctx, QueryEmployeeDelete, employeeID, version)
	if err != nil {
		return fmt.Errorf("%w: delete employee %s: %v", ErrQueryFailed, employeeID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("employee repository: rows affected: %w", err)
	}

	if affected == 0 {
		return r.staleOrMissing(ctx, employeeID)
	}
	return nil
}

const QueryCostCenterClient = `SELECT client_id FROM cost_centers WHERE id = $1`

// CostCenterClient reports which client owns the given cost center.
func (r *Repository) CostCenterClient(ctx context.Context, costCenterID string) (string, error) {
	var clientID string
	err := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryCostCenterClient, costCenterID).Scan(&clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUnknownReference
		}
		return "", fmt.Errorf("%w: resolve cost center %s: %v", ErrQueryFailed, costCenterID, err)
	}
	return clientID, nil
}

const QueryLocationClient = `SELECT client_id FROM locations WHERE id = $1`

// LocationClient reports which client owns the given location.
func (r *Repository) LocationClient(ctx context.Context, locationID string) (string, error) {
	var clientID string
	err := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, QueryLocationClient, locationID).Scan(&clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUnknownReference
		}
		return "", fmt.Errorf("%w: resolve location %s: %v", ErrQueryFailed, locationID, err)
	}
	return clientID, nil
}

func (r *Repository) staleOrMissing(ctx context.Context, employeeID string) error {
	var exists bool
	err := db.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)", employeeID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: check employee %s: %v", ErrQueryFailed, employeeID, err)
	}
	if exists {
		return ErrVersionMismatch
	}
	return ErrNotFound
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner, emp *Employee) error {
	var costCenterID, locationID sql.NullString
	err := s.Scan(&emp.ID, &emp.Version, &emp.ClientID, &emp.BadgeID, &emp.FirstName, &emp.LastName,
		&emp.Email, &costCenterID, &locationID, &emp.HiredAt, &emp.Active, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return err
	}
	if costCenterID.Valid {
		emp.CostCenterID = &costCenterID.String
	}
	if locationID.Valid {
		emp.LocationID = &locationID.String
	}
	return nil
}
