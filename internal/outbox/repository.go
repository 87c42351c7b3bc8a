package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ferdiebergado/hrkit/internal/pkg/web"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("outbox repository: event not found")
	ErrQueryFailed = errors.New("outbox repository: query failed")
)

type Repository struct {
	db *sql.DB
}

var _ Recorder = &Repository{}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: conn}
}

// Recorder is what entity services use to enqueue an event alongside their
// mutation. The insert joins the caller's transaction from the context.
type Recorder interface {
	Record(ctx context.Context, kind string, payload any) error
}

const QueryEventInsert = `
INSERT INTO outbox_events (id, kind, payload, status, attempts, next_attempt_at)
VALUES ($1, $2, $3, $4, 0, now())
`

func (r *Repository) Record(ctx context.Context, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s event: %w", kind, err)
	}

	ex := db.ExecutorFrom(ctx, r.db)
	if _, err := ex.ExecContext(ctx, QueryEventInsert, uuid.NewString(), kind, body, StatusPending); err != nil {
		return fmt.Errorf("%w: record %s event: %v", ErrQueryFailed, kind, err)
	}
	return nil
}

// ClaimDue atomically picks up to limit due pending events and leases them
// for the given duration, so concurrent pollers never claim the same event.
// The attempt counter is spent at claim time.
const QueryEventClaim = `
UPDATE outbox_events
SET attempts = attempts + 1, next_attempt_at = now() + make_interval(secs => $2)
WHERE id IN (
	SELECT id FROM outbox_events
	WHERE status = 'pending' AND next_attempt_at <= now()
	ORDER BY created_at
	LIMIT $1
	FOR UPDATE SKIP LOCKED
)
RETURNING id, kind, payload, status, attempts, next_attempt_at, created_at
`

func (r *Repository) ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, QueryEventClaim, limit, lease.Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: claim due events: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.Payload, &ev.Status, &ev.Attempts, &ev.NextAttemptAt, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("outbox repository: scan claimed event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outbox repository: iterate over claimed events: %w", err)
	}

	return events, nil
}

const QueryEventMarkDelivered = `
UPDATE outbox_events
SET status = 'delivered', delivered_at = now()
WHERE id = $1
`

func (r *Repository) MarkDelivered(ctx context.Context, eventID string) error {
	if _, err := r.db.ExecContext(ctx, QueryEventMarkDelivered, eventID); err != nil {
		return fmt.Errorf("%w: mark event %s delivered: %v", ErrQueryFailed, eventID, err)
	}
	return nil
}

const QueryEventReschedule = `
UPDATE outbox_events
SET next_attempt_at = now() + make_interval(secs => $2)
WHERE id = $1 AND status = 'pending'
`

func (r *Repository) Reschedule(ctx context.Context, eventID string, backoff time.Duration) error {
	if _, err := r.db.ExecContext(ctx, QueryEventReschedule, eventID, backoff.Seconds()); err != nil {
		return fmt.Errorf("%w: reschedule event %s: %v", ErrQueryFailed, eventID, err)
	}
	return nil
}

const QueryEventMarkDead = `
UPDATE outbox_events
SET status = 'dead'
WHERE id = $1
`

func (r *Repository) MarkDead(ctx context.Context, eventID string) error {
	if _, err := r.db.ExecContext(ctx, QueryEventMarkDead, eventID); err != nil {
		return fmt.Errorf("%w: mark event %s dead: %v", ErrQueryFailed, eventID, err)
	}
	return nil
}

const queryEventListBase = `
SELECT id, kind, payload, status, attempts, next_attempt_at, created_at, delivered_at
FROM outbox_events
`

// List returns events newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string, opts web.ListOptions) ([]Event, error) {
	query := queryEventListBase
	args := []any{}
	if status != "" {
		query += "WHERE status = $1\n"
		args = append(args, status)
	}
	query += fmt.Sprintf("ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, opts.Top, opts.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list events: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.Payload, &ev.Status, &ev.Attempts, &ev.NextAttemptAt, &ev.CreatedAt, &ev.DeliveredAt); err != nil {
			return nil, fmt.Errorf("outbox repository: scan event row: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outbox repository: iterate over event rows: %w", err)
	}

	return events, nil
}
