package employee

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

// BadgeSource hands out the next badge ID for a client.
type BadgeSource interface {
	Next(ctx context.Context, clientID string) (string, error)
}

// Sequencer claims badge numbers from a per-client counter row. The claim
// joins the surrounding transaction, so a rolled-back create burns the
// number. Gaps are fine; the unique index on badge_id keeps duplicates out.
type Sequencer struct {
	db       *sql.DB
	prefix   string
	padWidth int
}

var _ BadgeSource = &Sequencer{}

func NewSequencer(conn *sql.DB, prefix string, padWidth int) *Sequencer {
	return &Sequencer{db: conn, prefix: prefix, padWidth: padWidth}
}

const QueryBadgeNext = `
INSERT INTO employee_counters (client_id, next) VALUES ($1, 1)
ON CONFLICT (client_id) DO UPDATE SET next = employee_counters.next + 1
RETURNING next
`

func (s *Sequencer) Next(ctx context.Context, clientID string) (string, error) {
	var n int64
	err := db.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, QueryBadgeNext, clientID).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("claim badge number for client %s: %w", clientID, err)
	}
	return FormatBadge(s.prefix, s.padWidth, n), nil
}

// FormatBadge renders a counter value as a badge ID, e.g. EMP-00042.
func FormatBadge(prefix string, padWidth int, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, padWidth, n)
}
