package model

import (
	"time"
)

// Model holds the columns shared by every business entity. Version backs the
// optimistic-concurrency check: it starts at 1 and every successful update
// increments it.
type Model struct {
	ID        string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
