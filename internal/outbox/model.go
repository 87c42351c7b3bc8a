package outbox

import (
	"encoding/json"
	"time"

	"github.com/ferdiebergado/hrkit/internal/model"
)

// Event statuses. An event stays pending until every matching endpoint has
// accepted it; after the attempt budget is spent it is parked as dead.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusDead      = "dead"
)

// Event is a row in the outbox. It is inserted in the same transaction as
// the business mutation it describes, so a committed mutation always has a
// matching event and an aborted one never does.
type Event struct {
	ID            string
	Kind          string
	Payload       json.RawMessage
	Status        string
	Attempts      int
	NextAttemptAt time.Time
	CreatedAt     time.Time
	DeliveredAt   *time.Time
}

// Endpoint is a webhook subscription. Deliveries to it are signed with its
// secret; the secret is write-only and never leaves the server.
type Endpoint struct {
	model.Model

	URL    string
	Secret string
	Events []string
	Active bool
}

// Subscribed reports whether the endpoint wants events of the given kind.
// A subscription to "*" matches everything.
func (e *Endpoint) Subscribed(kind string) bool {
	for _, ev := range e.Events {
		if ev == kind || ev == "*" {
			return true
		}
	}
	return false
}

// Delivery is the JSON body POSTed to an endpoint.
type Delivery struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}
