package employee

import (
	"time"

	"github.com/ferdiebergado/hrkit/internal/model"
)

// Employee is a client-scoped person record. The badge ID is server
// generated and never changes; cost center and location, when set, must
// belong to the employee's client.
type Employee struct {
	model.Model

	ClientID     string
	BadgeID      string
	FirstName    string
	LastName     string
	Email        string
	CostCenterID *string
	LocationID   *string
	HiredAt      time.Time
	Active       bool
}
