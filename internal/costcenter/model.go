package costcenter

import (
	"github.com/ferdiebergado/hrkit/internal/model"
)

// CostCenter is a client-scoped booking unit. Codes are unique within a
// client, not globally.
type CostCenter struct {
	model.Model

	ClientID string
	Code     string
	Name     string
	Active   bool
}
