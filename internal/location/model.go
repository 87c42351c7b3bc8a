package location

import (
	"github.com/ferdiebergado/hrkit/internal/model"
)

// Location is a client-scoped work site. Names are unique within a client.
type Location struct {
	model.Model

	ClientID string
	Name     string
	City     string
	Country  string
	Active   bool
}
