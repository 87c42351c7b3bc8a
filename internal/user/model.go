package user

import (
	"github.com/ferdiebergado/hrkit/internal/model"
)

// User is an administrator account operating the HR API. Accounts are seeded
// by migration or ops tooling; there is no self-service registration.
type User struct {
	model.Model

	Email        string
	PasswordHash string
}
