package client

import (
	"github.com/ferdiebergado/hrkit/internal/model"
)

// Client is a tenant: every cost center, location and employee belongs to
// exactly one client, and rows never move between clients.
type Client struct {
	model.Model

	Name   string
	Code   string
	Active bool
}
