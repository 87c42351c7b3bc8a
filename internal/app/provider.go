package app

import (
	"database/sql"

	"github.com/ferdiebergado/hrkit/internal/config"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
	"github.com/ferdiebergado/hrkit/internal/platform/hash"
	"github.com/ferdiebergado/hrkit/internal/platform/jwt"
	"github.com/ferdiebergado/hrkit/internal/platform/router"
	"github.com/ferdiebergado/hrkit/internal/platform/validation"
)

// Provider bundles the shared infrastructure handed to the app.
type Provider struct {
	DB        *sql.DB
	Signer    jwt.Signer
	Validator validation.Validator
	Hasher    hash.Hasher
	Router    router.Router
	TxMgr     db.TxManager
}

func newProvider(cfg *config.Config, securityKey string, dbConn *sql.DB) *Provider {
	return &Provider{
		DB:        dbConn,
		Signer:    jwt.NewGolangJWTSigner(cfg.JWT, securityKey),
		Hasher:    hash.NewArgon2Hasher(cfg.Argon2, securityKey),
		Router:    router.NewGoexpressRouter(),
		Validator: validation.NewGoPlaygroundValidator(),
		TxMgr:     db.NewSQLTxManager(dbConn),
	}
}
