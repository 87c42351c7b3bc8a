package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/gopherkit/env"
	"github.com/ferdiebergado/hrkit/internal/config"
	"github.com/ferdiebergado/hrkit/internal/middleware"
	"github.com/ferdiebergado/hrkit/internal/pkg/message"
	"github.com/ferdiebergado/hrkit/internal/platform/db"
)

func Run(signalCtx context.Context) error {
	slog.Info("Initializing...")

	if os.Getenv("ENV") != "production" {
		if err := env.Load(".env"); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}

	cfg, err := config.Load("config.json")
	if err != nil {
		return err
	}

	dbConn, err := db.NewConnection(signalCtx, cfg.DB)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	const envKey = "KEY"
	securityKey, ok := os.LookupEnv(envKey)
	if !ok {
		return fmt.Errorf(message.EnvErrFmt, envKey)
	}

	provider := newProvider(cfg, securityKey, dbConn)

	middlewares := []func(http.Handler) http.Handler{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		middleware.SecurityHeaders,
		middleware.CheckContentType,
	}
	application := New(cfg, provider, middlewares)

	if err := application.Start(signalCtx); err != nil {
		return fmt.Errorf("start app: %w", err)
	}

	return application.Shutdown()
}
