package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ferdiebergado/hrkit/internal/auth"
	"github.com/ferdiebergado/hrkit/internal/client"
	"github.com/ferdiebergado/hrkit/internal/config"
	"github.com/ferdiebergado/hrkit/internal/costcenter"
	"github.com/ferdiebergado/hrkit/internal/employee"
	"github.com/ferdiebergado/hrkit/internal/location"
	"github.com/ferdiebergado/hrkit/internal/outbox"
	"github.com/ferdiebergado/hrkit/internal/user"
)

type App struct {
	server          *http.Server
	config          *config.Config
	provider        *Provider
	middlewares     []func(http.Handler) http.Handler
	dispatcher      *outbox.Dispatcher
	stop            context.CancelFunc
	shutdownTimeout time.Duration
}

func New(cfg *config.Config, provider *Provider, middlewares []func(http.Handler) http.Handler) *App {
	serverCtx, stop := context.WithCancel(context.Background())
	serverCfg := cfg.Server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", serverCfg.Port),
		Handler: provider.Router,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
		ReadTimeout:  serverCfg.ReadTimeout.Duration,
		WriteTimeout: serverCfg.WriteTimeout.Duration,
		IdleTimeout:  serverCfg.IdleTimeout.Duration,
	}

	return &App{
		config:          cfg,
		provider:        provider,
		server:          server,
		middlewares:     middlewares,
		stop:            stop,
		shutdownTimeout: serverCfg.ShutdownTimeout.Duration,
	}
}

func (a *App) registerMiddlewares() {
	for _, mw := range a.middlewares {
		a.provider.Router.Use(mw)
	}
}

func (a *App) setupRoutes() {
	cfg := a.config
	dbConn := a.provider.DB
	txMgr := a.provider.TxMgr

	userRepo := user.NewRepository(dbConn)
	userService := user.NewService(userRepo)

	authProviders := &auth.Providers{
		Hasher: a.provider.Hasher,
		Signer: a.provider.Signer,
	}
	authService := auth.NewService(userService, authProviders, cfg)
	authHandler := auth.NewHandler(authService, cfg)
	mountAuthRoutes(a.provider.Router, authHandler, a.provider.Validator, cfg.Server.MaxBodyBytes)

	outboxRepo := outbox.NewRepository(dbConn)
	endpointRepo := outbox.NewEndpointRepository(dbConn)
	outboxService := outbox.NewService(endpointRepo, outboxRepo, cfg.Outbox.AllowPrivate)
	outboxHandler := outbox.NewHandler(outboxService)
	a.dispatcher = outbox.NewDispatcher(outboxRepo, endpointRepo, nil, cfg.Outbox)

	lookupTTL := cfg.Cache.LookupTTL.Duration

	clientRepo := client.NewRepository(dbConn)
	clientService := client.NewService(clientRepo, txMgr, outboxRepo)
	clientHandler := client.NewHandler(clientService)

	costCenterRepo := costcenter.NewRepository(dbConn)
	costCenterService := costcenter.NewService(costCenterRepo, txMgr, outboxRepo, lookupTTL)
	costCenterHandler := costcenter.NewHandler(costCenterService)

	locationRepo := location.NewRepository(dbConn)
	locationService := location.NewService(locationRepo, txMgr, outboxRepo, lookupTTL)
	locationHandler := location.NewHandler(locationService)

	sequencer := employee.NewSequencer(dbConn, cfg.Badge.Prefix, cfg.Badge.PadWidth)
	employeeRepo := employee.NewRepository(dbConn)
	employeeService := employee.NewService(employeeRepo, txMgr, outboxRepo, sequencer, cfg.Badge.MaxRetries)
	employeeHandler := employee.NewHandler(employeeService)

	handlers := &apiHandlers{
		clients:     clientHandler,
		costCenters: costCenterHandler,
		locations:   locationHandler,
		employees:   employeeHandler,
		outbox:      outboxHandler,
	}
	mountAPIRoutes(a.provider.Router, handlers, a.provider.Validator, a.provider.Signer, cfg.Server.MaxBodyBytes)
}

func (a *App) Start(ctx context.Context) error {
	a.registerMiddlewares()
	a.setupRoutes()

	dispatcherCtx, cancelDispatcher := context.WithCancel(ctx)
	defer cancelDispatcher()
	dispatcherErr := make(chan error, 1)
	go func() {
		dispatcherErr <- a.dispatcher.Run(dispatcherCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening...", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		slog.Info("Server has stopped.")
		serverErr <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received.")
		return nil
	case err := <-dispatcherErr:
		return err
	case err := <-serverErr:
		return err
	}
}

func (a *App) Shutdown() error {
	slog.Info("Shutting down server...")
	a.stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
