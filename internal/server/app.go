// Package server wires configuration, the identity provider client, the auth
// services and both transports, and runs them until a shutdown signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/hrmsauth/internal/logging"
	"github.com/dmitrijs2005/hrmsauth/internal/server/auth"
	"github.com/dmitrijs2005/hrmsauth/internal/server/config"
	"github.com/dmitrijs2005/hrmsauth/internal/server/httpapi"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp"
	"github.com/dmitrijs2005/hrmsauth/internal/server/services"
	"github.com/dmitrijs2005/hrmsauth/internal/telemetry"

	gs "github.com/dmitrijs2005/hrmsauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService *services.AuthService
}

func NewApp(c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	client, err := idp.NewClient(idp.Config{
		BaseURL:    c.ProviderURL,
		APIKey:     c.ProviderAPIKey,
		ServiceKey: c.ProviderServiceKey,
		Timeout:    c.ProviderTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("identity provider client init error: %w", err)
	}

	var verifier services.AccessTokenVerifier
	if c.JWTSecret != "" {
		verifier = auth.NewVerifier(c.JWTSecret)
	}

	as := services.NewAuthService(client, client, verifier, logger)

	return &App{config: c, logger: logger, authService: as}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.config.AllowedOrigins)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a transport fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	shutdown, err := telemetry.Setup(ctx, app.config.OTelEndpoint, telemetry.ServiceName)
	if err != nil {
		app.logger.Warn(ctx, "tracing disabled", "error", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			app.logger.Warn(ctx, "tracer shutdown failed", "error", err)
		}
	}()

	if app.config.ProviderServiceKey == "" {
		app.logger.Warn(ctx, "provider service key not set: confirmation recovery disabled")
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
