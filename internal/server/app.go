// Package server initializes and runs the authkeeper server.
// It opens and migrates the database, seeds the optional admin account,
// handles graceful shutdown and runs the HTTP API and the gRPC health server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	gs "github.com/dmitrijs2005/authkeeper/internal/server/grpc"
	"github.com/dmitrijs2005/authkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

const startupTimeout = 30 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	tokens      *auth.TokenIssuer
}

// NewApp validates c, connects to the database and runs migrations.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(c.GinMode)
	default:
		return nil, fmt.Errorf("invalid config: unknown gin mode %q", c.GinMode)
	}

	hasher, err := auth.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(c.SecretKey, c.TokenIssuer, c.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := services.NewUserService(db, rm, hasher, logger)

	return &App{config: c, logger: logger, db: db, userService: us, tokens: tokens}, nil
}

// UserService exposes the service for tools that share the server wiring.
func (app *App) UserService() *services.UserService { return app.userService }

// Close releases the database pool.
func (app *App) Close() error { return app.db.Close() }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// ensureAdmin provisions the configured bootstrap account, if any.
func (app *App) ensureAdmin(ctx context.Context) error {
	if !app.config.HasAdminDefaults() {
		return nil
	}

	name := app.config.AdminDefaultName
	if name == "" {
		name = "Administrator"
	}

	u, created, err := app.userService.EnsureUser(ctx, services.SignupInput{
		Name:     name,
		Email:    app.config.AdminDefaultEmail,
		Password: app.config.AdminDefaultPassword,
		Role:     common.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("admin bootstrap: %w", err)
	}
	if created {
		app.logger.Info(ctx, "Default admin created", "user_id", u.ID, "email", u.Email)
	}
	return nil
}

func (app *App) newRouter() *gin.Engine {
	cookies := httpapi.NewCookieCarrier(httpapi.CookieOptions{
		Name:     app.config.CookieName,
		Domain:   app.config.CookieDomain,
		Secure:   app.config.CookieSecure,
		SameSite: app.config.SameSite(),
		MaxAge:   app.tokens.Validity(),
	})
	h := httpapi.NewHandler(app.userService, app.tokens, cookies, app.logger)
	return httpapi.NewRouter(h, app.config.CORSAllowedOrigins, app.logger)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.newRouter(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthCheckInterval)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.ensureAdmin(ctx); err != nil {
		_ = app.Close()
		return err
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return app.Close()
}
