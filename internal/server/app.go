// Package server wires the configured collaborators together and runs the
// HTTP API next to the gRPC health endpoint until a termination signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/admission"
	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/config"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersvc/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/usersvc/internal/server/grpc"
	hs "github.com/dmitrijs2005/usersvc/internal/server/http"
)

// seams for tests
var (
	openDB               = repomanager.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
	newLogger            = logging.New
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	redis    *redis.Client
	embedded *miniredis.Miniredis
	handler  http.Handler
	checks   map[string]gs.CheckFunc
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := newLogger(c.LogBackend)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger}

	app.db, err = openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, app.db); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	if err := app.openRedis(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	hasher := auth.NewBcryptHasher(c.BcryptCost)
	tokens := auth.NewTokenIssuer(auth.TokenConfig{
		SecretKey:    []byte(c.SecretKey),
		Validity:     c.TokenValidityDuration,
		CookieSecure: c.CookieSecure,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	window := admission.NewRedisWindow(app.redis)
	controller := admission.NewController(admission.NewGuard(window), logger, admission.NewMetrics(registry))

	h := hs.NewHandler(hs.Deps{
		Auth:      services.NewAuthService(app.db, rm, hasher, logger),
		Users:     services.NewUserService(app.db, rm, hasher, logger),
		Tokens:    tokens,
		Admission: controller,
		Logger:    logger,
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	app.handler = hs.NewRouter(h)

	app.checks = map[string]gs.CheckFunc{
		"database": app.db.PingContext,
		"redis":    window.Ping,
	}

	return app, nil
}

// openRedis connects to the configured redis, or starts an embedded one
// when no address is set.
func (app *App) openRedis(ctx context.Context) error {
	addr := app.config.RedisAddr
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("failed to start embedded redis: %w", err)
		}
		app.embedded = mr
		addr = mr.Addr()
		app.logger.Info(ctx, "Embedded redis started", "address", addr)
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: app.config.RedisPassword,
		DB:       app.config.RedisDB,
	})

	if err := app.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return nil
}

// Close releases the database pool and the redis connections.
func (app *App) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if app.redis != nil {
		keep(app.redis.Close())
	}
	if app.embedded != nil {
		app.embedded.Close()
	}
	if app.db != nil {
		keep(app.db.Close())
	}
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return firstErr
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewServer(app.config.EndpointAddrHTTP, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.checks)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until both servers have stopped. A failure of either one
// stops the other.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

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

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "cleanup", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
