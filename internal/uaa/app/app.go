package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/uaa/internal/uaa/http"
	"github.com/aussiebroadwan/uaa/internal/uaa/mail"
	"github.com/aussiebroadwan/uaa/internal/uaa/service"
	"github.com/aussiebroadwan/uaa/internal/uaa/store"
	"github.com/aussiebroadwan/uaa/internal/uaa/store/drivers/sqlite"
	"github.com/aussiebroadwan/uaa/pkg/cryptox"
	"github.com/aussiebroadwan/uaa/pkg/jwtx"
	"github.com/aussiebroadwan/uaa/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the UAA service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	keyManager *jwtx.KeyManager
	hasher     *cryptox.PasswordHasher
	registry   *prometheus.Registry
	redis      *redis.Client // nil with the memory queue

	clientService       *service.ClientService
	tokenService        *service.TokenService
	userService         *service.UserService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService
	dispatcher          *mail.Dispatcher

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application with every dependency initialized and the
// initial clients and admin user reconciled with cfg.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "uaa",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper, cryptox.DefaultArgon2Params)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitSigningKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initMail(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()

	ctx := slogx.WithContext(context.Background(), app.logger)
	if err := app.bootstrap(ctx); err != nil {
		_ = app.closeAll()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.dispatcher.Start()
	app.housekeepingService.Start()

	app.logger.Info("uaa service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.closeAll()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops accepting requests, drains the mail queue and closes the
// database, all within ShutdownGracePeriod.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down uaa service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.dispatcher.Stop(ctx); err != nil {
		app.logger.Warn("mail queue not drained", "error", err)
	}

	if err := app.closeAll(); err != nil {
		return err
	}

	app.logger.Info("uaa service stopped")
	return nil
}

func (app *Application) closeAll() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initMail builds the queue, provider and dispatcher.
func (app *Application) initMail() error {
	mc := app.cfg.Mail

	renderer, err := mail.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to load mail templates: %w", err)
	}

	var queue mail.Queue
	switch mc.QueueBackend {
	case "redis":
		app.redis = redis.NewClient(&redis.Options{
			Addr:     mc.RedisAddr,
			Password: mc.RedisPassword,
			DB:       mc.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.redis.Ping(ctx).Err(); err != nil {
			_ = app.redis.Close()
			app.redis = nil
			return fmt.Errorf("failed to connect to redis at %s: %w", mc.RedisAddr, err)
		}
		queue = mail.NewRedisQueue(app.redis, mc.RedisKey, mc.QueueSize)
		app.logger.Info("mail queue backed by redis", "addr", mc.RedisAddr, "capacity", mc.QueueSize)
	default:
		queue = mail.NewMemoryQueue(mc.QueueSize)
		app.logger.Info("mail queue in memory", "capacity", mc.QueueSize)
	}

	var provider mail.Provider
	if mc.SendGridAPIKey != "" {
		provider = mail.NewSendGridProvider(mc.SendGridAPIKey, mc.SendGridHost)
	} else {
		provider = &mail.LogProvider{Logger: app.logger}
		app.logger.Warn("SENDGRID_API_KEY not set, mail will be logged instead of sent")
	}

	app.dispatcher = mail.NewDispatcher(mail.Config{
		From:           mc.From,
		FallbackSender: mc.FallbackSender,
		Workers:        mc.Workers,
	}, queue, renderer, provider, mail.NewMetrics(app.registry), app.logger)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.bootstrapService = &service.BootstrapService{
		Store:         app.db,
		Hasher:        app.hasher,
		WebClient:     app.cfg.WebClient,
		ServiceClient: app.cfg.ServiceClient,
		Admin:         app.cfg.Admin,
	}
	app.clientService = &service.ClientService{
		Store:            app.db,
		Hasher:           app.hasher,
		InitialClientIDs: app.bootstrapService.InitialClientIDs(),
	}
	app.tokenService = &service.TokenService{
		Store:      app.db,
		Hasher:     app.hasher,
		KeyManager: app.keyManager,
		Enhancer:   &service.TokenEnhancer{},
		Issuer:     app.cfg.Issuer,
	}
	app.userService = &service.UserService{
		Store:  app.db,
		Hasher: app.hasher,
		Mailer: app.dispatcher,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) bootstrap(ctx context.Context) error {
	if err := app.bootstrapService.EnsureInitialClients(ctx); err != nil {
		return fmt.Errorf("failed to ensure initial clients: %w", err)
	}
	if _, err := app.bootstrapService.EnsureAdminUser(ctx); err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.ClientService = app.clientService
	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.AllowedBaseURLs = app.cfg.AllowedBaseURLs
	router.Limits = app.cfg.RateLimits
	if app.cfg.MetricsEnabled {
		router.Metrics = promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{})
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
