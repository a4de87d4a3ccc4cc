package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/metrics"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/realtime"
	"github.com/phrazzld/taskboard-api/internal/realtime/redisbridge"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
)

// application holds the shared dependencies of the server so they can be
// wired once and cleaned up together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client
	clock  clockwork.Clock

	// Stores
	userStore  store.UserStore
	boardStore store.BoardStore
	listStore  store.ListStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	boardService     service.BoardService
	listService      service.ListService

	eventEmitter *events.InMemoryEventEmitter

	// Realtime relay
	hub    *realtime.Hub
	bridge *redisbridge.Bridge

	// Metrics
	registry        *prometheus.Registry
	httpMetrics     *metrics.HTTPMetrics
	realtimeMetrics *metrics.RealtimeMetrics
}

// newApplication wires stores, services, the event emitter and the relay.
// The Redis bridge is created only when a Redis URL is configured.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		clock:  clockwork.NewRealClock(),
	}

	app.registry = metrics.NewRegistry()
	app.httpMetrics = metrics.NewHTTPMetrics(app.registry)
	app.realtimeMetrics = metrics.NewRealtimeMetrics(app.registry)

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Int("refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.boardStore = postgres.NewPostgresBoardStore(db, logger)
	app.listStore = postgres.NewPostgresListStore(db, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	app.userService, err = service.NewUserService(app.userStore, app.jwtService, app.passwordVerifier, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	app.boardService, err = service.NewBoardService(app.boardStore, app.userStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create board service: %w", err)
	}
	app.listService, err = service.NewListService(app.listStore, app.boardStore, db, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create list service: %w", err)
	}

	var hubOpts []realtime.HubOption
	if cfg.Redis.Enabled() {
		app.redis, err = redisbridge.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.bridge = redisbridge.New(app.redis, cfg.Redis.ChannelPrefix, app.realtimeMetrics, logger)
		hubOpts = append(hubOpts, realtime.WithForwarder(app.bridge))
		logger.Info("redis bridge enabled", slog.String("channel_prefix", cfg.Redis.ChannelPrefix))
	}

	app.hub = realtime.NewHub(cfg.Realtime.MaxClientsPerRoom, app.realtimeMetrics, logger, hubOpts...)
	app.eventEmitter.RegisterHandler(realtime.NewEventRelay(app.hub))

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP and runs the relay until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases connections held by the application.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
