package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskboard-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskboard-api/internal/api/middleware"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/metrics"
	"github.com/phrazzld/taskboard-api/internal/realtime"
)

// Per-IP limits on the unauthenticated auth endpoints.
const (
	loginRateLimit     = 5
	loginRateWindow    = 15 * time.Minute
	registerRateLimit  = 3
	registerRateWindow = time.Hour

	healthCheckTimeout = 2 * time.Second

	routeNotFoundMessage    = "Route not found"
	methodNotAllowedMessage = "Method not allowed"
)

// setupRouter builds the chi router with all routes and middleware.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.SecurityHeaders())
	r.Use(apiMiddleware.CORS(app.config.Server.AllowedOrigins))
	r.Use(app.httpMetrics.Middleware)

	// Set before any Route or Mount so subrouters inherit them.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, routeNotFoundMessage)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, methodNotAllowedMessage)
	})

	authHandler, err := api.NewAuthHandler(app.userService, app.logger)
	if err != nil {
		return nil, err
	}
	boardHandler, err := api.NewBoardHandler(app.boardService, app.logger)
	if err != nil {
		return nil, err
	}
	listHandler, err := api.NewListHandler(app.listService, app.logger)
	if err != nil {
		return nil, err
	}
	wsHandler, err := realtime.NewHandler(
		app.hub,
		app.jwtService,
		app.boardService,
		app.config.Realtime,
		app.config.Server.AllowedOrigins,
		app.clock,
		app.logger,
	)
	if err != nil {
		return nil, err
	}

	checks := map[string]api.HealthCheck{"database": app.db.PingContext}
	if app.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return app.redis.Ping(ctx).Err() }
	}
	healthHandler := api.NewHealthHandler(checks, healthCheckTimeout, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	loginLimiter := apiMiddleware.RateLimitByIP(loginRateLimit, loginRateWindow)
	registerLimiter := apiMiddleware.RateLimitByIP(registerRateLimit, registerRateWindow)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		// Authentication endpoints (public)
		r.With(registerLimiter).Post("/auth/register", authHandler.Register)
		r.With(loginLimiter).Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/profile", authHandler.Profile)
			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/boards", func(r chi.Router) {
				r.Post("/", boardHandler.CreateBoard)
				r.Get("/", boardHandler.ListBoards)
				r.Get("/{id}", boardHandler.GetBoard)
				r.Put("/{id}", boardHandler.UpdateBoard)
				r.Delete("/{id}", boardHandler.DeleteBoard)
				r.Post("/{id}/members", boardHandler.AddMember)
				r.Delete("/{id}/members/{userId}", boardHandler.RemoveMember)
				r.Post("/{boardId}/lists", listHandler.CreateList)
			})

			r.Route("/lists", func(r chi.Router) {
				r.Put("/reorder", listHandler.ReorderLists)
				r.Put("/{id}", listHandler.UpdateList)
				r.Delete("/{id}", listHandler.DeleteList)
			})
		})
	})

	r.Handle("/metrics", metrics.Handler(app.registry))
	r.Handle("/ws", wsHandler)

	return r, nil
}
