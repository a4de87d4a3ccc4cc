package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	apiMiddleware "github.com/phrazzld/taskboard-api/internal/api/middleware"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                8080,
			LogLevel:            "debug",
			AllowedOrigins:      []string{"http://localhost:3000"},
			ShutdownTimeoutSecs: 1,
		},
		Database: config.DatabaseConfig{
			URL:                "postgres://taskboard@localhost:5432/taskboard",
			MaxOpenConns:       5,
			MaxIdleConns:       1,
			ConnMaxLifetimeMin: 5,
		},
		Auth: config.AuthConfig{
			JWTSecret:                   strings.Repeat("a", 32),
			RefreshSecret:               strings.Repeat("b", 32),
			TokenLifetimeMinutes:        15,
			RefreshTokenLifetimeMinutes: 60,
			BCryptCost:                  4,
		},
		Realtime: config.RealtimeConfig{
			MaxClientsPerRoom: 10,
			SendBufferSize:    4,
			MaxMessageBytes:   4096,
			PingInterval:      time.Second,
			WriteTimeout:      time.Second,
		},
	}
}

func newTestApp(t *testing.T) (*application, sqlmock.Sqlmock, http.Handler) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(context.Background(), testConfig(), log, db)
	require.NoError(t, err)

	router, err := app.setupRouter()
	require.NoError(t, err)
	return app, mock, router
}

func TestNewApplicationWithoutRedis(t *testing.T) {
	app, _, _ := newTestApp(t)

	assert.Nil(t, app.redis)
	assert.Nil(t, app.bridge)
	assert.NotNil(t, app.hub)
	assert.NotNil(t, app.userService)
	assert.NotNil(t, app.boardService)
	assert.NotNil(t, app.listService)
}

func TestRouterHealth(t *testing.T) {
	_, mock, router := newTestApp(t)
	mock.ExpectPing()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	_, _, router := newTestApp(t)

	for _, path := range []string{"/api/boards", "/api/auth/profile", "/ws"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"), path)
	}
}

func TestRouterRegisterIsRateLimited(t *testing.T) {
	_, _, router := newTestApp(t)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(`{}`))
		req.RemoteAddr = "198.51.100.7:4000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < registerRateLimit; i++ {
		assert.Equal(t, http.StatusBadRequest, send())
	}
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRouterMetrics(t *testing.T) {
	_, _, router := newTestApp(t)

	// One request so the HTTP collectors have a sample.
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/boards", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "taskboard_http_requests_total")
	assert.Contains(t, body, `route="/api/boards`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRouterCORSPreflight(t *testing.T) {
	_, _, router := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/boards", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouterRegisterLimitIgnoresForwardingHeaders(t *testing.T) {
	_, _, router := newTestApp(t)

	send := func(i int) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(`{}`))
		req.RemoteAddr = fmt.Sprintf("198.51.100.23:%d", 5000+i)
		spoofed := fmt.Sprintf("10.0.0.%d", i+1)
		req.Header.Set("X-Forwarded-For", spoofed)
		req.Header.Set("X-Real-IP", spoofed)
		req.Header.Set("True-Client-IP", spoofed)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < registerRateLimit; i++ {
		assert.Equal(t, http.StatusBadRequest, send(i))
	}
	for i := registerRateLimit; i < registerRateLimit+5; i++ {
		assert.Equal(t, http.StatusTooManyRequests, send(i), "request %d", i)
	}
}

func TestRouterUnknownRouteIsJSON(t *testing.T) {
	_, _, router := newTestApp(t)

	for _, path := range []string{"/nope", "/api/nope", "/api/auth/nope"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json", path)

		var body shared.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body), path)
		assert.Equal(t, routeNotFoundMessage, body.Error, path)
	}
}

func TestRouterWrongMethodIsJSON(t *testing.T) {
	_, _, router := newTestApp(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	var body shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, methodNotAllowedMessage, body.Error)
}

func TestRouterSetsSecurityHeaders(t *testing.T) {
	_, mock, router := newTestApp(t)
	mock.ExpectPing()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, apiMiddleware.ContentSecurityPolicy, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Frame-Options"))
}

func TestMigrateCommandRejectsUnknownCommand(t *testing.T) {
	err := migrateCmd.Args(migrateCmd, []string{"sideways"})
	assert.Error(t, err)

	assert.NoError(t, migrateCmd.Args(migrateCmd, []string{"up"}))
	assert.Error(t, migrateCmd.Args(migrateCmd, nil))
}
