//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskboard-api/internal/ciutil"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestTimeout bounds container start-up and migration.
const TestTimeout = 60 * time.Second

var (
	once     sync.Once
	sharedDB *sql.DB
	openErr  error
)

// DatabaseURL returns the configured test database URL, or "" when tests
// should start a container.
func DatabaseURL() string {
	return ciutil.TestDatabaseURL(nil)
}

// Open returns the shared, migrated test database. The test is skipped in
// -short mode and fails when no database can be reached.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		sharedDB, openErr = open(ctx)
	})
	if openErr != nil {
		t.Fatalf("test database unavailable: %v", openErr)
	}
	return sharedDB
}

func open(ctx context.Context) (*sql.DB, error) {
	dsn := DatabaseURL()
	if dsn == "" {
		var err error
		if dsn, err = startContainer(ctx); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	quiet := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := postgres.Migrate(ctx, db, "up", quiet); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// startContainer runs a throwaway PostgreSQL. Ryuk reaps it when the test
// binary exits.
func startContainer(ctx context.Context) (string, error) {
	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("taskboard_test"),
		tcpostgres.WithUsername("taskboard"),
		tcpostgres.WithPassword("taskboard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("postgres connection string: %w", err)
	}
	return dsn, nil
}
