package ciutil

import (
	"fmt"
	"log/slog"
	"net/url"
)

// Credentials and options used by the CI database service.
const (
	StandardCIUser     = "postgres"
	StandardCIPassword = "postgres"
	StandardCIDatabase = "taskboard_test"
	StandardCIOptions  = "sslmode=disable"
)

// TestDatabaseURL returns the database URL for integration tests, checking
// TASKBOARD_TEST_DB_URL, DATABASE_URL and TASKBOARD_DATABASE_URL in that
// order. It returns "" when none is set. In CI the URL is rewritten to the
// standard service credentials.
func TestDatabaseURL(logger *slog.Logger) string {
	dbURL := GetEnvWithFallbacks(
		[]string{EnvTestDatabaseURL, EnvDatabaseURL, EnvAppDatabaseURL}, "", logger)
	if dbURL == "" || !IsCI() {
		return dbURL
	}

	standardized, err := StandardizeDatabaseURL(dbURL)
	if err != nil {
		if logger != nil {
			logger.Warn("could not standardize database URL",
				slog.String("url", MaskSensitiveValue(dbURL)),
				slog.String("error", err.Error()))
		}
		return dbURL
	}
	return standardized
}

// StandardizeDatabaseURL replaces the credentials of a postgres URL with the
// CI defaults and fills in a missing database name or query string. Other
// schemes are returned unchanged.
func StandardizeDatabaseURL(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("parse database URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return dbURL, nil
	}

	u.User = url.UserPassword(StandardCIUser, StandardCIPassword)
	if u.Path == "" || u.Path == "/" {
		u.Path = "/" + StandardCIDatabase
	}
	if u.RawQuery == "" {
		u.RawQuery = StandardCIOptions
	}
	return u.String(), nil
}
