package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/redact"
)

// Environment variables consulted for the test database, in order of preference.
const (
	EnvTestDBURL   = "TASKS_TEST_DB_URL"
	EnvDatabaseURL = "DATABASE_URL"
)

// CI detection variables.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsCI reports whether the process runs under a known CI provider.
func IsCI() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// GetTestDatabaseURL returns the first non-empty database URL variable, or "".
func GetTestDatabaseURL() string {
	for _, name := range []string{EnvTestDBURL, EnvDatabaseURL} {
		if url := os.Getenv(name); url != "" {
			return url
		}
	}
	return ""
}

// Open connects to the test database, applies migrations and empties the
// tasks table. The connection is closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := GetTestDatabaseURL()
	if url == "" {
		if IsCI() {
			t.Fatalf("%s or %s must be set in CI", EnvTestDBURL, EnvDatabaseURL)
		}
		t.Skipf("%s not set, skipping database test", EnvTestDBURL)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("failed to open test database: %v", redact.Error(err))
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("test database unreachable at %s: %v", redact.String(url), redact.Error(err))
	}
	if err := postgres.Migrate(ctx, db, postgres.MigrateUp, nil); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if _, err := db.ExecContext(ctx, "TRUNCATE tasks RESTART IDENTITY"); err != nil {
		t.Fatalf("failed to reset tasks table: %v", err)
	}
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
