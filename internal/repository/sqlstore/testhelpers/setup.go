package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/route-planner/internal/repository/sqlstore"
	"go.uber.org/zap"
)

// TestDB represents a PostgreSQL test database connection
type TestDB struct {
	DB     *sqlx.DB
	Store  *sqlstore.DB
	Logger *zap.Logger
}

// SetupPostgres connects to the PostgreSQL test database and applies the schema.
// The test is skipped when the database is not reachable.
func SetupPostgres(t *testing.T) *TestDB {
	t.Helper()

	// Priority:
	// 1. Environment variables
	// 2. Default values
	host := getEnv("TEST_DB_HOST", "localhost")
	port := getEnv("TEST_DB_PORT", "5433")
	user := getEnv("TEST_DB_USER", "postgres")
	password := getEnv("TEST_DB_PASSWORD", "postgres")
	dbname := getEnv("TEST_DB_NAME", "routes_test")
	sslmode := getEnv("TEST_DB_SSLMODE", "disable")

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=2",
		host, port, user, password, dbname, sslmode,
	)

	// Retry connection with exponential backoff to wait for DB recovery
	var db *sqlx.DB
	var err error
	maxRetries := 3
	retryDelay := 250 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2 // exponential backoff
		}
	}

	if err != nil {
		t.Skipf("PostgreSQL not available for integration tests: %v", err)
	}

	logger := zap.NewNop()
	store := sqlstore.NewDBForTest(db, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	return &TestDB{
		DB:     db,
		Store:  store,
		Logger: logger,
	}
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup removes all routes
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, "TRUNCATE TABLE routes")
	return err
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
