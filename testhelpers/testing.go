// Package testhelpers provides a disposable Postgres schema for tests that
// need a real database. Tests using it are skipped unless
// TEST_DATABASE_URL is set.
package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"assetdesk/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and
// empties every table.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	db := &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
	CleanupTestData(t, db)
	t.Cleanup(func() { _ = db.Cleanup() })
	return db
}

// CleanupTestData truncates every table and resets the id sequences.
func CleanupTestData(t *testing.T, db *TestDB) {
	t.Helper()

	_, err := db.Pool.Exec(context.Background(),
		`TRUNCATE assets, asset_types, asset_categories, manufacturers, business_units RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to clean test data: %v", err)
	}
}
