// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/quill-blog/server/config"
	"github.com/quill-blog/server/internal/db"
)

// Open returns a migrated in-memory SQLite database closed at test cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	ctx := context.Background()
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	if err := db.Migrate(ctx, conn, cfg, db.Up); err != nil {
		t.Fatalf("migrate database: %v", err)
	}
	return conn
}
