package testutil

import (
	"database/sql"
	"embed"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // sqlite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// FixtureColumns are the columns of the lmodel fixture table, in order.
var FixtureColumns = []string{
	"id", "code", "number", "string", "status", "created_at_test", "updated_at_test",
}

// FixtureTables are the tables created by the fixture migrations, sorted.
// goose_db_version is goose's own bookkeeping table.
var FixtureTables = []string{"goose_db_version", "lmodel", "ltest", "migrations", "status"}

// NewFixtureDB creates a SQLite database file in a temp directory, applies
// the fixture migrations and returns its path.
func NewFixtureDB(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		t.Fatalf("set goose dialect: %v", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		t.Fatalf("migrate fixture db: %v", err)
	}

	return path
}
