package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/msomdec/blog-dashboard/internal/repository/sqlite/migrations"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// :memory: is per connection; keep a single one so every query sees the schema.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	res, err := db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		"alice", "alice@x.com", "hash123",
	)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}
	userID, _ := res.LastInsertId()

	if _, err := db.ExecContext(ctx,
		"INSERT INTO posts (title, content, author_id) VALUES (?, ?, ?)",
		"Hello", "World", userID,
	); err != nil {
		t.Fatalf("insert into posts: %v", err)
	}

	files, err := migrations.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != len(files) {
		t.Fatalf("expected %d migration records, got %d", len(files), count)
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 migration records, got %d", count)
	}
}

func TestUsernameLengthConstraint(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("run: %v", err)
	}

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	_, err := db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		string(long), "long@x.com", "hash",
	)
	if err == nil {
		t.Fatal("expected CHECK constraint to reject a 101-character username")
	}
}
