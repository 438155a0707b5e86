package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/msomdec/blog-dashboard/internal/domain"
	"github.com/msomdec/blog-dashboard/internal/repository/sqlite/migrations"
)

// DB wraps a SQLite connection and hands out repositories bound to it.
type DB struct {
	SqlDB *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection serialises writers, so every transaction sees a
	// consistent post row without explicit locks.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Ping checks the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// Users returns a user repository outside any transaction.
func (db *DB) Users() domain.UserRepository {
	return &userRepo{q: db.SqlDB}
}

// Posts returns a post repository outside any transaction.
func (db *DB) Posts() domain.PostRepository {
	return &postRepo{q: db.SqlDB}
}

// WithinTx runs fn with repositories bound to a single transaction.
func (db *DB) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) (err error) {
	tx, err := db.SqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError("begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txRepos{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.StorageError("commit transaction", err)
	}
	return nil
}

type txRepos struct {
	tx *sql.Tx
}

func (r txRepos) Users() domain.UserRepository { return &userRepo{q: r.tx} }
func (r txRepos) Posts() domain.PostRepository { return &postRepo{q: r.tx} }

// isUniqueConstraintError reports whether err is a SQLite UNIQUE violation.
func isUniqueConstraintError(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE constraint failed"))
}

// isForeignKeyError reports whether err is a SQLite FOREIGN KEY violation.
func isForeignKeyError(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		(se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "FOREIGN KEY constraint failed"))
}
