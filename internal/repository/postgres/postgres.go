// Package postgres implements the domain repositories on PostgreSQL via lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgreSQL SQLSTATE codes the repositories translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// DB wraps a PostgreSQL connection pool and hands out repositories bound to it.
type DB struct {
	SqlDB *sql.DB
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New connects to the database at dsn and sizes the pool.
func New(ctx context.Context, dsn string, maxOpen, maxIdle int) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return Wrap(db), nil
}

// Wrap adapts an already opened *sql.DB.
func Wrap(db *sql.DB) *DB {
	return &DB{SqlDB: db}
}

// Migrate applies the embedded migration files that have not run yet.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.SqlDB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return errors.Wrap(err, "ensure migrations table")
	}

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "list migration files")
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)

	for _, name := range files {
		if err := db.applyMigration(ctx, name); err != nil {
			return errors.Wrapf(err, "apply migration %s", name)
		}
	}
	return nil
}

func (db *DB) applyMigration(ctx context.Context, name string) error {
	content, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return errors.Wrap(err, "read file")
	}

	tx, err := db.SqlDB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	// Serialise concurrent migrators on the bookkeeping table.
	if _, err := tx.ExecContext(ctx, "LOCK TABLE schema_migrations IN EXCLUSIVE MODE"); err != nil {
		return errors.Wrap(err, "lock migrations table")
	}

	var applied bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)", name,
	).Scan(&applied); err != nil {
		return errors.Wrap(err, "check migration")
	}
	if applied {
		return nil
	}

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return errors.Wrap(err, "execute sql")
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", name); err != nil {
		return errors.Wrap(err, "record migration")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	slog.Info("migration applied", "file", name)
	return nil
}

// Ping checks the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

// Close closes the connection pool.
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
// Rows loaded with GetByIDForUpdate stay locked until it returns.
func (db *DB) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) error {
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
			return errors.Wrapf(err, "rollback failed: %v", rbErr)
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

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
