package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own migration files.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories interface {
	Users() UserRepository
	Posts() PostRepository
}

// TxManager runs a unit of work inside a single database transaction.
// The transaction is committed when fn returns nil and rolled back otherwise,
// including when fn panics.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
