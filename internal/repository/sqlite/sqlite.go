// Package sqlite implements the repository interfaces on SQLite.
//
// We use modernc.org/sqlite: a pure-Go translation of SQLite, so no CGo and
// no C toolchain needed. The blank import below registers it with
// database/sql as the driver named "sqlite".
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The repository implementations are
// separate receiver types (UserRepo, ActivityRepo) obtained via Users and
// Activities; they share this one pool. The server owns the DB and closes it
// on shutdown.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserRepo {
	return &UserRepo{conn: db.conn}
}

// Activities returns the activity repository backed by this database.
func (db *DB) Activities() *ActivityRepo {
	return &ActivityRepo{conn: db.conn}
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-process database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force a real connection now rather than on the first query, so a bad
	// path or permissions problem fails at startup.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — required
	// for a web server where requests hit the DB in parallel.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// SQLite ships with foreign keys off; activities reference users.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent, so it runs unconditionally at startup.
//
// users.email is UNIQUE: the constraint, not the service's pre-check, is
// what actually guarantees one account per email under concurrent signups.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS activities (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			type       TEXT NOT NULL CHECK (type IN ('exercise', 'meal')),
			name       TEXT NOT NULL,
			duration   INTEGER NOT NULL DEFAULT 0,
			calories   INTEGER NOT NULL,
			date       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_activities_user_date
			ON activities(user_id, date);
	`)
	if err != nil {
		return fmt.Errorf("creating activities table: %w", err)
	}

	return nil
}
