package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// NewDatabase opens a connection to the database described by cfg and pings it.
// Returns an open database handle or an error if connection fails.
func NewDatabase(cfg DatabaseConfig) (*sql.DB, error) {
	if _, err := DialectFor(cfg.Driver); err != nil {
		return nil, err
	}

	dsn, err := cfg.DataSource()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewSQLiteDatabase opens a SQLite database file at path. Used by tests and local development.
func NewSQLiteDatabase(path string) (*sql.DB, error) {
	return NewDatabase(DatabaseConfig{Driver: DriverSQLite, Path: path})
}
