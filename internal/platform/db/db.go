package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open connects to Postgres through the pgx stdlib driver.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}

// OpenSQLite opens a local database file, used for development runs.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

// Connection is an open database together with the driver that backs it.
type Connection struct {
	DB     *sql.DB
	Driver string
}

// Connect prefers Postgres when databaseURL is set and falls back to SQLite.
func Connect(databaseURL, sqlitePath string) (Connection, error) {
	if databaseURL != "" {
		db, err := Open(databaseURL)
		if err != nil {
			return Connection{}, err
		}
		return Connection{DB: db, Driver: "pgx"}, nil
	}

	db, err := OpenSQLite(sqlitePath)
	if err != nil {
		return Connection{}, err
	}
	return Connection{DB: db, Driver: "sqlite"}, nil
}
