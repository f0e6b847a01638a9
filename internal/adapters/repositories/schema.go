package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Initialize the branch/client schema. Statements are portable between
// SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createBranchesQuery := `
	CREATE TABLE IF NOT EXISTS branches (
		branch_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createClientsQuery := `
	CREATE TABLE IF NOT EXISTS clients (
		client_id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL REFERENCES branches(branch_id),
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_clients_branch_id
	ON clients(branch_id, client_id);
	`

	statements := []string{
		createBranchesQuery,
		createClientsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type BranchSeed struct {
	ID   string  `json:"branch_id" validate:"required"`
	Name string  `json:"name" validate:"required"`
	Lat  float64 `json:"lat" validate:"latitude"`
	Lon  float64 `json:"lon" validate:"longitude"`
}

type ClientSeed struct {
	ID       string  `json:"client_id" validate:"required"`
	BranchID string  `json:"branch_id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Lat      float64 `json:"lat" validate:"latitude"`
	Lon      float64 `json:"lon" validate:"longitude"`
}

type Seed struct {
	Branches []BranchSeed `json:"branches"`
	Clients  []ClientSeed `json:"clients"`
}

// Populate branches and clients from a JSON file. Existing rows with the same
// id are overwritten.
func SeedFromJSON(db *sql.DB, dialect Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed locations: read %q: %w", jsonPath, err)
	}

	var data Seed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed locations: parse json: %w", err)
	}

	return Load(db, dialect, data)
}

// Load validates and upserts a seed in a single transaction.
func Load(db *sql.DB, dialect Dialect, data Seed) error {
	if db == nil {
		return errors.New("seed locations: DB is nil")
	}

	branches := make(map[string]struct{}, len(data.Branches))
	for i, b := range data.Branches {
		if err := validate.Struct(b); err != nil {
			return fmt.Errorf("seed locations: branch at index %d: %w", i+1, err)
		}
		branches[b.ID] = struct{}{}
	}
	for i, c := range data.Clients {
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("seed locations: client at index %d: %w", i+1, err)
		}
		if _, ok := branches[c.BranchID]; !ok {
			return fmt.Errorf("seed locations: client %q references unknown branch %q", c.ID, c.BranchID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	branchStmt, err := tx.Prepare(dialect.Rebind(`
	INSERT INTO branches (branch_id, name, lat, lon)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (branch_id) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`))
	if err != nil {
		return fmt.Errorf("seed locations: prepare branch insert: %w", err)
	}
	defer branchStmt.Close()

	for _, b := range data.Branches {
		if _, err := branchStmt.Exec(b.ID, b.Name, b.Lat, b.Lon); err != nil {
			return fmt.Errorf("seed locations: insert branch_id=%s: %w", b.ID, err)
		}
	}

	clientStmt, err := tx.Prepare(dialect.Rebind(`
	INSERT INTO clients (client_id, branch_id, name, lat, lon)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (client_id) DO UPDATE
	SET branch_id = EXCLUDED.branch_id,
		name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`))
	if err != nil {
		return fmt.Errorf("seed locations: prepare client insert: %w", err)
	}
	defer clientStmt.Close()

	for _, c := range data.Clients {
		if _, err := clientStmt.Exec(c.ID, c.BranchID, c.Name, c.Lat, c.Lon); err != nil {
			return fmt.Errorf("seed locations: insert client_id=%s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed locations: commit tx: %w", err)
	}

	return nil
}
