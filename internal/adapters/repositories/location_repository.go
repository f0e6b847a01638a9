package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"branch-route-service/internal/domain"
	"branch-route-service/internal/platform/obs"
)

// SQL-backed implementation of the LocationRepository port. Works with
// SQLite and Postgres through Dialect.
type SQLLocationRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLLocationRepository(db *sql.DB, dialect Dialect) *SQLLocationRepository {
	return &SQLLocationRepository{DB: db, Dialect: dialect}
}

func (s *SQLLocationRepository) GetBranch(ctx context.Context, branchID string) (_ domain.Location, err error) {
	defer obs.Time(ctx, "locations.GetBranch")(&err)

	if s.DB == nil {
		return domain.Location{}, errors.New("location repository: DB is nil")
	}

	query := s.Dialect.Rebind(`
	SELECT branch_id, name, lat, lon
	FROM branches
	WHERE branch_id = ?;
	`)

	var loc domain.Location
	err = s.DB.QueryRowContext(ctx, query, branchID).Scan(&loc.ID, &loc.Name, &loc.Lat, &loc.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, fmt.Errorf("get branch %q: %w", branchID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("get branch %q: query branches table: %w", branchID, err)
	}

	return loc, nil
}

// Return up to limit clients of a branch ordered by id. A non-positive limit
// returns every client.
func (s *SQLLocationRepository) ListClients(ctx context.Context, branchID string, limit int) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "locations.ListClients")(&err)

	if s.DB == nil {
		return nil, errors.New("location repository: DB is nil")
	}

	query := `
	SELECT client_id, name, lat, lon
	FROM clients
	WHERE branch_id = ?
	ORDER BY client_id
	`
	args := []any{branchID}
	if limit > 0 {
		query += "LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: query clients table: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Location, 0, max(limit, 16))
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Lat, &loc.Lon); err != nil {
			return nil, fmt.Errorf("list clients: scan row: %w", err)
		}
		clients = append(clients, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: row iteration: %w", err)
	}

	return clients, nil
}
