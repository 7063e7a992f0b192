package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no network is stored under the requested name.
var ErrNotFound = errors.New("db: network not found")

// Store keeps network descriptions, one row per named network. The SQL is
// written to run unchanged on MySQL and SQLite.
type Store struct {
	DB *sql.DB
}

// Open connects with driver ("mysql" or "sqlite") and checks the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", driver, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: ping %s: %w", driver, err)
	}
	return conn, nil
}

func (s Store) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS networks (
            name       VARCHAR(128) NOT NULL PRIMARY KEY,
            body       MEDIUMTEXT   NOT NULL,
            updated_at BIGINT       NOT NULL
        )
    `)
	if err != nil {
		return fmt.Errorf("db: ensure schema: %w", err)
	}
	return nil
}

// PutNetwork stores body under name, replacing any previous version.
func (s Store) PutNetwork(ctx context.Context, name, body string) error {
	_, err := s.DB.ExecContext(ctx,
		`REPLACE INTO networks (name, body, updated_at) VALUES (?, ?, ?)`,
		name, body, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("db: put network %q: %w", name, err)
	}
	return nil
}

// Network returns the stored description for name.
func (s Store) Network(ctx context.Context, name string) (string, error) {
	var body string
	err := s.DB.QueryRowContext(ctx, `SELECT body FROM networks WHERE name=?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("db: get network %q: %w", name, err)
	}
	return body, nil
}

// Names lists stored networks alphabetically.
func (s Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT name FROM networks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db: list networks: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0, 4)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
