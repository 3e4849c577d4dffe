package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS visitor_values (
	visitor    TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (visitor, key)
);`

type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates the table if needed. db must use the sqlite3
// driver.
func NewSQLiteStorage(ctx context.Context, db *sql.DB) (*SQLiteStorage, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("create visitor_values: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, visitor, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM visitor_values WHERE visitor = ? AND key = ?`, visitor, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return v, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, visitor, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitor_values (visitor, key, value) VALUES (?, ?, ?)
		ON CONFLICT(visitor, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		visitor, key, value)
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) Clear(ctx context.Context, visitor string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM visitor_values WHERE visitor = ?`, visitor); err != nil {
		return fmt.Errorf("sqlite clear: %w", err)
	}
	return nil
}
