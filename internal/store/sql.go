package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// SQLKV stores values in the client_storage table (see database.Migrate).
type SQLKV struct{ DB *sql.DB }

// NewSQLKV wraps an open MySQL handle.
func NewSQLKV(db *sql.DB) *SQLKV { return &SQLKV{DB: db} }

func (s *SQLKV) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.DB.QueryRowContext(ctx,
		"SELECT v FROM client_storage WHERE k=? LIMIT 1", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *SQLKV) Set(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO client_storage (k, v) VALUES (?,?) ON DUPLICATE KEY UPDATE v=VALUES(v)",
		key, value)
	return err
}

func (s *SQLKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	q := "DELETE FROM client_storage WHERE k IN (?" + strings.Repeat(",?", len(keys)-1) + ")"
	_, err := s.DB.ExecContext(ctx, q, args...)
	return err
}
