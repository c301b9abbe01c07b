package internal

import (
	"context"
	"database/sql"
	"errors"
)

// CredentialStore persists the console's credentials in SQLite
type CredentialStore struct {
	db   *sql.DB
	path string
}

// OpenCredentialStore opens the credential database at path
func OpenCredentialStore(path string) (*CredentialStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	store, err := NewCredentialStore(db, path)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewCredentialStore wraps an already opened database, creating the
// credentials table when it is missing.
func NewCredentialStore(db *sql.DB, path string) (*CredentialStore, error) {
	if err := EnsureCredentialsTable(db); err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return &CredentialStore{db: db, path: path}, nil
}

// Path returns the database location
func (s *CredentialStore) Path() string {
	return s.path
}

// Get returns the value stored under key
func (s *CredentialStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT value FROM credentials WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Path: s.path, Op: "get " + key, Err: err}
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// Set stores value under key, replacing any previous value
func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO credentials (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return &StorageError{Path: s.path, Op: "set " + key, Err: err}
	}
	return nil
}

// Remove deletes key
func (s *CredentialStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE key = ?", key); err != nil {
		return &StorageError{Path: s.path, Op: "remove " + key, Err: err}
	}
	return nil
}

// Keys lists the stored keys, for diagnostics
func (s *CredentialStore) Keys() ([]string, error) {
	pairs, err := QueryCredentials(s.db)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "list", Err: err}
	}
	keys := make([]string, 0, len(pairs))
	for _, p := range pairs {
		keys = append(keys, p.Key)
	}
	return keys, nil
}

// Close closes the underlying database
func (s *CredentialStore) Close() error {
	return s.db.Close()
}
