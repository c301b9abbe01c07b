package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateStoreFixture writes a credential database at dbPath holding the
// given values. Empty values are not inserted.
func CreateStoreFixture(t *testing.T, dbPath, token, role string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS credentials (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	if token != "" {
		InsertCredential(t, db, "userToken", token)
	}
	if role != "" {
		InsertCredential(t, db, "userRole", role)
	}
}

// ReadStoreFixture returns the credentials stored at dbPath
func ReadStoreFixture(t *testing.T, dbPath string) map[string]string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query("SELECT key, value FROM credentials")
	if err != nil {
		t.Fatalf("Failed to query credentials: %v", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			t.Fatalf("Failed to scan credential: %v", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Failed to read credentials: %v", err)
	}
	return out
}
