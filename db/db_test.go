package db

import (
	"os"
	"path/filepath"
	"testing"
)

// setupTestDB creates an initialized database backed by a temp file.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	return db
}

func TestNew(t *testing.T) {
	// Create a temporary database file
	tempFile, err := os.CreateTemp("", "test-db-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tempFile.Close()
	defer os.Remove(tempFile.Name())

	// Test creating a new database
	db, err := New(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	// Verify the database connection works
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}
}

func TestInitialize(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// Verify all tables were created
	for _, table := range []string{"users", "rules", "undo_records"} {
		var tableName string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&tableName)
		if err != nil {
			t.Fatalf("Failed to query for %s table: %v", table, err)
		}
		if tableName != table {
			t.Fatalf("Expected table name '%s', got '%s'", table, tableName)
		}
	}
}

func TestUpsertAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := db.UpsertUser("alice", "/home/alice/finance.ledger")
	if err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}
	if user.ID == 0 {
		t.Errorf("Expected a non-zero user id")
	}
	if user.LedgerPath != "/home/alice/finance.ledger" {
		t.Errorf("Expected ledger path '/home/alice/finance.ledger', got '%s'", user.LedgerPath)
	}

	// Upserting again updates the path but keeps the id
	updated, err := db.UpsertUser("alice", "/srv/ledgers/alice.ledger")
	if err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	if updated.ID != user.ID {
		t.Errorf("Expected user id %d to be stable, got %d", user.ID, updated.ID)
	}
	if updated.LedgerPath != "/srv/ledgers/alice.ledger" {
		t.Errorf("Expected updated ledger path, got '%s'", updated.LedgerPath)
	}
}

func TestGetUserByNameUnknown(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := db.GetUserByName("nobody")
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if user != nil {
		t.Errorf("Expected nil for an unknown user, got %+v", user)
	}
}
