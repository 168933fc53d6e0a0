package db

import (
	"database/sql"
	"fmt"

	"github.com/vpnda/ledgerbook/pkg/models"
)

// UpsertUser creates the user or updates their ledger file path.
func (db *DB) UpsertUser(name, ledgerPath string) (*models.User, error) {
	query := `
	INSERT INTO users (name, ledger_path)
	VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET
		ledger_path = excluded.ledger_path
	`

	_, err := db.Exec(query, name, ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return db.GetUserByName(name)
}

// GetUserByName retrieves a user by name, or nil if the user is unknown.
func (db *DB) GetUserByName(name string) (*models.User, error) {
	query := `
	SELECT id, name, ledger_path
	FROM users
	WHERE name = ?
	LIMIT 1
	`

	var user models.User
	err := db.QueryRow(query, name).Scan(
		&user.ID,
		&user.Name,
		&user.LedgerPath,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
