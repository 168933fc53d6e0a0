package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vpnda/ledgerbook/pkg/models"
)

func (db *DB) createUndoRecordsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS undo_records (
		user_id INTEGER PRIMARY KEY,
		last_entry TEXT NOT NULL,
		old_position INTEGER NOT NULL,
		new_position INTEGER NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create undo_records table: %w", err)
	}
	return nil
}

// SaveUndoRecord replaces the user's undo record. At most one record is
// live per user; every successful append overwrites it.
func (db *DB) SaveUndoRecord(userID int64, record *models.UndoRecord) error {
	lastEntry, err := json.Marshal(record.LastEntry)
	if err != nil {
		return fmt.Errorf("failed to serialize last entry: %w", err)
	}

	query := `
	INSERT INTO undo_records (user_id, last_entry, old_position, new_position, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(user_id) DO UPDATE SET
		last_entry = excluded.last_entry,
		old_position = excluded.old_position,
		new_position = excluded.new_position,
		updated_at = CURRENT_TIMESTAMP
	`

	_, err = db.Exec(query, userID, string(lastEntry), record.OldPosition, record.NewPosition)
	if err != nil {
		return fmt.Errorf("failed to save undo record: %w", err)
	}

	return nil
}

// GetUndoRecord retrieves the user's undo record, or nil if no append has
// been recorded yet.
func (db *DB) GetUndoRecord(userID int64) (*models.UndoRecord, error) {
	query := `
	SELECT last_entry, old_position, new_position
	FROM undo_records
	WHERE user_id = ?
	LIMIT 1
	`

	var lastEntry string
	var record models.UndoRecord
	err := db.QueryRow(query, userID).Scan(
		&lastEntry,
		&record.OldPosition,
		&record.NewPosition,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get undo record: %w", err)
	}

	if err := json.Unmarshal([]byte(lastEntry), &record.LastEntry); err != nil {
		return nil, fmt.Errorf("failed to deserialize last entry: %w", err)
	}

	return &record, nil
}
