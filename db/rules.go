package db

import (
	"fmt"

	"github.com/vpnda/ledgerbook/pkg/models"
)

func (db *DB) createRulesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS rules (
		user_id INTEGER NOT NULL,
		payee TEXT NOT NULL,
		new_payee TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		new_note TEXT NOT NULL DEFAULT '',
		account TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (user_id, payee, note)
	)
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create rules table: %w", err)
	}
	return nil
}

// SaveRule inserts the rule or, when a rule with the same pattern pair
// already exists for the user, replaces its rewrites.
func (db *DB) SaveRule(userID int64, rule *models.Rule) error {
	query := `
	INSERT INTO rules (user_id, payee, new_payee, note, new_note, account)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, payee, note) DO UPDATE SET
		new_payee = excluded.new_payee,
		new_note = excluded.new_note,
		account = excluded.account
	`

	_, err := db.Exec(query, userID, rule.Payee, rule.NewPayee, rule.Note, rule.NewNote, rule.Account)
	if err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}

	return nil
}

// GetRules retrieves all rewrite rules owned by the user.
func (db *DB) GetRules(userID int64) ([]models.Rule, error) {
	query := `
	SELECT payee, new_payee, note, new_note, account
	FROM rules
	WHERE user_id = ?
	ORDER BY payee, note
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		var rule models.Rule
		err := rows.Scan(
			&rule.Payee,
			&rule.NewPayee,
			&rule.Note,
			&rule.NewNote,
			&rule.Account,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

// DeleteRule removes the rule identified by its pattern pair.
func (db *DB) DeleteRule(userID int64, payee, note string) error {
	query := `DELETE FROM rules WHERE user_id = ? AND payee = ? AND note = ?`

	result, err := db.Exec(query, userID, payee, note)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no rule found for payee pattern: %s", payee)
	}

	return nil
}
