package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vpnda/ledgerbook/pkg/models"
)

func TestSaveRule(t *testing.T) {
	// Setup
	db := setupTestDB(t)
	defer db.Close()

	user, err := db.UpsertUser("alice", "/tmp/alice.ledger")
	assert.NoError(t, err)

	t.Run("Insert new rule", func(t *testing.T) {
		rule := &models.Rule{
			Payee:    "CARREFOUR .*",
			NewPayee: "Carrefour",
			Account:  "Expenses:Food",
		}

		err := db.SaveRule(user.ID, rule)
		assert.NoError(t, err)

		rules, err := db.GetRules(user.ID)
		assert.NoError(t, err)
		assert.Len(t, rules, 1)
		assert.Equal(t, *rule, rules[0])
	})

	t.Run("Update existing rule", func(t *testing.T) {
		updated := &models.Rule{
			Payee:    "CARREFOUR .*",
			NewPayee: "Carrefour Market",
			Account:  "Expenses:Groceries",
		}

		err := db.SaveRule(user.ID, updated)
		assert.NoError(t, err)

		// Same pattern pair, so the rule was replaced, not duplicated
		rules, err := db.GetRules(user.ID)
		assert.NoError(t, err)
		assert.Len(t, rules, 1)
		assert.Equal(t, "Carrefour Market", rules[0].NewPayee)
		assert.Equal(t, "Expenses:Groceries", rules[0].Account)
	})

	t.Run("Distinct note pattern is a distinct rule", func(t *testing.T) {
		withNote := &models.Rule{
			Payee:   "CARREFOUR .*",
			Note:    ":groceries:",
			Account: "Expenses:Groceries",
		}

		err := db.SaveRule(user.ID, withNote)
		assert.NoError(t, err)

		rules, err := db.GetRules(user.ID)
		assert.NoError(t, err)
		assert.Len(t, rules, 2)
	})
}

func TestRulesAreScopedPerUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	alice, err := db.UpsertUser("alice", "/tmp/alice.ledger")
	assert.NoError(t, err)
	bob, err := db.UpsertUser("bob", "/tmp/bob.ledger")
	assert.NoError(t, err)

	err = db.SaveRule(alice.ID, &models.Rule{Payee: "ZABKA .*", NewPayee: "Żabka"})
	assert.NoError(t, err)

	aliceRules, err := db.GetRules(alice.ID)
	assert.NoError(t, err)
	assert.Len(t, aliceRules, 1)

	bobRules, err := db.GetRules(bob.ID)
	assert.NoError(t, err)
	assert.Empty(t, bobRules)
}

func TestDeleteRule(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := db.UpsertUser("alice", "/tmp/alice.ledger")
	assert.NoError(t, err)

	err = db.SaveRule(user.ID, &models.Rule{Payee: "ZABKA .*", NewPayee: "Żabka"})
	assert.NoError(t, err)

	err = db.DeleteRule(user.ID, "ZABKA .*", "")
	assert.NoError(t, err)

	rules, err := db.GetRules(user.ID)
	assert.NoError(t, err)
	assert.Empty(t, rules)

	// Deleting a rule that no longer exists fails
	err = db.DeleteRule(user.ID, "ZABKA .*", "")
	assert.Error(t, err)
}
