package db

import (
	"fmt"

	"github.com/vpnda/ledgerbook/pkg/models"
)

// MockDB is a mock implementation of the DB for testing
type MockDB struct {
	// Mock data storage
	Users       map[string]*models.User
	Rules       map[int64][]models.Rule
	UndoRecords map[int64]*models.UndoRecord

	// Error values to return
	UpsertUserErr     error
	GetUserByNameErr  error
	SaveRuleErr       error
	GetRulesErr       error
	DeleteRuleErr     error
	SaveUndoRecordErr error
	GetUndoRecordErr  error

	nextUserID int64
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		Users:       make(map[string]*models.User),
		Rules:       make(map[int64][]models.Rule),
		UndoRecords: make(map[int64]*models.UndoRecord),
		nextUserID:  1,
	}
}

// Initialize is a no-op for the mock database
func (m *MockDB) Initialize() error {
	return nil
}

// Close is a no-op for the mock database
func (m *MockDB) Close() error {
	return nil
}

// UpsertUser creates or updates a user in the mock database
func (m *MockDB) UpsertUser(name, ledgerPath string) (*models.User, error) {
	if m.UpsertUserErr != nil {
		return nil, m.UpsertUserErr
	}

	if user, ok := m.Users[name]; ok {
		user.LedgerPath = ledgerPath
		return user, nil
	}

	user := &models.User{
		ID:         m.nextUserID,
		Name:       name,
		LedgerPath: ledgerPath,
	}
	m.nextUserID++
	m.Users[name] = user
	return user, nil
}

// GetUserByName returns a user by name
func (m *MockDB) GetUserByName(name string) (*models.User, error) {
	if m.GetUserByNameErr != nil {
		return nil, m.GetUserByNameErr
	}
	return m.Users[name], nil
}

// SaveRule saves a rule in the mock database
func (m *MockDB) SaveRule(userID int64, rule *models.Rule) error {
	if m.SaveRuleErr != nil {
		return m.SaveRuleErr
	}

	for i, existing := range m.Rules[userID] {
		if existing.Payee == rule.Payee && existing.Note == rule.Note {
			m.Rules[userID][i] = *rule
			return nil
		}
	}
	m.Rules[userID] = append(m.Rules[userID], *rule)
	return nil
}

// GetRules returns all rules owned by a user
func (m *MockDB) GetRules(userID int64) ([]models.Rule, error) {
	if m.GetRulesErr != nil {
		return nil, m.GetRulesErr
	}
	return m.Rules[userID], nil
}

// DeleteRule removes a rule from the mock database
func (m *MockDB) DeleteRule(userID int64, payee, note string) error {
	if m.DeleteRuleErr != nil {
		return m.DeleteRuleErr
	}

	for i, existing := range m.Rules[userID] {
		if existing.Payee == payee && existing.Note == note {
			m.Rules[userID] = append(m.Rules[userID][:i], m.Rules[userID][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no rule found for payee pattern: %s", payee)
}

// SaveUndoRecord replaces a user's undo record in the mock database
func (m *MockDB) SaveUndoRecord(userID int64, record *models.UndoRecord) error {
	if m.SaveUndoRecordErr != nil {
		return m.SaveUndoRecordErr
	}
	copied := *record
	m.UndoRecords[userID] = &copied
	return nil
}

// GetUndoRecord returns a user's undo record
func (m *MockDB) GetUndoRecord(userID int64) (*models.UndoRecord, error) {
	if m.GetUndoRecordErr != nil {
		return nil, m.GetUndoRecordErr
	}
	return m.UndoRecords[userID], nil
}
