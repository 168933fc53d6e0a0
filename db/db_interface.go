package db

import (
	"github.com/vpnda/ledgerbook/pkg/models"
)

// DBInterface defines the interface for database operations
type DBInterface interface {
	Initialize() error
	Close() error
	UpsertUser(name, ledgerPath string) (*models.User, error)
	GetUserByName(name string) (*models.User, error)
	SaveRule(userID int64, rule *models.Rule) error
	GetRules(userID int64) ([]models.Rule, error)
	DeleteRule(userID int64, payee, note string) error
	SaveUndoRecord(userID int64, record *models.UndoRecord) error
	GetUndoRecord(userID int64) (*models.UndoRecord, error)
}

// Ensure DB implements DBInterface
var _ DBInterface = (*DB)(nil)

// Ensure MockDB implements DBInterface
var _ DBInterface = (*MockDB)(nil)
