// Package services implements the submission, revert and query flows on
// top of the journal store, the rule matcher and the database.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/vpnda/ledgerbook/db"
	"github.com/vpnda/ledgerbook/pkg/config"
	"github.com/vpnda/ledgerbook/pkg/journal"
	"github.com/vpnda/ledgerbook/pkg/ledgercli"
	"github.com/vpnda/ledgerbook/pkg/models"
	"github.com/vpnda/ledgerbook/pkg/rules"
)

// Submitter runs the write path: rule rewriting, entry normalization,
// the durable append and the undo bookkeeping, plus the revert flow.
//
// Appends and reverts for one user are serialized by an in-process
// mutex keyed by user id, so concurrent requests from the same user
// cannot interleave an append with a revert.
type Submitter struct {
	database db.DBInterface
	config   *config.Config

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewSubmitter creates a submitter using the given database and
// configuration.
func NewSubmitter(database db.DBInterface, cfg *config.Config) *Submitter {
	return &Submitter{
		database: database,
		config:   cfg,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// SubmitRequest is one incoming transaction, before rules and
// normalization run.
type SubmitRequest struct {
	Payee     string
	Date      string
	Note      string
	Accounts  []models.AccountInput
	SkipRules bool
}

// userLock returns the per-user mutex, creating it on first use.
func (s *Submitter) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Submit rewrites the request through the user's rules (unless skipped),
// normalizes it into an entry, appends the entry to the user's ledger
// file and records the append in the undo ledger. Returns the persisted
// entry.
func (s *Submitter) Submit(ctx context.Context, user *models.User, request *SubmitRequest) (*models.Entry, error) {
	lock := s.userLock(user.ID)
	lock.Lock()
	defer lock.Unlock()

	date := request.Date
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}

	payee := request.Payee
	note := request.Note
	accounts := lo.Map(request.Accounts, func(account models.AccountInput, _ int) models.AccountInput {
		return account.NormalizeAmount()
	})

	if !request.SkipRules {
		ruleSet, err := s.database.GetRules(user.ID)
		if err != nil {
			return nil, err
		}

		fields := &rules.Fields{
			Payee: payee,
			Note:  note,
			Accounts: lo.Map(accounts, func(account models.AccountInput, _ int) string {
				return account.Name()
			}),
		}
		matcher := rules.NewMatcher(s.config.DefaultsOptions.ToAccount, ruleSet)
		if matcher.Apply(fields) {
			payee = fields.Payee
			note = fields.Note
			for i := range accounts {
				accounts[i] = accounts[i].Rename(fields.Accounts[i])
			}
		}
	}

	entry, err := models.NewEntry(payee, date, note, accounts)
	if err != nil {
		return nil, err
	}

	oldPosition, newPosition, err := journal.New(user.LedgerPath).Append(entry)
	if err != nil {
		return nil, err
	}

	record := &models.UndoRecord{
		LastEntry:   *entry,
		OldPosition: oldPosition,
		NewPosition: newPosition,
	}
	if err := s.database.SaveUndoRecord(user.ID, record); err != nil {
		return nil, err
	}

	log.Info().
		Str("user", user.Name).
		Str("payee", entry.Payee).
		Int64("old_position", oldPosition).
		Int64("new_position", newPosition).
		Msg("Entry appended")

	return entry, nil
}

// Revert undoes the user's most recent append if the ledger file still
// ends with exactly that entry. The undo record is kept in place; it is
// re-validated on every attempt, so a second revert without an append in
// between fails with journal.ErrCannotRevert.
func (s *Submitter) Revert(ctx context.Context, user *models.User) error {
	lock := s.userLock(user.ID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.database.GetUndoRecord(user.ID)
	if err != nil {
		return err
	}
	if record == nil {
		return journal.ErrCannotRevert
	}

	if err := journal.New(user.LedgerPath).Revert(record); err != nil {
		return err
	}

	log.Info().
		Str("user", user.Name).
		Str("payee", record.LastEntry.Payee).
		Int64("truncated_at", record.OldPosition).
		Msg("Last entry reverted")

	return nil
}

// CanRevert probes whether a revert would currently succeed, without
// touching the file.
func (s *Submitter) CanRevert(ctx context.Context, user *models.User) bool {
	record, err := s.database.GetUndoRecord(user.ID)
	if err != nil || record == nil {
		return false
	}
	return journal.New(user.LedgerPath).CanRevert(record)
}

// oracleFor builds the external query client for the user's ledger file.
func (s *Submitter) oracleFor(user *models.User) *ledgercli.Client {
	timeout := time.Duration(s.config.LedgerOptions.TimeoutSeconds) * time.Second
	return ledgercli.New(s.config.LedgerOptions.Binary, user.LedgerPath, timeout)
}
