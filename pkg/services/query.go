package services

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/vpnda/ledgerbook/pkg/journal"
	"github.com/vpnda/ledgerbook/pkg/models"
)

// CountAll lists every entry.
const CountAll = -1

// ParseCount interprets the listing count parameter: empty or "all"
// means no limit, anything else must be a non-negative integer.
func ParseCount(count string) (int, error) {
	if count == "" || count == "all" {
		return CountAll, nil
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return 0, &models.ValidationError{
			Field:  "count",
			Reason: "must be a non-negative integer or \"all\"",
		}
	}
	return n, nil
}

// ListEntries returns the user's entries newest first, optionally
// filtered by a case-insensitive substring and truncated to count
// entries. The oracle's print dump is preferred since it normalizes
// formatting; if the oracle fails the raw file is parsed directly.
func (s *Submitter) ListEntries(ctx context.Context, user *models.User, filter string, count int) ([]journal.Entry, error) {
	var entries []journal.Entry

	lines, err := s.oracleFor(user).Print(ctx)
	if err == nil {
		entries = journal.ParseLines(lines)
	} else {
		log.Warn().Err(err).Str("user", user.Name).
			Msg("Ledger oracle unavailable, falling back to direct file parsing")
		entries, err = journal.New(user.LedgerPath).Entries()
		if err != nil {
			return nil, err
		}
	}

	// Newest first.
	entries = lo.Reverse(entries)

	if filter != "" {
		needle := strings.ToLower(filter)
		entries = lo.Filter(entries, func(entry journal.Entry, _ int) bool {
			return strings.Contains(strings.ToLower(entry.Body), needle)
		})
	}

	if count != CountAll && count < len(entries) {
		entries = entries[:count]
	}
	return entries, nil
}

// Accounts returns the account names known to the oracle, optionally
// filtered by a case-insensitive substring search.
func (s *Submitter) Accounts(ctx context.Context, user *models.User, search string) ([]string, error) {
	accounts, err := s.oracleFor(user).Accounts(ctx)
	if err != nil {
		return nil, err
	}
	return filterBySearch(accounts, search), nil
}

// Payees returns the payees known to the oracle, optionally filtered by
// a case-insensitive substring search.
func (s *Submitter) Payees(ctx context.Context, user *models.User, search string) ([]string, error) {
	payees, err := s.oracleFor(user).Payees(ctx)
	if err != nil {
		return nil, err
	}
	return filterBySearch(payees, search), nil
}

// Currencies returns the commodities known to the oracle.
func (s *Submitter) Currencies(ctx context.Context, user *models.User) ([]string, error) {
	return s.oracleFor(user).Currencies(ctx)
}

// Csv exports the user's journal as tabular text. Unlike listing there
// is no file fallback; aggregation without the oracle would silently
// return wrong data, so this fails closed.
func (s *Submitter) Csv(ctx context.Context, user *models.User, monthly bool, currency string) (io.Reader, error) {
	return s.oracleFor(user).Csv(ctx, monthly, currency)
}

func filterBySearch(values []string, search string) []string {
	if search == "" {
		return values
	}
	needle := strings.ToLower(search)
	return lo.Filter(values, func(value string, _ int) bool {
		return strings.Contains(strings.ToLower(value), needle)
	})
}
