package models

// Rule is a user-owned rewrite rule applied to incoming submissions.
// Payee and Note are regular expressions that must match the whole field
// value; empty patterns impose no condition. NewPayee and NewNote are
// replacement strings and may reference capture groups of the matched
// pattern with $1-style references. Account, if set, replaces the
// designated default/uncategorized account in matching entries.
//
// A user may own many rules; they are unique on (payee pattern, note
// pattern).
type Rule struct {
	Payee    string `json:"payee"`
	NewPayee string `json:"newPayee,omitempty"`
	Note     string `json:"note,omitempty"`
	NewNote  string `json:"newNote,omitempty"`
	Account  string `json:"account,omitempty"`
}

// User owns a ledger file and a rule set.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	LedgerPath string `json:"ledgerPath"`
}

// UndoRecord remembers where the last successful append landed. One live
// record per user. It can go stale (another append, an external edit), so
// it is always re-validated against the live file before being trusted.
type UndoRecord struct {
	LastEntry   Entry `json:"lastEntry"`
	OldPosition int64 `json:"oldPosition"`
	NewPosition int64 `json:"newPosition"`
}
