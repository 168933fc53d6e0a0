package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
)

// AccountLine is a single leg of an entry. Amount is either empty (the
// balancing line, implied by the other legs) or a decimal string with
// exactly two fraction digits. Currency is never set without an amount.
type AccountLine struct {
	Name     string `json:"name"`
	Amount   string `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type accountForm int

const (
	bareForm accountForm = iota
	combinedForm
	splitForm
)

// AccountInput is one account leg as submitted, before normalization.
// Submissions come in three shapes: a bare account name, a name with a
// combined "amount currency" string, or a name with amount and currency
// already split.
type AccountInput struct {
	form     accountForm
	name     string
	amount   string
	currency string
}

// BareAccount is the balancing leg, with no amount or currency.
func BareAccount(name string) AccountInput {
	return AccountInput{form: bareForm, name: name}
}

// CombinedAccount carries the amount and optional currency in a single
// string, split on the first space ("19.99 PLN", "5 USD", "12.50").
func CombinedAccount(name, amountCurrency string) AccountInput {
	return AccountInput{form: combinedForm, name: name, amount: amountCurrency}
}

// SplitAccount carries an explicit amount and currency.
func SplitAccount(name, amount, currency string) AccountInput {
	return AccountInput{form: splitForm, name: name, amount: amount, currency: currency}
}

// Name returns the account name of the leg.
func (a AccountInput) Name() string {
	return a.name
}

// Rename returns a copy of the input with the account name replaced.
func (a AccountInput) Rename(name string) AccountInput {
	a.name = name
	return a
}

// NormalizeAmount returns a copy of the input with the amount trimmed and
// comma decimal separators replaced by dots. Applied to every leg before
// entry construction.
func (a AccountInput) NormalizeAmount() AccountInput {
	if a.form == bareForm {
		return a
	}
	a.amount = strings.TrimSpace(strings.ReplaceAll(a.amount, ",", "."))
	return a
}

func (a AccountInput) toLine() (AccountLine, error) {
	line := AccountLine{Name: a.name}

	amount := a.amount
	currency := a.currency
	if a.form == combinedForm {
		amount, currency, _ = strings.Cut(a.amount, " ")
	}
	if a.form == bareForm || amount == "" {
		// No amount means no currency either, a currency without a
		// value leads to weird bugs downstream.
		return line, nil
	}

	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return line, &ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("malformed amount %q for account %q", amount, a.name),
		}
	}
	line.Amount = fmt.Sprintf("%.2f", value)
	line.Currency = currency
	return line, nil
}

// Entry is one journal transaction. It is immutable after construction;
// build it through NewEntry and treat the fields as read-only.
type Entry struct {
	Payee    string        `json:"payee"`
	Date     string        `json:"date"`
	Note     string        `json:"note,omitempty"`
	Accounts []AccountLine `json:"accounts"`
}

// NewEntry normalizes the submitted account legs and validates the entry.
// At least two legs are required and at most one of them may omit its
// amount, otherwise the implied balance is ambiguous.
func NewEntry(payee, date, note string, accounts []AccountInput) (*Entry, error) {
	if len(accounts) < 2 {
		return nil, &ValidationError{
			Field:  "accounts",
			Reason: fmt.Sprintf("an entry needs at least two account lines, got %d", len(accounts)),
		}
	}

	entry := &Entry{
		Payee:    payee,
		Date:     date,
		Note:     note,
		Accounts: make([]AccountLine, 0, len(accounts)),
	}

	omitted := 0
	for _, account := range accounts {
		line, err := account.toLine()
		if err != nil {
			return nil, err
		}
		if line.Amount == "" {
			omitted++
		}
		entry.Accounts = append(entry.Accounts, line)
	}
	if omitted > 1 {
		return nil, &ValidationError{
			Field:  "accounts",
			Reason: "more than one account line omits its amount",
		}
	}

	return entry, nil
}

// Render produces the exact on-disk text form: a blank separator line,
// the "date payee" header, one "    ; line" per note line, and the
// column-aligned account lines. No trailing whitespace on any line and
// no trailing newline; the caller terminates the entry when appending.
func (e *Entry) Render() string {
	lines := []string{"", fmt.Sprintf("%s %s", e.Date, e.Payee)}
	if e.Note != "" {
		for _, noteLine := range strings.Split(e.Note, "\n") {
			lines = append(lines, strings.TrimRight("    ; "+noteLine, " "))
		}
	}
	for _, account := range e.Accounts {
		if account.Amount == "" {
			lines = append(lines, "    "+account.Name)
			continue
		}
		display := NormalizeCurrency(account.Currency)
		if display.Position == PositionLeft {
			lines = append(lines, fmt.Sprintf("    %-34s  %12s", account.Name, display.Symbol+account.Amount))
		} else {
			lines = append(lines, fmt.Sprintf("    %-34s  %12s %s", account.Name, account.Amount, display.Symbol))
		}
	}
	return strings.Join(lines, "\n")
}

// Balance computes the amount implied for the balancing line: the negated
// sum of all legs that carry an amount. All amount-bearing legs must share
// one currency. Legs without a currency code are summed as the provided
// default.
func (e *Entry) Balance(defaultCurrency string) (*money.Money, error) {
	var total *money.Money
	for _, account := range e.Accounts {
		if account.Amount == "" {
			continue
		}
		code := account.Currency
		if code == "" || code == "$" {
			code = defaultCurrency
		}
		leg, err := amountToMoney(account.Amount, code)
		if err != nil {
			return nil, err
		}
		if total == nil {
			total = leg
			continue
		}
		total, err = total.Add(leg)
		if err != nil {
			return nil, fmt.Errorf("mixed currencies in entry: %w", err)
		}
	}
	if total == nil {
		return nil, fmt.Errorf("entry has no account line with an amount")
	}
	return total.Negative(), nil
}

// amountToMoney converts a normalized two-fraction-digit amount string
// into minor units.
func amountToMoney(amount, currency string) (*money.Money, error) {
	units, err := strconv.ParseInt(strings.Replace(amount, ".", "", 1), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	return money.New(units, currency), nil
}
