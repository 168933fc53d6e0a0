package cli

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/vpnda/ledgerbook/pkg/config"
	"github.com/vpnda/ledgerbook/pkg/journal"
	"github.com/vpnda/ledgerbook/pkg/models"
	"github.com/vpnda/ledgerbook/pkg/services"
	"github.com/vpnda/ledgerbook/pkg/utils"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// submitArgs holds the optional arguments of the submit command.
type submitArgs struct {
	currency  string
	date      string
	note      string
	skipRules bool
}

// parseSubmitArgs classifies the arguments after <payee> <amount>. The
// literal "skip-rules" and a YYYY-MM-DD date are recognized in any
// position; of the remaining arguments the first is the currency and
// the second the note.
func parseSubmitArgs(args []string, defaultCurrency string) submitArgs {
	parsed := submitArgs{currency: defaultCurrency}
	var positional []string
	for _, arg := range args {
		switch {
		case arg == "skip-rules":
			parsed.skipRules = true
		case dateRe.MatchString(arg):
			parsed.date = arg
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) > 0 {
		parsed.currency = positional[0]
	}
	if len(positional) > 1 {
		parsed.note = positional[1]
	}
	return parsed
}

func (r *replState) submitEntry(input string) {
	// Parse the submit command
	// Format: submit <payee> <amount> [currency] [date] [note] [skip-rules]
	parts := utils.SplitQuoted(input)
	if len(parts) < 3 {
		fmt.Println("Invalid submit command format.")
		fmt.Println("Usage: submit <payee> <amount> [currency] [date] [note] [skip-rules]")
		fmt.Println("Example: submit \"Burger King\" 19.99 PLN 2019-02-15 \"lunch with friends\"")
		return
	}

	payee := parts[1]
	amount := parts[2]

	currency, err := config.GetDefaultCurrency()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}
	toAccount, err := config.GetDefaultToAccount()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}
	fromAccount, err := config.GetDefaultFromAccount()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}

	args := parseSubmitArgs(parts[3:], currency)

	request := &services.SubmitRequest{
		Payee: payee,
		Date:  args.date,
		Note:  args.note,
		Accounts: []models.AccountInput{
			models.SplitAccount(toAccount, amount, args.currency),
			models.BareAccount(fromAccount),
		},
		SkipRules: args.skipRules,
	}

	entry, err := r.submitter.Submit(context.Background(), r.user, request)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Printf("Submission rejected: %v\n", validationErr)
			return
		}
		log.Error().Err(err).Msg("Error submitting entry")
		return
	}

	fmt.Println("Appended entry:")
	fmt.Println(entry.Render())
	fmt.Println()

	if balance, err := entry.Balance(currency); err == nil {
		fmt.Printf("Balancing amount for %s: %s\n",
			entry.Accounts[len(entry.Accounts)-1].Name, balance.Display())
	}
}

func (r *replState) revertLastEntry() {
	err := r.submitter.Revert(context.Background(), r.user)
	if err != nil {
		if errors.Is(err, journal.ErrCannotRevert) {
			fmt.Println("Cannot revert: the ledger file no longer ends with the last recorded entry.")
			return
		}
		log.Error().Err(err).Msg("Error reverting last entry")
		return
	}

	fmt.Println("Last entry reverted.")
}

// revertStatus reports whether the most recent append is still
// revertible, for display in user show.
func (r *replState) revertStatus() string {
	if r.submitter.CanRevert(context.Background(), r.user) {
		return "yes"
	}
	return "no"
}
