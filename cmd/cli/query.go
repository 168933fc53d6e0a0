package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vpnda/ledgerbook/pkg/config"
	"github.com/vpnda/ledgerbook/pkg/models"
	"github.com/vpnda/ledgerbook/pkg/services"
	"github.com/vpnda/ledgerbook/pkg/utils"
)

func (r *replState) listEntries(input string) {
	// Format: list [filter] [count]
	parts := utils.SplitQuoted(input)

	filter := ""
	countArg := ""
	if len(parts) > 1 {
		filter = parts[1]
	}
	if len(parts) > 2 {
		countArg = parts[2]
	}

	count, err := services.ParseCount(countArg)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Printf("Invalid count: %v\n", validationErr)
			return
		}
		log.Error().Err(err).Msg("Error parsing count")
		return
	}

	entries, err := r.submitter.ListEntries(context.Background(), r.user, filter, count)
	if err != nil {
		log.Error().Err(err).Msg("Error listing entries")
		return
	}

	if len(entries) == 0 {
		fmt.Println("No matching entries found.")
		return
	}

	for _, entry := range entries {
		fmt.Println(entry.Body)
		fmt.Println()
	}
	fmt.Printf("%d entries shown, newest first.\n", len(entries))
}

func (r *replState) listAccounts(input string) {
	parts := utils.SplitQuoted(input)
	search := ""
	if len(parts) > 1 {
		search = parts[1]
	}

	accounts, err := r.submitter.Accounts(context.Background(), r.user, search)
	if err != nil {
		log.Error().Err(err).Msg("Error listing accounts")
		return
	}
	printValues("accounts", accounts)
}

func (r *replState) listPayees(input string) {
	parts := utils.SplitQuoted(input)
	search := ""
	if len(parts) > 1 {
		search = parts[1]
	}

	payees, err := r.submitter.Payees(context.Background(), r.user, search)
	if err != nil {
		log.Error().Err(err).Msg("Error listing payees")
		return
	}
	printValues("payees", payees)
}

func (r *replState) listCurrencies() {
	currencies, err := r.submitter.Currencies(context.Background(), r.user)
	if err != nil {
		log.Error().Err(err).Msg("Error listing currencies")
		return
	}
	printValues("currencies", currencies)
}

func (r *replState) exportCsv(input string) {
	// Format: csv [monthly] [currency]
	parts := utils.SplitQuoted(input)

	defaultCurrency, err := config.GetDefaultCurrency()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}

	monthly := false
	currency := defaultCurrency
	for _, part := range parts[1:] {
		if part == "monthly" {
			monthly = true
		} else {
			currency = part
		}
	}

	reader, err := r.submitter.Csv(context.Background(), r.user, monthly, currency)
	if err != nil {
		log.Error().Err(err).Msg("Error exporting csv")
		return
	}

	if _, err := io.Copy(os.Stdout, reader); err != nil {
		log.Error().Err(err).Msg("Error writing csv output")
	}
}

func printValues(label string, values []string) {
	if len(values) == 0 {
		fmt.Printf("No %s found.\n", label)
		return
	}
	fmt.Println(strings.Join(values, "\n"))
	fmt.Printf("%d %s.\n", len(values), label)
}
