package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vpnda/ledgerbook/pkg/models"
	"github.com/vpnda/ledgerbook/pkg/utils"
)

func (r *replState) handleRules(input string) {
	parts := utils.SplitQuoted(input)
	if len(parts) < 2 {
		printRuleUsage()
		return
	}

	switch parts[1] {
	case "list":
		r.listRules()
	case "add":
		r.addRule(parts[2:])
	case "remove":
		r.removeRule(parts[2:])
	default:
		printRuleUsage()
	}
}

func (r *replState) listRules() {
	rules, err := r.db.GetRules(r.user.ID)
	if err != nil {
		log.Error().Err(err).Msg("Error loading rules")
		return
	}

	if len(rules) == 0 {
		fmt.Println("No rules defined.")
		return
	}

	for i, rule := range rules {
		fmt.Printf("%d. payee=%q", i+1, rule.Payee)
		if rule.NewPayee != "" {
			fmt.Printf(" -> %q", rule.NewPayee)
		}
		if rule.Note != "" {
			fmt.Printf(", note=%q", rule.Note)
			if rule.NewNote != "" {
				fmt.Printf(" -> %q", rule.NewNote)
			}
		}
		if rule.Account != "" {
			fmt.Printf(", account=%q", rule.Account)
		}
		fmt.Println()
	}
}

func (r *replState) addRule(args []string) {
	if len(args) < 2 {
		printRuleUsage()
		return
	}

	rule := &models.Rule{
		Payee:    args[0],
		NewPayee: args[1],
	}
	if len(args) > 2 {
		rule.Account = args[2]
	}
	if len(args) > 3 {
		rule.Note = args[3]
	}
	if len(args) > 4 {
		rule.NewNote = args[4]
	}

	if err := r.db.SaveRule(r.user.ID, rule); err != nil {
		log.Error().Err(err).Msg("Error saving rule")
		return
	}
	fmt.Printf("Rule saved for payee pattern %q.\n", rule.Payee)
}

func (r *replState) removeRule(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: rule remove <payee-pattern> [note-pattern]")
		return
	}

	note := ""
	if len(args) > 1 {
		note = args[1]
	}

	if err := r.db.DeleteRule(r.user.ID, args[0], note); err != nil {
		log.Error().Err(err).Msg("Error removing rule")
		return
	}
	fmt.Printf("Rule removed for payee pattern %q.\n", args[0])
}

func (r *replState) handleUser(input string) {
	parts := utils.SplitQuoted(input)
	if len(parts) < 2 {
		printUserUsage()
		return
	}

	switch parts[1] {
	case "show":
		fmt.Printf("User: %s\n", r.user.Name)
		fmt.Printf("Ledger file: %s\n", r.user.LedgerPath)
		fmt.Printf("Last append revertible: %s\n", r.revertStatus())
	case "path":
		if len(parts) < 3 {
			printUserUsage()
			return
		}
		updated, err := r.db.UpsertUser(r.user.Name, parts[2])
		if err != nil {
			log.Error().Err(err).Msg("Error updating ledger path")
			return
		}
		r.user = updated
		fmt.Printf("Ledger file for %s is now %s\n", updated.Name, updated.LedgerPath)
	default:
		printUserUsage()
	}
}

func printRuleUsage() {
	fmt.Println("Usage:")
	fmt.Println("  rule list")
	fmt.Println("  rule add <payee-pattern> <new-payee> [account] [note-pattern] [new-note]")
	fmt.Println("  rule remove <payee-pattern> [note-pattern]")
}

func printUserUsage() {
	fmt.Println("Usage:")
	fmt.Println("  user show")
	fmt.Println("  user path <path>")
}
