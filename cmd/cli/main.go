package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vpnda/ledgerbook/db"
	"github.com/vpnda/ledgerbook/pkg/config"
	"github.com/vpnda/ledgerbook/pkg/models"
	"github.com/vpnda/ledgerbook/pkg/services"
	"github.com/vpnda/ledgerbook/pkg/utils"
)

var (
	dbPath   string
	userName string
	rootCmd  *cobra.Command
)

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error().Err(err).Msg("Error getting home directory")
		os.Exit(1)
	}

	defaultDBPath := filepath.Join(homeDir, ".ledgerbook", "ledgerbook.db")

	// Initialize configuration
	if err := config.InitGlobalConfig("config.yaml"); err != nil {
		// Only print a warning if the file doesn't exist, as GetConfig will create it later
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Failed to load configuration")
			log.Warn().Msg("A default configuration will be used")
		}
	}

	rootCmd = &cobra.Command{
		Use:   "ledgerbook",
		Short: "A CLI tool for appending transactions to a plain-text ledger",
		Long: `A CLI tool that appends transactions to a per-user plain-text ledger file,
applies payee rewrite rules, and can undo the most recent append.`,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "Path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&userName, "user", "default", "Name of the ledger owner")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive REPL",
		Long:  `Start an interactive REPL for submitting, reverting and querying entries.`,
		Run: func(cmd *cobra.Command, args []string) {
			runREPL(initReplState())
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the current configuration",
		Long:  `Show the current configuration loaded from config.yaml.`,
		Run: func(cmd *cobra.Command, args []string) {
			showConfig()
		},
	}

	rootCmd.AddCommand(replCmd, configCmd)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

type replState struct {
	db        db.DBInterface
	submitter *services.Submitter
	user      *models.User
}

func initReplState() replState {
	// Initialize database
	database, err := db.New(dbPath)
	if err != nil {
		log.Error().Err(err).Msg("Error connecting to database")
		os.Exit(1)
	}
	if err := database.Initialize(); err != nil {
		log.Error().Err(err).Msg("Error initializing database")
		os.Exit(1)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		os.Exit(1)
	}

	user, err := database.GetUserByName(userName)
	if err != nil {
		log.Error().Err(err).Msg("Error looking up user")
		os.Exit(1)
	}
	if user == nil {
		// First run for this user, point them at a ledger file next to
		// the database.
		ledgerPath := filepath.Join(filepath.Dir(dbPath), userName+".ledger")
		user, err = database.UpsertUser(userName, ledgerPath)
		if err != nil {
			log.Error().Err(err).Msg("Error creating user")
			os.Exit(1)
		}
		log.Info().Str("user", userName).Str("ledger", ledgerPath).Msg("Created new ledger owner")
	}

	return replState{
		db:        database,
		submitter: services.NewSubmitter(database, cfg),
		user:      user,
	}
}

func runREPL(state replState) {
	fmt.Printf("Welcome to the ledgerbook REPL, %s!\n", utils.Capitalize(state.user.Name))
	fmt.Println("Type 'exit' or 'quit' to exit.")
	fmt.Println("Enter a command to submit or query ledger entries.")
	fmt.Println()

	// Close the database once you are done
	defer state.db.Close()

	// Start REPL
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		trimmedLine := strings.TrimSpace(line)

		if trimmedLine == "" {
			continue
		}

		if trimmedLine == "exit" || trimmedLine == "quit" {
			break
		}

		if trimmedLine == "help" {
			printHelp()
			continue
		}

		if trimmedLine == "config" {
			showConfig()
			continue
		}

		if strings.HasPrefix(trimmedLine, "submit") {
			state.submitEntry(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "revert") {
			state.revertLastEntry()
			continue
		}

		if strings.HasPrefix(trimmedLine, "list") {
			state.listEntries(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "accounts") {
			state.listAccounts(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "payees") {
			state.listPayees(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "currencies") {
			state.listCurrencies()
			continue
		}

		if strings.HasPrefix(trimmedLine, "csv") {
			state.exportCsv(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "rule") {
			state.handleRules(trimmedLine)
			continue
		}

		if strings.HasPrefix(trimmedLine, "user") {
			state.handleUser(trimmedLine)
			continue
		}

		fmt.Println("Unknown command. Type 'help' for a list of commands.")
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("Error reading input")
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  help                 - Show this help message")
	fmt.Println("  config               - Show the current configuration")
	fmt.Println("  submit <payee> <amount> [currency] [date] [note] [skip-rules]")
	fmt.Println("                       - Append an entry using the default accounts")
	fmt.Println("  revert               - Undo the most recent append, if still valid")
	fmt.Println("  list [filter] [count]")
	fmt.Println("                       - List entries, newest first")
	fmt.Println("  accounts [search]    - List account names known to the journal")
	fmt.Println("  payees [search]      - List payees known to the journal")
	fmt.Println("  currencies           - List commodities known to the journal")
	fmt.Println("  csv [monthly] [currency]")
	fmt.Println("                       - Export the journal as CSV")
	fmt.Println("  rule add <payee-pattern> <new-payee> [account] [note-pattern] [new-note]")
	fmt.Println("  rule list            - List rewrite rules")
	fmt.Println("  rule remove <payee-pattern> [note-pattern]")
	fmt.Println("  user show            - Show the current user, ledger path and revert state")
	fmt.Println("  user path <path>     - Point the current user at another ledger file")
	fmt.Println("  exit, quit           - Exit the REPL")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  The application uses a config.yaml file in the current directory.")
	fmt.Println("  It holds the ledger binary, the default currency and the default accounts.")
}

// showConfig displays the current configuration
func showConfig() {
	binary, err := config.GetLedgerBinary()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}
	timeout, err := config.GetLedgerTimeout()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}
	currency, err := config.GetDefaultCurrency()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}
	fromAccount, err := config.GetDefaultFromAccount()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}
	toAccount, err := config.GetDefaultToAccount()
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("Ledger binary:        %s\n", binary)
	fmt.Printf("Ledger timeout:       %s\n", timeout)
	fmt.Printf("Default currency:     %s\n", currency)
	fmt.Printf("Default from-account: %s\n", fromAccount)
	fmt.Printf("Default to-account:   %s\n", toAccount)
}
