package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
)

// LedgerOptions configures how the external ledger binary is invoked.
type LedgerOptions struct {
	Binary         string `yaml:"binary"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// DefaultsOptions holds the journal defaults applied to submissions.
type DefaultsOptions struct {
	Currency    string `yaml:"currency"`
	FromAccount string `yaml:"fromAccount"`
	ToAccount   string `yaml:"toAccount"`
}

// Config holds the application configuration
type Config struct {
	LedgerOptions   LedgerOptions   `yaml:"ledger"`
	DefaultsOptions DefaultsOptions `yaml:"defaults"`
}

var (
	// Global configuration instance
	globalConfig *Config
	// Mutex to ensure thread-safe access to the global configuration
	configMutex sync.RWMutex
	// Flag to track if the configuration has been loaded
	configLoaded bool
)

func defaultConfig() *Config {
	return &Config{
		LedgerOptions: LedgerOptions{
			Binary:         "ledger",
			TimeoutSeconds: 30,
		},
		DefaultsOptions: DefaultsOptions{
			Currency:    "USD",
			FromAccount: "Liabilities:Credit Card",
			ToAccount:   "Expenses:Uncategorized",
		},
	}
}

// LoadConfig loads the configuration from the specified YAML file
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// InitGlobalConfig initializes the global configuration from the specified file
func InitGlobalConfig(configPath string) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = config
	configLoaded = true
	return nil
}

// GetConfig returns the global configuration instance
// If the configuration hasn't been loaded yet, it attempts to load it from
// the default location (./config.yaml)
func GetConfig() (*Config, error) {
	configMutex.RLock()
	if configLoaded {
		defer configMutex.RUnlock()
		return globalConfig, nil
	}
	configMutex.RUnlock()

	// Try to load from default location
	configPath := "config.yaml"
	if err := InitGlobalConfig(configPath); err != nil {
		// If the default config file doesn't exist, create it
		if os.IsNotExist(err) {
			dir := filepath.Dir(configPath)
			if dir != "" && dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return nil, fmt.Errorf("error creating config directory: %w", err)
				}
			}

			config := defaultConfig()

			data, err := yaml.Marshal(config)
			if err != nil {
				return nil, fmt.Errorf("error creating default config: %w", err)
			}

			if err := os.WriteFile(configPath, data, 0644); err != nil {
				return nil, fmt.Errorf("error writing default config: %w", err)
			}

			configMutex.Lock()
			globalConfig = config
			configLoaded = true
			configMutex.Unlock()

			return config, nil
		}
		return nil, err
	}

	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig, nil
}

// GetLedgerBinary returns the name or path of the external ledger binary
func GetLedgerBinary() (string, error) {
	config, err := GetConfig()
	if err != nil {
		return "", err
	}

	if config.LedgerOptions.Binary == "" {
		return "", fmt.Errorf("error: ledger binary not set in configuration")
	}

	return config.LedgerOptions.Binary, nil
}

// GetLedgerTimeout returns the bounded timeout applied to every invocation
// of the external ledger binary
func GetLedgerTimeout() (time.Duration, error) {
	config, err := GetConfig()
	if err != nil {
		return 0, err
	}

	if config.LedgerOptions.TimeoutSeconds <= 0 {
		return 0, fmt.Errorf("error: ledger timeout not set in configuration")
	}

	return time.Duration(config.LedgerOptions.TimeoutSeconds) * time.Second, nil
}

// GetDefaultCurrency returns the currency assumed for submissions that do
// not name one
func GetDefaultCurrency() (string, error) {
	config, err := GetConfig()
	if err != nil {
		return "", err
	}

	return config.DefaultsOptions.Currency, nil
}

// GetDefaultFromAccount returns the account that funds a quick submission
func GetDefaultFromAccount() (string, error) {
	config, err := GetConfig()
	if err != nil {
		return "", err
	}

	if config.DefaultsOptions.FromAccount == "" {
		return "", fmt.Errorf("error: default source account not set in configuration")
	}

	return config.DefaultsOptions.FromAccount, nil
}

// GetDefaultToAccount returns the designated default/uncategorized account
// that rewrite rules may replace
func GetDefaultToAccount() (string, error) {
	config, err := GetConfig()
	if err != nil {
		return "", err
	}

	if config.DefaultsOptions.ToAccount == "" {
		return "", fmt.Errorf("error: default destination account not set in configuration")
	}

	return config.DefaultsOptions.ToAccount, nil
}
