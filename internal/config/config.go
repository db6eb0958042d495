package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"smartbudget/internal/log"
)

// Keys double as environment variable names.
const (
	KeyDataBackend           = "DATA_BACKEND"
	KeySpreadsheetID         = "GOOGLE_SPREADSHEET_ID"
	KeyBudgetSheetName       = "BUDGET_SHEET_NAME"
	KeyTransactionsSheetName = "TRANSACTIONS_SHEET_NAME"
	KeyServiceAccountJSON    = "GOOGLE_SERVICE_ACCOUNT_JSON"
	KeyServiceAccountFile    = "GOOGLE_SERVICE_ACCOUNT_FILE"
	KeyApplicationCreds      = "GOOGLE_APPLICATION_CREDENTIALS"
	KeyOAuthClientFile       = "GOOGLE_OAUTH_CLIENT_FILE"
	KeyOAuthClientJSON       = "GOOGLE_OAUTH_CLIENT_JSON"
	KeyOAuthTokenFile        = "GOOGLE_OAUTH_TOKEN_FILE"
	KeyOAuthTokenJSON        = "GOOGLE_OAUTH_TOKEN_JSON"
	KeySQLiteDBPath          = "SQLITE_DB_PATH"
	KeyAMQPURL               = "AMQP_URL"
	KeyAMQPExchange          = "AMQP_EXCHANGE"
	KeyAMQPQueue             = "AMQP_QUEUE"
	KeyLogLevel              = "LOG_LEVEL"
)

const defaultServiceAccountFile = "creds.json"

var validBackends = []string{"sheets", "sqlite", "memory"}

type Config struct {
	// Backend selection
	DataBackend string

	// Google Sheets
	GoogleSpreadsheetID      string
	BudgetSheetName          string
	TransactionsSheetName    string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleOAuthClientFile    string
	GoogleOAuthTokenFile     string
	GoogleOAuthClientJSON    string
	GoogleOAuthTokenJSON     string

	// Database
	SQLiteDBPath string

	// AMQP, disabled when the URL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	LogLevel string
}

// NewViper returns a viper instance with defaults set and environment
// variables bound.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDataBackend, "sheets")
	v.SetDefault(KeyBudgetSheetName, "budget")
	v.SetDefault(KeyTransactionsSheetName, "transactions")
	v.SetDefault(KeySQLiteDBPath, "./data/smartbudget.db")
	v.SetDefault(KeyAMQPExchange, "smartbudget")
	v.SetDefault(KeyAMQPQueue, "change_events")
	v.SetDefault(KeyLogLevel, "warn")
	v.AutomaticEnv()
	return v
}

// ReadFile merges an optional YAML config file into v. Environment
// variables still take precedence.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load resolves every setting from v.
func Load(v *viper.Viper) *Config {
	get := func(key string) string { return strings.TrimSpace(v.GetString(key)) }

	saFile := get(KeyServiceAccountFile)
	if saFile == "" {
		saFile = get(KeyApplicationCreds)
	}
	if saFile == "" {
		saFile = defaultServiceAccountFile
	}

	return &Config{
		DataBackend: strings.ToLower(get(KeyDataBackend)),

		GoogleSpreadsheetID:      get(KeySpreadsheetID),
		BudgetSheetName:          get(KeyBudgetSheetName),
		TransactionsSheetName:    get(KeyTransactionsSheetName),
		GoogleServiceAccountJSON: get(KeyServiceAccountJSON),
		GoogleServiceAccountFile: saFile,
		GoogleOAuthClientFile:    get(KeyOAuthClientFile),
		GoogleOAuthTokenFile:     get(KeyOAuthTokenFile),
		GoogleOAuthClientJSON:    get(KeyOAuthClientJSON),
		GoogleOAuthTokenJSON:     get(KeyOAuthTokenJSON),

		SQLiteDBPath: get(KeySQLiteDBPath),

		AMQPURL:      get(KeyAMQPURL),
		AMQPExchange: get(KeyAMQPExchange),
		AMQPQueue:    get(KeyAMQPQueue),

		LogLevel: get(KeyLogLevel),
	}
}

// Validate validates the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains(validBackends, c.DataBackend) {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DataBackend == "sheets" {
		errs = append(errs, c.validateSheets()...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (c *Config) validateSheets() []string {
	var errs []string
	if c.GoogleSpreadsheetID == "" {
		errs = append(errs, "Google Spreadsheet ID is required when using sheets backend")
	}
	if c.BudgetSheetName == "" || c.TransactionsSheetName == "" {
		errs = append(errs, "budget and transactions sheet names cannot be empty")
	}

	if c.HasServiceAccount() {
		return errs
	}

	hasClient := c.GoogleOAuthClientJSON != "" || c.GoogleOAuthClientFile != ""
	hasToken := c.GoogleOAuthTokenJSON != "" || c.GoogleOAuthTokenFile != ""
	if !hasClient {
		errs = append(errs, fmt.Sprintf("no service account found at '%s'; either GOOGLE_OAUTH_CLIENT_FILE or GOOGLE_OAUTH_CLIENT_JSON must be provided for sheets backend", c.GoogleServiceAccountFile))
	}
	if !hasToken {
		errs = append(errs, "either GOOGLE_OAUTH_TOKEN_FILE or GOOGLE_OAUTH_TOKEN_JSON must be provided for sheets backend")
	}
	if c.GoogleOAuthClientJSON == "" && c.GoogleOAuthClientFile != "" && !fileExists(c.GoogleOAuthClientFile) {
		errs = append(errs, fmt.Sprintf("Google OAuth client file does not exist: %s", c.GoogleOAuthClientFile))
	}
	if c.GoogleOAuthTokenJSON == "" && c.GoogleOAuthTokenFile != "" && !fileExists(c.GoogleOAuthTokenFile) {
		errs = append(errs, fmt.Sprintf("Google OAuth token file does not exist: %s", c.GoogleOAuthTokenFile))
	}
	return errs
}

// HasServiceAccount reports whether service account credentials are usable.
func (c *Config) HasServiceAccount() bool {
	return c.GoogleServiceAccountJSON != "" || fileExists(c.GoogleServiceAccountFile)
}

// AMQPEnabled reports whether change events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist) && err == nil
}
