package backend

import (
	"fmt"

	"smartbudget/internal/config"
	"smartbudget/internal/sheets"
	gsheet "smartbudget/internal/sheets/google"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		BudgetSheetName:          appConfig.BudgetSheetName,
		TransactionsSheetName:    appConfig.TransactionsSheetName,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		GoogleOAuthClientFile:    appConfig.GoogleOAuthClientFile,
		GoogleOAuthTokenFile:     appConfig.GoogleOAuthTokenFile,
		GoogleOAuthClientJSON:    appConfig.GoogleOAuthClientJSON,
		GoogleOAuthTokenJSON:     appConfig.GoogleOAuthTokenJSON,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
	case MemoryBackend:
		// nothing to check
	}
	return nil
}

// SheetsConfig builds the Google client configuration.
func (c Config) SheetsConfig() gsheet.Config {
	return gsheet.Config{
		SpreadsheetID: c.GoogleSpreadsheetID,
		SheetNames: map[string]string{
			sheets.Budget:       c.BudgetSheetName,
			sheets.Transactions: c.TransactionsSheetName,
		},
		Credentials: gsheet.Credentials{
			ServiceAccountJSON: c.GoogleServiceAccountJSON,
			ServiceAccountFile: existingFile(c.GoogleServiceAccountFile),
			OAuthClientJSON:    c.GoogleOAuthClientJSON,
			OAuthClientFile:    c.GoogleOAuthClientFile,
			OAuthTokenJSON:     c.GoogleOAuthTokenJSON,
			OAuthTokenFile:     c.GoogleOAuthTokenFile,
		},
	}
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SheetsBackend, SQLiteBackend, MemoryBackend}
}
