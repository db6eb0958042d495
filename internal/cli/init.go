// Package cli holds the interactive menu, the prompting helpers and the
// initialization shared by cmd/smartbudget and cmd/smartbudget-worker.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"smartbudget/internal/config"
	"smartbudget/internal/log"
	"smartbudget/internal/storage"
)

// ErrShutdownSignal is returned by WaitForSignal when SIGINT or SIGTERM
// arrives.
var ErrShutdownSignal = errors.New("shutdown signal received")

// SetupLogger builds the process logger at level and makes it the default.
// An unknown level falls back to warn.
func SetupLogger(level string, out io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	if out != nil {
		cfg.Output = out
	}
	lvl, err := log.ParseLevel(level)
	if err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using warn", "level", level)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig resolves the configuration from the environment and the
// optional YAML file at path, then validates it.
func LoadConfig(path string) (*config.Config, error) {
	v := config.NewViper()
	if err := config.ReadFile(v, path); err != nil {
		return nil, err
	}
	cfg := config.Load(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitSQLite opens the SQLite database at dbPath, applying migrations.
func InitSQLite(logger *log.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", dbPath)
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	return repo, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// WaitForSignal blocks until a shutdown signal arrives, returning
// ErrShutdownSignal, or until ctx is done, returning nil.
func WaitForSignal(ctx context.Context, logger *log.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		return ErrShutdownSignal
	case <-ctx.Done():
		return nil
	}
}

// Shutdown runs cleanup and waits for it at most timeout.
func Shutdown(logger *log.Logger, timeout time.Duration, cleanup func()) {
	done := make(chan struct{})
	go func() {
		if cleanup != nil {
			cleanup()
		}
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Shutdown complete")
	case <-time.After(timeout):
		logger.Warn("Shutdown timeout reached")
	}
}
