package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smartbudget/internal/cli"
	"smartbudget/internal/config"
	"smartbudget/internal/log"
)

var (
	cfgFile  string
	logLevel string
	version  = "dev"

	appConfig *config.Config

	rootCmd = &cobra.Command{
		Use:   "smartbudget",
		Short: "Menu-driven personal budget and transaction tracker",
		Long: `smartbudget records income and expenses, keeps a spending limit per
category and reports how much of each budget is left.

Run without a command for the interactive menu.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
		RunE:              runMenu,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (environment variables take precedence)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := cli.SignalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	appConfig = cfg
	logger := cli.SetupLogger(level, os.Stderr)
	logger.Debug("Configuration loaded", log.FieldBackend, cfg.DataBackend)
	cmd.SetContext(log.NewContext(cmd.Context(), logger))
	return nil
}
