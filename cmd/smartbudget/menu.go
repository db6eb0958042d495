package main

import (
	"os"

	"github.com/spf13/cobra"

	"smartbudget/internal/cli"
)

func runMenu(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	m, err := openManagers(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	p := cli.NewPrompter(os.Stdin, cmd.OutOrStdout())
	return cli.NewApp(p, m.budgets, m.transactions, m.reports, m.logger).Run(ctx)
}
