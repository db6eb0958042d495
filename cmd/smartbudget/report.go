package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartbudget/internal/cli"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the income, expense and budget report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := openManagers(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			r, err := m.reports.Generate(cmd.Context())
			if err != nil {
				return fmt.Errorf("generate report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderReport(r))
			return nil
		},
	}
}
