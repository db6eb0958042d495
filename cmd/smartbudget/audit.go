package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"smartbudget/internal/cli"
	"smartbudget/internal/log"
	"smartbudget/internal/storage"
)

func auditCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List change events recorded by smartbudget-worker",
		Long: `List the change events the worker recorded in the SQLite audit log,
newest first. Events are only recorded when AMQP_URL is set for both the
tracker and the worker.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := cli.InitSQLite(log.FromContext(cmd.Context()), appConfig.SQLiteDBPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			events, err := repo.ListEvents(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of events to show (0 for all)")
	return cmd
}

func printEvents(w io.Writer, events []storage.AuditEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No change events recorded."))
		return
	}
	fmt.Fprintln(w, cli.BoldStyle.Render(fmt.Sprintf("%-20s  %-12s  %-8s  %s", "Occurred", "Collection", "Action", "Record")))
	for _, e := range events {
		fmt.Fprintf(w, "%-20s  %-12s  %-8s  %s\n",
			e.OccurredAt.Local().Format(time.DateTime), e.Collection, e.Action, e.Summary)
	}
}
