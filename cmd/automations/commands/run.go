package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/schoolpass-automations/automations/pkg/queue"
	"github.com/schoolpass-automations/automations/pkg/runlog"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the Bus Manifest Report once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := newApp(ctx, log, true)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.report.Run(ctx, queue.TriggerCLI)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Status == runlog.StatusSkipped {
				fmt.Fprintln(out, "No buses found, nothing sent.")
				return nil
			}
			fmt.Fprintf(out, "Sent report for %s: %d buses, %d students.\n",
				res.Report.Date, len(res.Report.Buses), res.Report.StudentTotal)
			return nil
		},
	}
}
