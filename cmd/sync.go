package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkozlov/blackoutcal/core/reconcile"
	"github.com/pkozlov/blackoutcal/infra/gcal"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the schedule and reconcile the remote calendars",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, cfg, closeFn, err := buildService("sync")
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := svc.Produce(ctx)
	if err != nil {
		return err
	}
	svc.Render(result, printer())

	remote, err := gcal.New(ctx, cfg.Google, cfg.Timezone)
	if err != nil {
		return fmt.Errorf("calendar client: %w", err)
	}
	results := svc.Sync(ctx, result, remote)
	reportSync(cmd, results)
	return nil
}

func reportSync(cmd *cobra.Command, results []reconcile.Result) {
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "calendars already up to date")
		return
	}
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: already synced\n", r.DateKey, r.GroupID)
		case r.Err != nil:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: FAILED: %v\n", r.DateKey, r.GroupID, r.Err)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: -%d +%d events", r.DateKey, r.GroupID, r.Deleted, r.Inserted)
			if r.Failed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d failed)", r.Failed)
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
}
