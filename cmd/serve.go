package cmd

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/pkozlov/blackoutcal/core/calendar"
	"github.com/pkozlov/blackoutcal/infra/gcal"
	infralogger "github.com/pkozlov/blackoutcal/infra/logger"
	inframetrics "github.com/pkozlov/blackoutcal/infra/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run periodically, reconciling calendars on a cron schedule",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, cfg, closeFn, err := buildService("serve")
	if err != nil {
		return err
	}
	defer closeFn()
	log := infralogger.New("serve")

	var remote calendar.Store
	if len(cfg.Calendars) > 0 {
		remote, err = gcal.New(ctx, cfg.Google, cfg.Timezone)
		if err != nil {
			return fmt.Errorf("calendar client: %w", err)
		}
	}

	if addr := cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := inframetrics.StartPromServer(ctx, addr); err != nil {
				log.Errorf("metrics server: %v", err)
			}
		}()
	}

	runOnce := func() {
		result, err := svc.Produce(ctx)
		if err != nil {
			log.Errorf("run failed: %v", err)
			return
		}
		if remote == nil {
			return
		}
		for _, r := range svc.Sync(ctx, result, remote) {
			if r.Err != nil {
				log.Errorf("sync %s group %s: %v", r.DateKey, r.GroupID, r.Err)
			}
		}
	}

	// Overlapping runs are skipped, not queued: a slow page fetch must not
	// pile up browser sessions.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cfg.Serve.Cron, runOnce); err != nil {
		return fmt.Errorf("cron schedule %q: %w", cfg.Serve.Cron, err)
	}

	log.Infof("starting with schedule %q", cfg.Serve.Cron)
	runOnce()
	c.Start()

	<-ctx.Done()
	log.Infof("shutting down")
	<-c.Stop().Done()
	return nil
}
