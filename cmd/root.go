package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pkozlov/blackoutcal/app"
	"github.com/pkozlov/blackoutcal/config"
	coremetrics "github.com/pkozlov/blackoutcal/core/metrics"
	"github.com/pkozlov/blackoutcal/infra/history"
	"github.com/pkozlov/blackoutcal/infra/logger"
	"github.com/pkozlov/blackoutcal/infra/source"
	"github.com/pkozlov/blackoutcal/pkg/render"
)

var (
	cfgPath string
	plain   bool
)

var rootCmd = &cobra.Command{
	Use:   "blackoutcal",
	Short: "Electricity outage schedule tracker",
	Long: "Fetches the published outage schedule, computes per-group blackout\n" +
		"intervals, tracks changes between runs and mirrors them into calendars.",
	RunE: runShow,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "disable colors and use ASCII-safe output")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// buildService loads the configuration and wires the pipeline. The returned
// close func releases the history store.
func buildService(component string) (*app.Service, *config.Config, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(component)

	hist, err := history.NewSQLiteStore(filepath.Join(cfg.OutputDir, "history.db"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open history store: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = hist.Close()
		return nil, nil, nil, fmt.Errorf("metrics sinks: %w", err)
	}

	fetcher := source.NewFetcher(cfg.Source, log)
	svc := app.New(cfg, fetcher, hist, sink, log)
	closeFn := func() {
		if err := hist.Close(); err != nil {
			log.Errorf("close history store: %v", err)
		}
	}
	return svc, cfg, closeFn, nil
}

func printer() *render.Printer { return render.NewPrinter(!plain) }

func runShow(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, _, closeFn, err := buildService("show")
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := svc.Produce(ctx)
	if err != nil {
		return err
	}
	p := printer()
	svc.Render(result, p)
	return svc.PrintStats(p)
}
