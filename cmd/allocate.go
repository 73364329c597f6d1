package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/supplymate/config"
	"github.com/kilianp07/supplymate/core/allocation/logging"
	"github.com/kilianp07/supplymate/core/events"
	coremetrics "github.com/kilianp07/supplymate/core/metrics"
	"github.com/kilianp07/supplymate/core/model"
	"github.com/kilianp07/supplymate/infra/logger"
	"github.com/kilianp07/supplymate/internal/eventbus"
	"github.com/kilianp07/supplymate/pkg/export"
	"github.com/kilianp07/supplymate/pkg/report"
	"github.com/kilianp07/supplymate/qa/scenarios"
)

type allocateOptions struct {
	scenario  string
	export    string
	out       string
	rebalance bool
	quiet     bool
}

var allocateOpts allocateOptions

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Allocate a scenario's inventory over its recipients",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runAllocate(cmd.Context(), cfg, allocateOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := allocateCmd.Flags()
	f.StringVarP(&allocateOpts.scenario, "scenario", "s", "", "scenario file (yaml)")
	f.StringVar(&allocateOpts.export, "export", "", "export records as csv or json")
	f.StringVarP(&allocateOpts.out, "out", "o", "", "export destination, stdout when empty")
	f.BoolVar(&allocateOpts.rebalance, "rebalance", false, "rebalance once after the first allocation")
	f.BoolVarP(&allocateOpts.quiet, "quiet", "q", false, "skip the text report")
	_ = allocateCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(ctx context.Context, cfg *config.Config, opts allocateOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	write, err := exporter(opts.export)
	if err != nil {
		return err
	}
	log := logger.New("allocate")

	sc, err := scenarios.Load(opts.scenario)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	mgr, err := scenarios.NewManager(sc, cfg.Allocation, sink, eventbus.New[events.Event](), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Errorf("manager close: %v", err)
		}
	}()
	store, err := logging.NewStore(cfg.Logging)
	if err != nil {
		return err
	}
	if store != nil {
		mgr.SetLogStore(store)
	}

	out, err := scenarios.Execute(ctx, mgr, opts.rebalance)
	if err != nil {
		return err
	}

	if write != nil {
		if err := writeExport(write, opts.out, stdout, out.Result.Records); err != nil {
			return err
		}
		if opts.out == "" {
			return nil
		}
	}
	if opts.quiet {
		return nil
	}
	sum := report.Build(out.Recipients, out.Result.Records, out.After, out.Initial)
	if err := sum.Render(stdout); err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, sum.Quick())
	return err
}

type exportFunc func(io.Writer, []*model.Record) error

func exporter(format string) (exportFunc, error) {
	switch format {
	case "":
		return nil, nil
	case "csv":
		return export.WriteCSV, nil
	case "json":
		return export.WriteJSON, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

func writeExport(write exportFunc, path string, stdout io.Writer, records []*model.Record) error {
	if path == "" {
		return write(stdout, records)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := write(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
