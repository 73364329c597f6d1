package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/supplymate/app"
	"github.com/kilianp07/supplymate/config"
	"github.com/kilianp07/supplymate/infra/logger"
	"github.com/kilianp07/supplymate/qa/scenarios"
)

var (
	cfgPath       string
	serveScenario string
)

var rootCmd = &cobra.Command{
	Use:          "supplymate",
	Short:        "Relief supply allocation engine",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the allocation HTTP API and metrics",
	RunE:  serve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	serveCmd.Flags().StringVarP(&serveScenario, "scenario", "s", "", "seed the roster and inventory from a scenario file")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return cfg, nil
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var opts []app.Option
	if serveScenario != "" {
		sc, err := scenarios.Load(serveScenario)
		if err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}
		opts = append(opts, app.WithScenario(sc))
	}
	svc, err := app.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
