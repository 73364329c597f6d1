package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apialloc "github.com/kilianp07/supplymate/api/allocation"
	"github.com/kilianp07/supplymate/api/inventory"
	"github.com/kilianp07/supplymate/api/recipients"
	"github.com/kilianp07/supplymate/config"
	"github.com/kilianp07/supplymate/core/allocation"
	"github.com/kilianp07/supplymate/core/allocation/logging"
	"github.com/kilianp07/supplymate/core/events"
	coremetrics "github.com/kilianp07/supplymate/core/metrics"
	coremon "github.com/kilianp07/supplymate/core/monitoring"
	"github.com/kilianp07/supplymate/core/status"
	"github.com/kilianp07/supplymate/infra/logger"
	"github.com/kilianp07/supplymate/infra/metrics"
	"github.com/kilianp07/supplymate/infra/monitoring"
	"github.com/kilianp07/supplymate/internal/eventbus"
	"github.com/kilianp07/supplymate/qa/scenarios"
)

// Service wires the allocation manager to its stores, metrics and HTTP API.
type Service struct {
	Manager  *allocation.Manager
	Statuses *status.MemoryStore
	logs     logging.LogStore
	sink     coremetrics.MetricsSink
	bus      eventbus.EventBus[events.Event]
	log      logger.Logger
	apiAddr  string
	apiToken string
	promAddr string
}

// Option customizes New.
type Option func(*options)

type options struct {
	scenario *scenarios.Scenario
}

// WithScenario seeds the roster and inventory from sc.
func WithScenario(sc *scenarios.Scenario) Option {
	return func(o *options) { o.scenario = sc }
}

// New creates a Service from the configuration. Without a scenario the
// roster starts empty and the inventory holds the default relief kit.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	sc := o.scenario
	if sc == nil {
		sc = &scenarios.Scenario{Name: "empty"}
	}
	bus := eventbus.New[events.Event]()
	manager, err := scenarios.NewManager(sc, cfg.Allocation, sink, bus, logger.New("allocation"))
	if err != nil {
		return nil, fmt.Errorf("allocation manager: %w", err)
	}

	store, err := logging.NewStore(cfg.Logging)
	if err != nil {
		_ = manager.Close()
		return nil, err
	}
	if store != nil {
		manager.SetLogStore(store)
	}
	statuses := status.NewMemoryStore()
	manager.SetStatusStore(statuses)

	return &Service{
		Manager:  manager,
		Statuses: statuses,
		logs:     store,
		sink:     sink,
		bus:      bus,
		log:      logg,
		apiAddr:  cfg.API.Address,
		apiToken: cfg.API.Token,
		promAddr: cfg.Metrics.PrometheusPort,
	}, nil
}

// Handler returns the HTTP API routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/inventory", inventory.NewHandler(s.Manager))
	mux.Handle("/api/recipients", recipients.NewRosterHandler(s.Manager))
	mux.Handle("/api/recipients/status", recipients.NewStatusHandler(s.Statuses))
	mux.Handle("/api/allocation/run", apialloc.NewRunHandler(s.Manager, s.apiToken))
	if s.logs != nil {
		mux.Handle("/api/allocation/logs", apialloc.NewLogHandler(s.logs, s.apiToken))
	}
	return mux
}

// Run starts the event collector, the metrics endpoint and the HTTP API and
// blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	collected := metrics.StartEventCollector(ctx, s.bus, s.sink, s.log)
	if s.promAddr != "" {
		go func() {
			defer coremon.Recover()
			if err := metrics.StartPromServer(ctx, s.promAddr, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
				coremon.CaptureException(err, map[string]string{"component": "prometheus"})
			}
		}()
	}

	srv := &http.Server{Addr: s.apiAddr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() {
		s.log.Infof("serving allocation API on %s", s.apiAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errc:
		if ok {
			runErr = fmt.Errorf("api server: %w", err)
			coremon.CaptureException(runErr, map[string]string{"component": "api"})
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("api server shutdown: %v", err)
	}
	if runErr == nil {
		<-collected
	}
	return runErr
}

// Close releases resources held by the service and flushes pending error
// reports.
func (s *Service) Close() error {
	defer coremon.Flush(2 * time.Second)
	err := s.Manager.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return err
}
