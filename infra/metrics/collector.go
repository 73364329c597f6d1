package metrics

import (
	"context"
	"sort"

	"github.com/kilianp07/supplymate/core/events"
	"github.com/kilianp07/supplymate/core/logger"
	coremetrics "github.com/kilianp07/supplymate/core/metrics"
	"github.com/kilianp07/supplymate/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards run events to
// the recorders implemented by sink. It stops when the context is canceled or
// the bus is closed. The returned channel is closed once the collector exits.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus[events.Event], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log = logger.OrNop(log)
	runs, _ := sink.(coremetrics.RunRecorder)
	levels, _ := sink.(coremetrics.InventoryRecorder)
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				e, ok := ev.(events.RunEvent)
				if !ok {
					continue
				}
				if runs != nil {
					if err := runs.RecordRun(summary(e)); err != nil {
						log.Errorf("record run %s: %v", e.RunID, err)
					}
				}
				if levels != nil {
					if err := levels.RecordInventoryLevels(inventoryLevels(e)); err != nil {
						log.Errorf("record inventory levels %s: %v", e.RunID, err)
					}
				}
			}
		}
	}()
	return done
}

func summary(e events.RunEvent) coremetrics.RunSummary {
	return coremetrics.RunSummary{
		RunID:       e.RunID,
		Kind:        e.Kind,
		Recipients:  e.Recipients,
		Served:      e.Served,
		TotalWeight: e.Weight,
		Duration:    e.Duration,
		Time:        e.Time,
	}
}

func inventoryLevels(e events.RunEvent) []coremetrics.InventoryLevel {
	names := make([]string, 0, len(e.Remaining))
	for name := range e.Remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]coremetrics.InventoryLevel, len(names))
	for i, name := range names {
		out[i] = coremetrics.InventoryLevel{RunID: e.RunID, Supply: name, Quantity: e.Remaining[name], Time: e.Time}
	}
	return out
}
