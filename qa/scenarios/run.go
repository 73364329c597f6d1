package scenarios

import (
	"context"
	"fmt"

	"github.com/kilianp07/supplymate/core/allocation"
	"github.com/kilianp07/supplymate/core/events"
	"github.com/kilianp07/supplymate/core/logger"
	coremetrics "github.com/kilianp07/supplymate/core/metrics"
	"github.com/kilianp07/supplymate/core/model"
	"github.com/kilianp07/supplymate/internal/eventbus"
)

// Outcome is what a scenario run produced.
type Outcome struct {
	Result     allocation.Result
	Recipients []*model.Recipient
	Initial    map[string]int
	After      model.Snapshot
}

// NewManager builds a manager holding the scenario roster and inventory.
// Capacities set by the scenario override base.
func NewManager(sc *Scenario, base allocation.Config, sink coremetrics.MetricsSink, bus eventbus.EventBus[events.Event], log logger.Logger) (*allocation.Manager, error) {
	roster, err := sc.Roster()
	if err != nil {
		return nil, err
	}
	cfg := sc.Apply(base)
	mgr, err := allocation.NewManager(allocation.NewEngine(cfg, log), sc.InventoryWithCapacity(cfg.InventoryCapacity), sink, bus, log)
	if err != nil {
		return nil, err
	}
	if err := mgr.SetRecipients(roster); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	return mgr, nil
}

// Execute allocates the scenario once, followed by a rebalance when
// rebalance is set.
func Execute(ctx context.Context, mgr *allocation.Manager, rebalance bool) (Outcome, error) {
	out := Outcome{Recipients: mgr.Recipients(), Initial: quantities(mgr.InventorySnapshot())}
	res, err := mgr.Run(ctx)
	if err != nil {
		return out, err
	}
	if rebalance {
		if res, err = mgr.Rebalance(ctx); err != nil {
			return out, err
		}
	}
	out.Result = res
	out.After = mgr.InventorySnapshot()
	return out, nil
}

func quantities(s model.Snapshot) map[string]int {
	out := make(map[string]int, len(s.Supplies))
	for _, sup := range s.Supplies {
		out[sup.Name] = sup.Quantity
	}
	return out
}

// Check compares the outcome with the scenario expectations.
func (sc *Scenario) Check(out Outcome) []error {
	var errs []error
	if sc.Expected.Served != nil && out.Result.Served() != *sc.Expected.Served {
		errs = append(errs, fmt.Errorf("expected %d served, got %d", *sc.Expected.Served, out.Result.Served()))
	}
	byID := make(map[string]*model.Record, len(out.Result.Records))
	for _, r := range out.Result.Records {
		byID[r.RecipientID] = r
	}
	for id, want := range sc.Expected.Allocated {
		rec, ok := byID[id]
		if !ok {
			errs = append(errs, fmt.Errorf("recipient %s missing from the result", id))
			continue
		}
		for supply, qty := range want {
			if got := rec.Quantity(supply); got != qty {
				errs = append(errs, fmt.Errorf("recipient %s: expected %d %s, got %d", id, qty, supply, got))
			}
		}
	}
	remaining := quantities(out.After)
	for supply, qty := range sc.Expected.Remaining {
		if got := remaining[supply]; got != qty {
			errs = append(errs, fmt.Errorf("expected %d %s remaining, got %d", qty, supply, got))
		}
	}
	return errs
}
