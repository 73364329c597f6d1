package allocation

import (
	"math"
	"sort"

	"github.com/kilianp07/supplymate/core/logger"
	"github.com/kilianp07/supplymate/core/model"
)

// Pass names the phase of the distribution that planned a step.
type Pass string

const (
	PassUrgent  Pass = "urgent"
	PassGeneral Pass = "general"
)

// Step is one planning decision taken for a recipient.
type Step struct {
	Pass     Pass           `json:"pass"`
	Supply   string         `json:"supply"`
	Category model.Category `json:"category"`
	Target   int            `json:"target"`
	Units    int            `json:"units"`
	// Remaining is the weight budget left after the step.
	Remaining int `json:"remaining"`
}

// Plan explains how a recipient's record was built.
type Plan struct {
	RecipientID string  `json:"recipient_id"`
	Capacity    int     `json:"capacity"`
	Priority    float64 `json:"priority"`
	Steps       []Step  `json:"steps"`
}

// Engine distributes inventory over ranked recipients. It keeps the records
// of its last run so that Rebalance can hand them back. Engine is not safe
// for concurrent use; Manager serializes access.
type Engine struct {
	cfg   Config
	log   logger.Logger
	last  []*model.Record
	plans []Plan
}

// NewEngine returns an engine using cfg. Unset thresholds take their defaults.
func NewEngine(cfg Config, log logger.Logger) *Engine {
	cfg.SetDefaults()
	return &Engine{cfg: cfg, log: logger.OrNop(log)}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Capacity returns the weight budget of a recipient. It never drops below
// MinCapacity nor below DefaultMinCapacity, whatever the configuration.
func (e *Engine) Capacity(r *model.Recipient) int {
	c := float64(e.cfg.BaseCapacity) + float64(r.Size()*2) + r.PriorityScore()/10*5
	return max(DefaultMinCapacity, e.cfg.MinCapacity, int(math.Floor(c)))
}

// Allocate ranks the active recipients and serves them in order, consuming inv
// in place. It returns one record per active recipient, including empty ones:
// a depleted inventory yields empty records rather than an empty slice.
func (e *Engine) Allocate(recipients []*model.Recipient, inv *model.Inventory) []*model.Record {
	ranked := Rank(recipients)
	records := make([]*model.Record, 0, len(ranked))
	plans := make([]Plan, 0, len(ranked))
	for _, r := range ranked {
		rec, plan := e.allocateTo(r, inv)
		records = append(records, rec)
		plans = append(plans, plan)
	}
	e.last = cloneRecords(records)
	e.plans = plans
	return records
}

// Restore puts every quantity of the last run back into inv and forgets the
// run. It returns the restored quantity per supply.
func (e *Engine) Restore(inv *model.Inventory) map[string]int {
	restored := make(map[string]int)
	for _, rec := range e.last {
		for _, l := range rec.Lines {
			if inv.Restore(l.Supply, l.Quantity) {
				restored[l.Supply] += l.Quantity
			} else {
				e.log.Warnf("cannot restore %d %s for %s: supply no longer held", l.Quantity, l.Supply, rec.RecipientID)
			}
		}
	}
	e.last = nil
	e.plans = nil
	return restored
}

// Rebalance restores the last run into inv and allocates again from scratch.
func (e *Engine) Rebalance(recipients []*model.Recipient, inv *model.Inventory) []*model.Record {
	restored := e.Restore(inv)
	e.log.Debugw("rebalance restored inventory", map[string]any{"supplies": len(restored)})
	return e.Allocate(recipients, inv)
}

// Simulate runs an allocation against a deep copy of inv. Neither inv nor the
// engine's last run are modified. The copy is returned in its depleted state
// along with the plans of the simulated run.
func (e *Engine) Simulate(recipients []*model.Recipient, inv *model.Inventory) ([]*model.Record, *model.Inventory, []Plan) {
	sim := &Engine{cfg: e.cfg, log: e.log}
	cp := inv.Clone()
	records := sim.Allocate(recipients, cp)
	return records, cp, sim.LastPlans()
}

// LastRecords returns copies of the records produced by the last run.
func (e *Engine) LastRecords() []*model.Record { return cloneRecords(e.last) }

// LastPlans returns the plans of the last run in rank order.
func (e *Engine) LastPlans() []Plan {
	out := make([]Plan, len(e.plans))
	for i, p := range e.plans {
		p.Steps = append([]Step(nil), p.Steps...)
		out[i] = p
	}
	return out
}

// Reset forgets the last run without touching any inventory.
func (e *Engine) Reset() {
	e.last = nil
	e.plans = nil
}

func (e *Engine) allocateTo(r *model.Recipient, inv *model.Inventory) (*model.Record, Plan) {
	capacity := e.Capacity(r)
	rec := model.NewRecord(r.ID())
	plan := Plan{RecipientID: r.ID(), Capacity: capacity, Priority: r.PriorityScore()}

	available := inv.AvailableSupplies()
	if len(available) == 0 {
		e.log.Debugw("no supplies left", map[string]any{"recipient": r.ID()})
		return rec, plan
	}
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].ValueWeightRatio() > available[j].ValueWeightRatio()
	})

	remaining := capacity
	planned := make(map[string]int, len(available))
	var order []string
	take := func(s model.Supply, pass Pass, target, units int) {
		if _, ok := planned[s.Name]; !ok {
			order = append(order, s.Name)
		}
		planned[s.Name] += units
		remaining -= units * s.UnitWeight
		plan.Steps = append(plan.Steps, Step{
			Pass:      pass,
			Supply:    s.Name,
			Category:  s.Category,
			Target:    target,
			Units:     units,
			Remaining: remaining,
		})
	}

	if r.Urgency() >= e.cfg.UrgencyThreshold {
		for _, cat := range urgentCategories {
			s, ok := firstOfCategory(available, cat)
			if !ok {
				continue
			}
			units := min(s.Quantity-planned[s.Name], remaining/max(1, s.UnitWeight), e.cfg.UrgentCap)
			if units > 0 {
				take(s, PassUrgent, e.cfg.UrgentCap, units)
			}
		}
	}

	for _, s := range available {
		if remaining <= 0 {
			break
		}
		maxUnits := min(s.Quantity-planned[s.Name], remaining/max(1, s.UnitWeight))
		target := e.cfg.TargetUnits(s.Category, r)
		if units := min(target, maxUnits); units > 0 {
			take(s, PassGeneral, target, units)
		}
	}

	for _, name := range order {
		s, _ := inv.Supply(name)
		qty := planned[name]
		if !inv.RemoveSupply(name, qty) {
			e.log.Warnf("skipping %d %s for %s: insufficient stock", qty, name, r.ID())
			continue
		}
		rec.Add(name, qty, s.UnitValue, s.UnitWeight)
	}
	rec.ComputeScore(r.PriorityScore())

	e.log.Debugw("recipient allocated", map[string]any{
		"recipient": r.ID(),
		"capacity":  capacity,
		"weight":    rec.TotalWeight,
		"value":     rec.TotalValue,
		"score":     rec.Score,
	})
	return rec, plan
}

func firstOfCategory(supplies []model.Supply, cat model.Category) (model.Supply, bool) {
	for _, s := range supplies {
		if s.Category == cat {
			return s, true
		}
	}
	return model.Supply{}, false
}

func cloneRecords(in []*model.Record) []*model.Record {
	out := make([]*model.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
