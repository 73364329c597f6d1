package allocation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/supplymate/core/allocation/logging"
	"github.com/kilianp07/supplymate/core/events"
	"github.com/kilianp07/supplymate/core/logger"
	"github.com/kilianp07/supplymate/core/metrics"
	"github.com/kilianp07/supplymate/core/model"
	"github.com/kilianp07/supplymate/core/monitoring"
	"github.com/kilianp07/supplymate/core/status"
	"github.com/kilianp07/supplymate/internal/eventbus"
)

// KindSimulate labels what-if runs. They are never persisted.
const KindSimulate = "simulate"

// historyLimit bounds the number of results kept in memory.
const historyLimit = 256

var (
	ErrDuplicateRecipient = errors.New("duplicate recipient")
	ErrUnknownRecipient   = errors.New("unknown recipient")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// Result describes one run of the manager.
type Result struct {
	RunID      string             `json:"run_id"`
	Kind       string             `json:"kind"`
	Timestamp  time.Time          `json:"timestamp"`
	Ranked     []string           `json:"ranked"`
	Capacities map[string]int     `json:"capacities"`
	Priorities map[string]float64 `json:"priorities"`
	Records    []*model.Record    `json:"records"`
	Plans      []Plan             `json:"plans,omitempty"`
	Restored   map[string]int     `json:"restored,omitempty"`
	Remaining  map[string]int     `json:"remaining"`
	Duration   time.Duration      `json:"duration"`
}

// Served returns the number of recipients that received something.
func (r Result) Served() int {
	n := 0
	for _, rec := range r.Records {
		if rec.HasAllocations() {
			n++
		}
	}
	return n
}

// TotalWeight sums the weight handed out during the run.
func (r Result) TotalWeight() int {
	total := 0
	for _, rec := range r.Records {
		total += rec.TotalWeight
	}
	return total
}

// Manager owns an inventory and a recipient roster and serializes the runs
// made against them. Results are fanned out to the bus, the metrics sink, the
// run log and the status store when those are configured.
type Manager struct {
	engine      *Engine
	inv         *model.Inventory
	recipients  []*model.Recipient
	logger      logger.Logger
	metrics     metrics.MetricsSink
	bus         eventbus.EventBus[events.Event]
	store       logging.LogStore
	statusStore status.Store
	history     []Result
	mu          sync.Mutex
}

// NewManager creates a manager around engine and inv. sink, bus and log may be nil.
func NewManager(engine *Engine, inv *model.Inventory, sink metrics.MetricsSink, bus eventbus.EventBus[events.Event], log logger.Logger) (*Manager, error) {
	if engine == nil || inv == nil {
		return nil, fmt.Errorf("allocation: nil parameter provided to NewManager")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{
		engine:  engine,
		inv:     inv,
		logger:  logger.OrNop(log),
		metrics: sink,
		bus:     bus,
	}, nil
}

// SetLogStore configures the store used to persist run logs.
func (m *Manager) SetLogStore(store logging.LogStore) {
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()
}

// SetStatusStore configures the store used to persist recipient status.
func (m *Manager) SetStatusStore(store status.Store) {
	m.mu.Lock()
	m.statusStore = store
	for _, r := range m.recipients {
		m.setStatus(r)
	}
	m.mu.Unlock()
}

// SetRecipients replaces the roster. Recipients are copied, validated and
// must have unique ids.
func (m *Manager) SetRecipients(rs []*model.Recipient) error {
	roster := make([]*model.Recipient, 0, len(rs))
	seen := make(map[string]struct{}, len(rs))
	for _, r := range rs {
		if r == nil {
			continue
		}
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.ID()]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateRecipient, r.ID())
		}
		seen[r.ID()] = struct{}{}
		roster = append(roster, r.Clone())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusStore != nil {
		for _, old := range m.recipients {
			m.statusStore.Delete(old.ID())
		}
	}
	m.recipients = roster
	for _, r := range roster {
		m.setStatus(r)
	}
	return nil
}

// AddRecipient appends a copy of r to the roster.
func (m *Manager) AddRecipient(r *model.Recipient) error {
	if r == nil {
		return model.ErrInvalidRecipient
	}
	if err := r.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(r.ID()) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateRecipient, r.ID())
	}
	cp := r.Clone()
	m.recipients = append(m.recipients, cp)
	m.setStatus(cp)
	return nil
}

// RemoveRecipient drops a recipient from the roster.
func (m *Manager) RemoveRecipient(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRecipient, id)
	}
	m.recipients = append(m.recipients[:i], m.recipients[i+1:]...)
	if m.statusStore != nil {
		m.statusStore.Delete(id)
	}
	return nil
}

// SetRecipientActive includes or excludes a recipient from future runs.
func (m *Manager) SetRecipientActive(id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRecipient, id)
	}
	m.recipients[i].SetActive(active)
	m.setStatus(m.recipients[i])
	return nil
}

// Recipients returns copies of the roster in insertion order.
func (m *Manager) Recipients() []*model.Recipient {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Recipient, len(m.recipients))
	for i, r := range m.recipients {
		out[i] = r.Clone()
	}
	return out
}

// InventorySnapshot returns a read-only view of the managed inventory.
func (m *Manager) InventorySnapshot() model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inv.Snapshot()
}

// ResetInventory reseeds the default supplies and forgets the last run, so a
// later Rebalance has nothing to restore.
func (m *Manager) ResetInventory() {
	m.mu.Lock()
	m.inv.Reset()
	m.engine.Reset()
	m.mu.Unlock()
}

// AddSupply adds s to the inventory, merging into an existing supply of the
// same name.
func (m *Manager) AddSupply(s *model.Supply) error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("supply name is required")
	}
	if s.UnitWeight < 0 || s.UnitValue < 0 || s.Quantity < 0 {
		return fmt.Errorf("supply %s: weight, value and quantity must not be negative", s.Name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inv.AddSupply(s)
	return nil
}

// RemoveSupply takes qty units of a supply out of the inventory.
func (m *Manager) RemoveSupply(name string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.inv.Supply(name)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrUnknownSupply, name)
	}
	if !m.inv.RemoveSupply(name, qty) {
		return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, name, s.Quantity, qty)
	}
	return nil
}

// Run allocates the inventory over the active recipients.
func (m *Manager) Run(ctx context.Context) (Result, error) {
	return m.run(ctx, logging.KindAllocate)
}

// Rebalance restores the last run into the inventory and allocates again.
func (m *Manager) Rebalance(ctx context.Context) (Result, error) {
	return m.run(ctx, logging.KindRebalance)
}

// Simulate allocates against a copy of the inventory. Nothing is mutated,
// published or persisted.
func (m *Manager) Simulate(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	start := time.Now()
	res := m.newResult(KindSimulate, start)
	records, after, plans := m.engine.Simulate(m.recipients, m.inv)
	res.Records = records
	res.Plans = plans
	res.Remaining = after.Quantities()
	res.Duration = time.Since(start)
	return res, nil
}

// History returns the results of past runs, oldest first.
func (m *Manager) History() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Result(nil), m.history...)
}

// Close releases resources held by the manager.
func (m *Manager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	m.mu.Lock()
	store := m.store
	m.store = nil
	m.mu.Unlock()
	if store != nil {
		return store.Close()
	}
	return nil
}

func (m *Manager) run(ctx context.Context, kind string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	m.mu.Lock()
	start := time.Now()
	res := m.newResult(kind, start)
	if kind == logging.KindRebalance {
		res.Restored = m.engine.Restore(m.inv)
	}
	res.Records = m.engine.Allocate(m.recipients, m.inv)
	res.Plans = m.engine.LastPlans()
	res.Remaining = m.inv.Quantities()
	res.Duration = time.Since(start)
	m.history = append(m.history, res)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
	store := m.store
	m.updateStatus(res)
	m.mu.Unlock()

	m.logger.Infof("%s run %s served %d of %d recipients", kind, res.RunID, res.Served(), len(res.Ranked))
	m.publish(res)
	m.recordMetrics(res)
	if store != nil {
		if err := store.Append(ctx, m.logRecord(res)); err != nil {
			m.logger.Errorf("run log append failed: %v", err)
			monitoring.CaptureException(err, map[string]string{"component": "allocation", "run_id": res.RunID, "kind": kind})
		}
	}
	return res, nil
}

// newResult ranks the roster and fills the identification fields. m.mu must be held.
func (m *Manager) newResult(kind string, ts time.Time) Result {
	ranked := Rank(m.recipients)
	res := Result{
		RunID:      uuid.NewString(),
		Kind:       kind,
		Timestamp:  ts,
		Ranked:     make([]string, len(ranked)),
		Capacities: make(map[string]int, len(ranked)),
		Priorities: make(map[string]float64, len(ranked)),
	}
	for i, r := range ranked {
		res.Ranked[i] = r.ID()
		res.Capacities[r.ID()] = m.engine.Capacity(r)
		res.Priorities[r.ID()] = r.PriorityScore()
	}
	return res
}

func (m *Manager) publish(res Result) {
	if m.bus == nil {
		return
	}
	if res.Restored != nil {
		m.bus.Publish(events.RebalanceEvent{RunID: res.RunID, Restored: res.Restored})
	}
	for i, rec := range res.Records {
		m.bus.Publish(events.RecipientEvent{
			RunID:       res.RunID,
			RecipientID: rec.RecipientID,
			Rank:        i + 1,
			Capacity:    res.Capacities[rec.RecipientID],
			Served:      rec.HasAllocations(),
			Score:       rec.Score,
		})
	}
	m.bus.Publish(events.RunEvent{
		RunID:      res.RunID,
		Kind:       res.Kind,
		Recipients: len(res.Records),
		Served:     res.Served(),
		Remaining:  res.Remaining,
		Weight:     res.TotalWeight(),
		Duration:   res.Duration,
		Time:       res.Timestamp,
	})
}

// recordMetrics updates the package collectors and the configured sink.
func (m *Manager) recordMetrics(res Result) {
	runsTotal.WithLabelValues(res.Kind).Inc()
	recipientsServed.WithLabelValues(res.Kind).Add(float64(res.Served()))
	runDuration.Observe(res.Duration.Seconds())
	for name, qty := range res.Remaining {
		inventoryUnits.WithLabelValues(name).Set(float64(qty))
	}

	var recs []metrics.AllocationResult
	for i, rec := range res.Records {
		units := 0
		for _, l := range rec.Lines {
			units += l.Quantity
			unitsAllocated.WithLabelValues(l.Supply).Add(float64(l.Quantity))
		}
		recs = append(recs, metrics.AllocationResult{
			RunID:       res.RunID,
			Kind:        res.Kind,
			RecipientID: rec.RecipientID,
			Rank:        i + 1,
			Priority:    res.Priorities[rec.RecipientID],
			Capacity:    res.Capacities[rec.RecipientID],
			TotalValue:  rec.TotalValue,
			TotalWeight: rec.TotalWeight,
			Units:       units,
			Score:       rec.Score,
			Served:      rec.HasAllocations(),
			Time:        res.Timestamp,
		})
	}
	if len(recs) == 0 {
		return
	}
	if err := m.metrics.RecordAllocationResult(recs); err != nil {
		m.logger.Errorf("metrics error: %v", err)
		monitoring.CaptureException(err, map[string]string{"component": "metrics", "run_id": res.RunID})
	}
}

func (m *Manager) logRecord(res Result) logging.LogRecord {
	recs := make([]model.Record, len(res.Records))
	for i, r := range res.Records {
		recs[i] = *r.Clone()
	}
	return logging.LogRecord{
		RunID:            res.RunID,
		Timestamp:        res.Timestamp,
		Kind:             res.Kind,
		BaseCapacity:     m.engine.Config().BaseCapacity,
		RecipientsRanked: res.Ranked,
		Records:          recs,
		InventoryAfter:   res.Remaining,
	}
}

// updateStatus records the outcome of res for every ranked recipient. m.mu must be held.
func (m *Manager) updateStatus(res Result) {
	if m.statusStore == nil {
		return
	}
	for i, rec := range res.Records {
		m.statusStore.RecordAllocation(rec.RecipientID, status.LastAllocation{
			RunID:       res.RunID,
			Kind:        res.Kind,
			Rank:        i + 1,
			Capacity:    res.Capacities[rec.RecipientID],
			Quantities:  rec.Quantities(),
			TotalValue:  rec.TotalValue,
			TotalWeight: rec.TotalWeight,
			Score:       rec.Score,
			Timestamp:   res.Timestamp,
		})
	}
}

// setStatus refreshes the stored identity fields of r. m.mu must be held.
func (m *Manager) setStatus(r *model.Recipient) {
	if m.statusStore == nil {
		return
	}
	st := status.Status{
		RecipientID:   r.ID(),
		Priority:      r.PriorityScore(),
		Urgency:       r.Urgency(),
		Active:        r.Active(),
		CurrentStatus: status.StatusWaiting,
	}
	if prev, ok := m.statusStore.Get(r.ID()); ok {
		st.LastAllocation = prev.LastAllocation
		if prev.CurrentStatus != "" && prev.CurrentStatus != status.StatusInactive {
			st.CurrentStatus = prev.CurrentStatus
		}
	}
	if !r.Active() {
		st.CurrentStatus = status.StatusInactive
	}
	m.statusStore.Set(st)
}

// indexOf returns the roster position of id or -1. m.mu must be held.
func (m *Manager) indexOf(id string) int {
	for i, r := range m.recipients {
		if r.ID() == id {
			return i
		}
	}
	return -1
}
